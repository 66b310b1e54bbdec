// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"orderflow/internal/database"
	"orderflow/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "orderflow")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "orderflow")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a category and registers FK-safe cleanup.
func testCategory(t *testing.T, db *sql.DB, name string, parentID *int64) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(
		`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`,
		name, parentID,
	).Scan(&id); err != nil {
		t.Fatalf("insert test category: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM categories WHERE id = $1`, id) })
	return id
}

// testClient inserts a client and registers cleanup.
func testClient(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(
		`INSERT INTO clients (name, address) VALUES ($1, $2) RETURNING id`,
		name, "test address",
	).Scan(&id); err != nil {
		t.Fatalf("insert test client: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM clients WHERE id = $1`, id) })
	return id
}

// testProduct inserts a nomenclature and registers cleanup.
func testProduct(t *testing.T, db *sql.DB, name string, quantity int, price string, categoryID int64) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(
		`INSERT INTO nomenclatures (name, quantity, price, category_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		name, quantity, price, categoryID,
	).Scan(&id); err != nil {
		t.Fatalf("insert test product: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM nomenclatures WHERE id = $1`, id) })
	return id
}

// cleanOrder removes an order and its item lines. Call in t.Cleanup().
func cleanOrder(t *testing.T, db *sql.DB, orderID int64) {
	t.Helper()
	db.Exec(`DELETE FROM order_items WHERE order_id = $1`, orderID)
	db.Exec(`DELETE FROM orders WHERE id = $1`, orderID)
}

func findItem(items []models.OrderItem, nomenclatureID int64) *models.OrderItem {
	for i := range items {
		if items[i].NomenclatureID == nomenclatureID {
			return &items[i]
		}
	}
	return nil
}
