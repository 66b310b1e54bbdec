package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when no clients exist, so calling it twice
	// verifies idempotency. We don't clear the database first because
	// other test packages may run concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var clientCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM clients").Scan(&clientCount); err != nil {
		t.Fatalf("count clients: %v", err)
	}
	if clientCount < 2 {
		t.Errorf("expected at least 2 clients, got %d", clientCount)
	}

	// Every seeded category must reach a root: the recursive view depends
	// on the forest invariant.
	var rootCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE parent_id IS NULL").Scan(&rootCount); err != nil {
		t.Fatalf("count root categories: %v", err)
	}
	if rootCount < 2 {
		t.Errorf("expected at least 2 root categories, got %d", rootCount)
	}

	var productCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM nomenclatures").Scan(&productCount); err != nil {
		t.Fatalf("count nomenclatures: %v", err)
	}
	if productCount < 5 {
		t.Errorf("expected at least 5 nomenclatures, got %d", productCount)
	}
}
