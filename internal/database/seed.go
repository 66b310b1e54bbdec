package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a three-level
// category tree, a handful of products with stock, two clients, and two
// orders with items. It is a no-op when clients already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count); err != nil {
		return fmt.Errorf("seed check clients: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var client1, client2 int64
	if err := tx.QueryRow(
		`INSERT INTO clients (name, address) VALUES ($1, $2) RETURNING id`,
		"Ivanov Trading", "Moscow",
	).Scan(&client1); err != nil {
		return fmt.Errorf("seed client: %w", err)
	}
	if err := tx.QueryRow(
		`INSERT INTO clients (name, address) VALUES ($1, $2) RETURNING id`,
		"Romashka LLC", "Saint Petersburg",
	).Scan(&client2); err != nil {
		return fmt.Errorf("seed client: %w", err)
	}

	// Category forest: two roots, three levels deep under each.
	insertCategory := func(name string, parentID *int64) (int64, error) {
		var id int64
		err := tx.QueryRow(
			`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`,
			name, parentID,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("seed category %q: %w", name, err)
		}
		return id, nil
	}

	appliances, err := insertCategory("Home Appliances", nil)
	if err != nil {
		return err
	}
	computers, err := insertCategory("Computers", nil)
	if err != nil {
		return err
	}
	washers, err := insertCategory("Washing Machines", &appliances)
	if err != nil {
		return err
	}
	fridges, err := insertCategory("Refrigerators", &appliances)
	if err != nil {
		return err
	}
	if _, err := insertCategory("TVs", &appliances); err != nil {
		return err
	}
	laptops, err := insertCategory("Laptops", &computers)
	if err != nil {
		return err
	}
	fridgesSingle, err := insertCategory("Single-door", &fridges)
	if err != nil {
		return err
	}
	fridgesDouble, err := insertCategory("Double-door", &fridges)
	if err != nil {
		return err
	}
	laptops17, err := insertCategory("17 inch", &laptops)
	if err != nil {
		return err
	}
	if _, err := insertCategory("19 inch", &laptops); err != nil {
		return err
	}

	insertProduct := func(name string, quantity int, price string, categoryID int64) (int64, error) {
		var id int64
		err := tx.QueryRow(
			`INSERT INTO nomenclatures (name, quantity, price, category_id)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			name, quantity, price, categoryID,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("seed nomenclature %q: %w", name, err)
		}
		return id, nil
	}

	washer, err := insertProduct("Bosch Serie 6", 10, "60000.00", washers)
	if err != nil {
		return err
	}
	if _, err := insertProduct("LG Single-door", 5, "45000.00", fridgesSingle); err != nil {
		return err
	}
	if _, err := insertProduct("LG Double-door", 2, "150000.00", fridgesDouble); err != nil {
		return err
	}
	if _, err := insertProduct("Dell XPS 17", 8, "210000.00", laptops17); err != nil {
		return err
	}
	cable, err := insertProduct("Power Cable", 1000, "500.00", appliances)
	if err != nil {
		return err
	}

	insertOrder := func(clientID int64) (int64, error) {
		var id int64
		err := tx.QueryRow(`INSERT INTO orders (client_id) VALUES ($1) RETURNING id`, clientID).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("seed order: %w", err)
		}
		return id, nil
	}
	insertItem := func(orderID, productID int64, quantity int, price string) error {
		_, err := tx.Exec(
			`INSERT INTO order_items (order_id, nomenclature_id, quantity, price_at_purchase)
			 VALUES ($1, $2, $3, $4)`,
			orderID, productID, quantity, price,
		)
		if err != nil {
			return fmt.Errorf("seed order item: %w", err)
		}
		return nil
	}

	order1, err := insertOrder(client1)
	if err != nil {
		return err
	}
	if err := insertItem(order1, washer, 1, "60000.00"); err != nil {
		return err
	}
	if err := insertItem(order1, cable, 10, "500.00"); err != nil {
		return err
	}

	order2, err := insertOrder(client2)
	if err != nil {
		return err
	}
	if err := insertItem(order2, cable, 50, "500.00"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development data",
		"clients", 2,
		"categories", 10,
		"nomenclatures", 5,
		"orders", 2,
	)

	return nil
}
