// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"orderflow/internal/models"
)

// ErrOrderNotFound is returned when the referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrNomenclatureNotFound is returned when the referenced product does not exist.
var ErrNomenclatureNotFound = errors.New("nomenclature not found")

// InsufficientStockError reports a product whose stock cannot cover the
// requested quantity.
type InsufficientStockError struct {
	NomenclatureID int64
	Requested      int
	Available      int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for nomenclature %d: requested %d, available %d",
		e.NomenclatureID, e.Requested, e.Available)
}

// OrderLine is one requested product line when creating an order.
type OrderLine struct {
	NomenclatureID int64 `json:"nomenclature_id"`
	Quantity       int   `json:"quantity"`
}

// OrderStore manages orders and their item lines in the database.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore returns a new OrderStore.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// FindByID retrieves an order with its item lines. Returns nil if the
// order does not exist.
func (s *OrderStore) FindByID(id int64) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(`SELECT id, client_id, order_date FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.ClientID, &o.OrderDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, order_id, nomenclature_id, quantity, price_at_purchase
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.NomenclatureID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

// Create creates an order for a client with the given product lines in a
// single transaction. Referenced products are locked with FOR UPDATE, stock
// is verified and decremented, and the current price is captured on each
// line as price_at_purchase.
func (s *OrderStore) Create(clientID int64, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one line")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.QueryRow(`INSERT INTO orders (client_id) VALUES ($1) RETURNING id, client_id, order_date`, clientID).
		Scan(&order.ID, &order.ClientID, &order.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, line := range lines {
		item, err := addLine(tx, order.ID, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return &order, nil
}

// AddItem adds a product line to an existing order, merging quantities when
// the order already has a line for the product. Stock is checked and
// decremented under FOR UPDATE; the price is captured only when the line is
// first created.
func (s *OrderStore) AddItem(orderID int64, line OrderLine) (*models.OrderItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	item, err := addLine(tx, orderID, line)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add item: %w", err)
	}
	return item, nil
}

// addLine locks the product row, verifies and decrements stock, and either
// merges the quantity into an existing line or inserts a new one with the
// current price captured.
func addLine(tx *sql.Tx, orderID int64, line OrderLine) (*models.OrderItem, error) {
	if line.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var available int
	var price decimal.Decimal
	err := tx.QueryRow(`SELECT quantity, price FROM nomenclatures WHERE id = $1 FOR UPDATE`, line.NomenclatureID).
		Scan(&available, &price)
	if err == sql.ErrNoRows {
		return nil, ErrNomenclatureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock nomenclature %d: %w", line.NomenclatureID, err)
	}

	if available < line.Quantity {
		return nil, &InsufficientStockError{
			NomenclatureID: line.NomenclatureID,
			Requested:      line.Quantity,
			Available:      available,
		}
	}

	if _, err := tx.Exec(`UPDATE nomenclatures SET quantity = quantity - $1 WHERE id = $2`,
		line.Quantity, line.NomenclatureID); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	var item models.OrderItem

	// Merge into an existing line when one exists. The original purchase
	// price stays: price_at_purchase is fixed at line creation time.
	err = tx.QueryRow(`
		UPDATE order_items SET quantity = quantity + $1
		WHERE order_id = $2 AND nomenclature_id = $3
		RETURNING id, order_id, nomenclature_id, quantity, price_at_purchase`,
		line.Quantity, orderID, line.NomenclatureID,
	).Scan(&item.ID, &item.OrderID, &item.NomenclatureID, &item.Quantity, &item.PriceAtPurchase)
	if err == nil {
		return &item, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("merge order item: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO order_items (order_id, nomenclature_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, nomenclature_id, quantity, price_at_purchase`,
		orderID, line.NomenclatureID, line.Quantity, price,
	).Scan(&item.ID, &item.OrderID, &item.NomenclatureID, &item.Quantity, &item.PriceAtPurchase)
	if err != nil {
		return nil, fmt.Errorf("insert order item: %w", err)
	}
	return &item, nil
}
