// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// report.go holds the read-only analytical queries: the category-rooted
// top-products aggregation, per-client spend, and per-category child
// counts. These queries never write; snapshot isolation is the caller's
// transaction concern.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orderflow/internal/models"
)

// ReportStore runs the analytical report queries.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore returns a new ReportStore.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// TopProducts returns up to limit products ranked by total quantity sold
// since the given boundary (inclusive), each attributed to its root
// category. Ties are broken by ascending product id so the output is
// deterministic. Categories that never reach a root are omitted by the
// recursive walk; run the hierarchy resolver separately to surface those
// as integrity errors.
func (s *ReportStore) TopProducts(ctx context.Context, since time.Time, limit int) ([]models.TopProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE category_tree AS (
			SELECT id, name, id AS root_id, name AS root_name
			FROM categories
			WHERE parent_id IS NULL
			UNION ALL
			SELECT c.id, c.name, ct.root_id, ct.root_name
			FROM categories c
			JOIN category_tree ct ON c.parent_id = ct.id
		)
		SELECT n.id, n.name, ct.root_name, SUM(oi.quantity) AS total_quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN nomenclatures n ON n.id = oi.nomenclature_id
		JOIN category_tree ct ON ct.id = n.category_id
		WHERE o.order_date >= $1
		GROUP BY n.id, n.name, ct.root_name
		ORDER BY total_quantity DESC, n.id ASC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var items []models.TopProduct
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.RootCategoryName, &p.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ClientTotals returns the total spend per client across all their order
// items (quantity × price_at_purchase, no time window). Clients without
// order items are not reported.
func (s *ReportStore) ClientTotals(ctx context.Context) ([]models.ClientTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, SUM(oi.quantity * oi.price_at_purchase) AS total_sum
		FROM clients c
		JOIN orders o ON o.client_id = c.id
		JOIN order_items oi ON oi.order_id = o.id
		GROUP BY c.id, c.name
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("client totals: %w", err)
	}
	defer rows.Close()

	var items []models.ClientTotal
	for rows.Next() {
		var ct models.ClientTotal
		if err := rows.Scan(&ct.ClientName, &ct.TotalSum); err != nil {
			return nil, fmt.Errorf("scan client total: %w", err)
		}
		items = append(items, ct)
	}
	return items, rows.Err()
}

// CategoryChildCounts returns, for every category, the number of categories
// whose parent_id points at it — immediate children only, not the full
// subtree. Childless categories appear with a count of 0.
func (s *ReportStore) CategoryChildCounts(ctx context.Context) ([]models.CategoryChildCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, COUNT(ch.id) AS children_count
		FROM categories p
		LEFT JOIN categories ch ON ch.parent_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("category child counts: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryChildCount
	for rows.Next() {
		var cc models.CategoryChildCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.ChildrenCount); err != nil {
			return nil, fmt.Errorf("scan category child count: %w", err)
		}
		items = append(items, cc)
	}
	return items, rows.Err()
}
