// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/shopspring/decimal"

// TopProduct is one row of the top-selling-products report: a product,
// the name of its root category, and the total quantity sold within the
// trailing window.
type TopProduct struct {
	ProductID        int64  `json:"product_id"`
	ProductName      string `json:"product_name"`
	RootCategoryName string `json:"root_category_name"`
	TotalQuantity    int64  `json:"total_quantity"`
}

// ClientTotal is one row of the per-client spend report. TotalSum is the
// sum of quantity × price_at_purchase across all the client's order items.
type ClientTotal struct {
	ClientName string          `json:"client_name"`
	TotalSum   decimal.Decimal `json:"total_sum"`
}

// CategoryChildCount is one row of the per-category child count report.
// ChildrenCount counts immediate children only, not the full subtree, and
// is zero (not an omitted row) for leaf categories.
type CategoryChildCount struct {
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name"`
	ChildrenCount int    `json:"children_count"`
}
