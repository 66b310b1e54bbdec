// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer sales order.
type Order struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	OrderDate time.Time `json:"order_date"`

	// Virtual field populated by store methods.
	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a single product line in an order. PriceAtPurchase captures
// the product price at transaction time and must never be recomputed from
// the current nomenclature price.
type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	NomenclatureID  int64           `json:"nomenclature_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
