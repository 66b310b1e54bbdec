// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/shopspring/decimal"

// Nomenclature is a sellable product. Quantity is the current stock level;
// Price is the current selling price. Every product belongs to exactly one
// category.
type Nomenclature struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"category_id"`
}
