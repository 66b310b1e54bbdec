// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category represents a node in the catalog hierarchy. Categories form a
// forest via ParentID: a nil ParentID marks a root category.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}

// CategoryTreeRow maps a category to its top-most (root) ancestor.
// One row per category; for a root category RootID equals CategoryID.
// Recomputed from a snapshot of the categories table, never persisted.
type CategoryTreeRow struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	RootID       int64  `json:"root_id"`
	RootName     string `json:"root_name"`
}
