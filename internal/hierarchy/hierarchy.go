// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy resolves the root ancestor of every category in a
// catalog snapshot. It is the application-level equivalent of the
// recursive category-tree SQL query: an iterative worklist over a
// parent→children adjacency map, so arbitrarily deep trees cannot blow
// the stack and malformed graphs cannot cause non-termination.
package hierarchy

import (
	"fmt"
	"sort"

	"orderflow/internal/models"
)

// DataIntegrityError reports a category graph that is not a valid forest:
// either a parent_id pointing at a missing category, or a cycle that
// prevents the category from ever reaching a root.
type DataIntegrityError struct {
	CategoryID int64
	Reason     string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("category graph integrity violation: category %d: %s", e.CategoryID, e.Reason)
}

// Resolve computes one CategoryTreeRow per category, mapping each category
// to its ultimate root ancestor. The input is treated as a full snapshot
// of the categories table.
//
// The result is a pure function of the snapshot: rows are ordered by
// category id, and resolving the same snapshot twice yields the same
// mapping. A category with a nil parent is its own root.
//
// Returns a *DataIntegrityError naming an offending category when the
// snapshot contains a dangling parent reference or a cycle.
func Resolve(categories []models.Category) ([]models.CategoryTreeRow, error) {
	byID := make(map[int64]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	// Seed the worklist with root categories; children adjacency drives
	// the fixed-point extension.
	children := make(map[int64][]int64)
	var worklist []int64
	roots := make(map[int64]int64, len(categories)) // category id -> root id

	for _, c := range categories {
		if c.ParentID == nil {
			roots[c.ID] = c.ID
			worklist = append(worklist, c.ID)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			return nil, &DataIntegrityError{
				CategoryID: c.ID,
				Reason:     fmt.Sprintf("parent %d does not exist", *c.ParentID),
			}
		}
		children[*c.ParentID] = append(children[*c.ParentID], c.ID)
	}

	// Propagate root assignments downward until the worklist is empty.
	// Every category in a valid forest is visited exactly once.
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, childID := range children[id] {
			roots[childID] = roots[id]
			worklist = append(worklist, childID)
		}
	}

	// Any category left without a root is part of a cycle: it has a valid
	// parent chain that never reaches a nil-parent category.
	if len(roots) != len(categories) {
		var offender int64 = -1
		for _, c := range categories {
			if _, ok := roots[c.ID]; !ok {
				if offender == -1 || c.ID < offender {
					offender = c.ID
				}
			}
		}
		return nil, &DataIntegrityError{
			CategoryID: offender,
			Reason:     "unreachable from any root category (cycle)",
		}
	}

	rows := make([]models.CategoryTreeRow, 0, len(categories))
	for _, c := range categories {
		rootID := roots[c.ID]
		rows = append(rows, models.CategoryTreeRow{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			RootID:       rootID,
			RootName:     byID[rootID].Name,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CategoryID < rows[j].CategoryID })

	return rows, nil
}

// RootsByCategory is a convenience wrapper around Resolve returning a
// category id → root lookup map.
func RootsByCategory(categories []models.Category) (map[int64]models.CategoryTreeRow, error) {
	rows, err := Resolve(categories)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]models.CategoryTreeRow, len(rows))
	for _, row := range rows {
		m[row.CategoryID] = row
	}
	return m, nil
}
