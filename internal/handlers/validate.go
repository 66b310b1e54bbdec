package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"orderflow/internal/store"
)

// Validation limits for API inputs.
const (
	maxNameLen    = 300
	maxOrderLines = 100
)

// validateCategory checks category creation inputs and returns the first
// error found.
func validateCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Category name is too long (max 300 characters)."
	}
	return ""
}

// validateClient checks client creation inputs and returns the first
// error found. Address is optional.
func validateClient(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Client name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Client name is too long (max 300 characters)."
	}
	return ""
}

// validateNomenclature checks product creation inputs and returns the
// first error found.
func validateNomenclature(name string, quantity int, price decimal.Decimal, categoryID int64) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Nomenclature name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Nomenclature name is too long (max 300 characters)."
	}
	if quantity < 0 {
		return "Stock quantity cannot be negative."
	}
	if price.IsNegative() {
		return "Price cannot be negative."
	}
	if categoryID <= 0 {
		return "A valid category_id is required."
	}
	return ""
}

// validateOrderLines checks the item lines of an order request. Quantity
// bounds against available stock are enforced by the store inside the
// transaction; this only rejects requests that are malformed on their face.
func validateOrderLines(lines []store.OrderLine) string {
	if len(lines) == 0 {
		return "At least one order item is required."
	}
	if len(lines) > maxOrderLines {
		return "Too many order items (max 100)."
	}
	for _, line := range lines {
		if line.NomenclatureID <= 0 {
			return "Each order item needs a valid nomenclature_id."
		}
		if line.Quantity <= 0 {
			return "Each order item needs a positive quantity."
		}
	}
	return ""
}
