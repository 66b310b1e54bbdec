// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"orderflow/internal/models"
)

// NomenclatureStore manages products (nomenclature items) in the database.
type NomenclatureStore struct {
	db *sql.DB
}

// NewNomenclatureStore returns a new NomenclatureStore.
func NewNomenclatureStore(db *sql.DB) *NomenclatureStore {
	return &NomenclatureStore{db: db}
}

const nomenclatureColumns = `id, name, quantity, price, category_id`

func scanNomenclature(scanner interface{ Scan(...any) error }) (*models.Nomenclature, error) {
	var n models.Nomenclature
	if err := scanner.Scan(&n.ID, &n.Name, &n.Quantity, &n.Price, &n.CategoryID); err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns all products ordered by id.
func (s *NomenclatureStore) List() ([]models.Nomenclature, error) {
	rows, err := s.db.Query(`SELECT ` + nomenclatureColumns + ` FROM nomenclatures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list nomenclatures: %w", err)
	}
	defer rows.Close()

	var items []models.Nomenclature
	for rows.Next() {
		n, err := scanNomenclature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nomenclature: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *NomenclatureStore) FindByID(id int64) (*models.Nomenclature, error) {
	row := s.db.QueryRow(`SELECT `+nomenclatureColumns+` FROM nomenclatures WHERE id = $1`, id)
	n, err := scanNomenclature(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find nomenclature by id: %w", err)
	}
	return n, nil
}

// Create inserts a new product and returns it.
func (s *NomenclatureStore) Create(n *models.Nomenclature) (*models.Nomenclature, error) {
	row := s.db.QueryRow(`
		INSERT INTO nomenclatures (name, quantity, price, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+nomenclatureColumns,
		n.Name, n.Quantity, n.Price, n.CategoryID,
	)
	created, err := scanNomenclature(row)
	if err != nil {
		return nil, fmt.Errorf("create nomenclature: %w", err)
	}
	return created, nil
}
