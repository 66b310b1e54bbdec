// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"orderflow/internal/models"
)

// ClientStore manages clients in the database.
type ClientStore struct {
	db *sql.DB
}

// NewClientStore returns a new ClientStore.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

// List returns all clients ordered by id.
func (s *ClientStore) List() ([]models.Client, error) {
	rows, err := s.db.Query(`SELECT id, name, address FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var items []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Address); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a client by ID. Returns nil if not found.
func (s *ClientStore) FindByID(id int64) (*models.Client, error) {
	var c models.Client
	err := s.db.QueryRow(`SELECT id, name, address FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Address)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return &c, nil
}

// Create inserts a new client and returns it.
func (s *ClientStore) Create(c *models.Client) (*models.Client, error) {
	var created models.Client
	err := s.db.QueryRow(`
		INSERT INTO clients (name, address) VALUES ($1, $2)
		RETURNING id, name, address`,
		c.Name, c.Address,
	).Scan(&created.ID, &created.Name, &created.Address)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &created, nil
}
