// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"orderflow/internal/hierarchy"
	"orderflow/internal/models"
	"orderflow/internal/reports"
)

// Reports groups handlers for the analytical report endpoints. All of them
// read through the reports service so the snapshot cache, trailing window,
// and integrity checking behave the same regardless of entry point.
type Reports struct {
	service *reports.Service
}

// NewReports creates a new Reports handler group.
func NewReports(service *reports.Service) *Reports {
	return &Reports{service: service}
}

// TopProducts handles GET /api/v1/reports/top-products. If a materialized
// snapshot exists it is served as-is; otherwise the report is computed live.
func (h *Reports) TopProducts(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.TopProducts(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ClientTotals handles GET /api/v1/reports/client-totals.
func (h *Reports) ClientTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.ClientTotals(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if totals == nil {
		totals = []models.ClientTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

// CategoryChildCounts handles GET /api/v1/reports/category-children.
func (h *Reports) CategoryChildCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CategoryChildCounts(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if counts == nil {
		counts = []models.CategoryChildCount{}
	}
	writeJSON(w, http.StatusOK, counts)
}

// Dashboard handles GET /api/v1/reports/dashboard, bundling all three
// reports computed concurrently.
func (h *Reports) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// CategoryTree handles GET /api/v1/categories/tree: the full category-to-root
// mapping. A broken category graph (cycle or dangling parent) is a 409 so
// callers can distinguish bad data from a server fault.
func (h *Reports) CategoryTree(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CategoryTree()
	if err != nil {
		var integrityErr *hierarchy.DataIntegrityError
		if errors.As(err, &integrityErr) {
			writeError(w, r, http.StatusConflict, codeConflict, integrityErr.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.CategoryTreeRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
