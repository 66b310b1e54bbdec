// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"orderflow/internal/store"
)

// Orders groups handlers for order creation and item management.
type Orders struct {
	orderStore  *store.OrderStore
	clientStore *store.ClientStore
}

// NewOrders creates a new Orders handler group.
func NewOrders(orderStore *store.OrderStore, clientStore *store.ClientStore) *Orders {
	return &Orders{orderStore: orderStore, clientStore: clientStore}
}

type createOrderRequest struct {
	ClientID int64             `json:"client_id"`
	Items    []store.OrderLine `json:"items"`
}

// Create handles POST /api/v1/orders. Stock is checked and decremented
// inside the store transaction; the current product price is captured on
// each line as price_at_purchase.
func (h *Orders) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid JSON body.")
		return
	}

	if req.ClientID <= 0 {
		writeError(w, r, http.StatusBadRequest, codeValidation, "A valid client_id is required.")
		return
	}
	if msg := validateOrderLines(req.Items); msg != "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, msg)
		return
	}

	client, err := h.clientStore.FindByID(req.ClientID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if client == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "Client not found.")
		return
	}

	order, err := h.orderStore.Create(req.ClientID, req.Items)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/v1/orders/{id}, returning the order with its items.
func (h *Orders) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid order id.")
		return
	}

	order, err := h.orderStore.FindByID(id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if order == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "Order not found.")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AddItem handles POST /api/v1/orders/{id}/items. Adding a product already
// present on the order merges quantities into the existing line instead of
// creating a duplicate; the line keeps its original captured price.
func (h *Orders) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid order id.")
		return
	}

	var line store.OrderLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid JSON body.")
		return
	}
	if msg := validateOrderLines([]store.OrderLine{line}); msg != "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, msg)
		return
	}

	item, err := h.orderStore.AddItem(id, line)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// writeOrderError maps store errors from order mutations to API responses.
func (h *Orders) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *store.InsufficientStockError
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "Order not found.")
	case errors.Is(err, store.ErrNomenclatureNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "Nomenclature not found.")
	case errors.As(err, &stockErr):
		writeError(w, r, http.StatusBadRequest, codeInsufficientStock, stockErr.Error())
	default:
		writeInternalError(w, r, err)
	}
}
