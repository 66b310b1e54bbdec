// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"orderflow/internal/models"
	"orderflow/internal/store"
)

// Catalog groups read handlers for the reference data: categories, clients,
// and products (nomenclatures).
type Catalog struct {
	categoryStore     *store.CategoryStore
	clientStore       *store.ClientStore
	nomenclatureStore *store.NomenclatureStore
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(categoryStore *store.CategoryStore, clientStore *store.ClientStore, nomenclatureStore *store.NomenclatureStore) *Catalog {
	return &Catalog{
		categoryStore:     categoryStore,
		clientStore:       clientStore,
		nomenclatureStore: nomenclatureStore,
	}
}

// ListCategories handles GET /api/v1/categories: the flat category list.
func (h *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.ListAll()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// CreateCategory handles POST /api/v1/categories. The parent, when given,
// must already exist; the database enforces the foreign key but we check
// here to return a clean 400 instead of a constraint violation.
func (h *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid JSON body.")
		return
	}

	if msg := validateCategory(req.Name); msg != "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, msg)
		return
	}

	if req.ParentID != nil {
		parent, err := h.categoryStore.FindByID(*req.ParentID)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		if parent == nil {
			writeError(w, r, http.StatusBadRequest, codeValidation, "Parent category does not exist.")
			return
		}
	}

	created, err := h.categoryStore.Create(&models.Category{
		Name:     strings.TrimSpace(req.Name),
		ParentID: req.ParentID,
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListCategoriesNested handles GET /api/v1/categories/nested: the category
// forest as nested objects with depth, for catalog navigation. The flat
// root-mapping view lives at /categories/tree.
func (h *Catalog) ListCategoriesNested(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categoryStore.Tree()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if tree == nil {
		tree = []models.Category{}
	}
	writeJSON(w, http.StatusOK, tree)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}. Child categories
// are removed with it (ON DELETE CASCADE).
func (h *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid category id.")
		return
	}

	category, err := h.categoryStore.FindByID(id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "Category not found.")
		return
	}

	if err := h.categoryStore.Delete(id); err != nil {
		writeInternalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListClients handles GET /api/v1/clients.
func (h *Catalog) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientStore.List()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

type createClientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateClient handles POST /api/v1/clients.
func (h *Catalog) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid JSON body.")
		return
	}

	if msg := validateClient(req.Name); msg != "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, msg)
		return
	}

	created, err := h.clientStore.Create(&models.Client{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListNomenclatures handles GET /api/v1/nomenclatures.
func (h *Catalog) ListNomenclatures(w http.ResponseWriter, r *http.Request) {
	products, err := h.nomenclatureStore.List()
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Nomenclature{}
	}
	writeJSON(w, http.StatusOK, products)
}

type createNomenclatureRequest struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"category_id"`
}

// CreateNomenclature handles POST /api/v1/nomenclatures. The category must
// already exist; checked here so the caller gets a clean 400 instead of a
// foreign key violation.
func (h *Catalog) CreateNomenclature(w http.ResponseWriter, r *http.Request) {
	var req createNomenclatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid JSON body.")
		return
	}

	if msg := validateNomenclature(req.Name, req.Quantity, req.Price, req.CategoryID); msg != "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, msg)
		return
	}

	category, err := h.categoryStore.FindByID(req.CategoryID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "Category does not exist.")
		return
	}

	created, err := h.nomenclatureStore.Create(&models.Nomenclature{
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetNomenclature handles GET /api/v1/nomenclatures/{id}.
func (h *Catalog) GetNomenclature(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid nomenclature id.")
		return
	}

	product, err := h.nomenclatureStore.FindByID(id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "Nomenclature not found.")
		return
	}

	writeJSON(w, http.StatusOK, product)
}
