// Package router sets up all HTTP routes and middleware chains for the
// orderflow API. Report endpoints sit behind a rate limiter; everything
// else gets the global logging/recovery/request-id stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orderflow/internal/handlers"
	"orderflow/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. reportLimiter may be nil to serve reports
// without rate limiting.
func New(reportLimiter *middleware.RateLimiter, reports *handlers.Reports, orders *handlers.Orders, catalog *handlers.Catalog) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Reference data.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalog.ListCategories)
			r.Post("/", catalog.CreateCategory)
			r.Get("/tree", reports.CategoryTree)
			r.Get("/nested", catalog.ListCategoriesNested)
			r.Delete("/{id}", catalog.DeleteCategory)
		})
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", catalog.ListClients)
			r.Post("/", catalog.CreateClient)
		})
		r.Route("/nomenclatures", func(r chi.Router) {
			r.Get("/", catalog.ListNomenclatures)
			r.Post("/", catalog.CreateNomenclature)
			r.Get("/{id}", catalog.GetNomenclature)
		})

		// Orders.
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Create)
			r.Get("/{id}", orders.Get)
			r.Post("/{id}/items", orders.AddItem)
		})

		// Reports — the expensive aggregate queries are rate limited.
		r.Route("/reports", func(r chi.Router) {
			if reportLimiter != nil {
				r.Use(reportLimiter.Middleware)
			}
			r.Get("/top-products", reports.TopProducts)
			r.Get("/client-totals", reports.ClientTotals)
			r.Get("/category-children", reports.CategoryChildCounts)
			r.Get("/dashboard", reports.Dashboard)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
