// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package reports composes the analytical queries into the three report
// surfaces: the trailing-window top-products ranking, per-client spend,
// and per-category child counts. The top-products report can be served
// live or from a Valkey-materialized snapshot refreshed on a schedule.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"orderflow/internal/cache"
	"orderflow/internal/hierarchy"
	"orderflow/internal/models"
	"orderflow/internal/store"
)

// TopProductsReport is the snapshot served for the top-selling-products
// report. IntegrityError carries a category-graph violation detected while
// generating the report; affected products are excluded from Products
// rather than failing the whole report.
type TopProductsReport struct {
	Products       []models.TopProduct `json:"products"`
	WindowStart    time.Time           `json:"window_start"`
	GeneratedAt    time.Time           `json:"generated_at"`
	IntegrityError string              `json:"integrity_error,omitempty"`
}

// Dashboard bundles all three reports for a single overview request.
type Dashboard struct {
	TopProducts         *TopProductsReport          `json:"top_products"`
	ClientTotals        []models.ClientTotal        `json:"client_totals"`
	CategoryChildCounts []models.CategoryChildCount `json:"category_child_counts"`
}

// Service runs the reports. The snapshot cache is optional: a nil cache
// means every read recomputes from the database.
type Service struct {
	reportStore   *store.ReportStore
	categoryStore *store.CategoryStore
	snapshots     *cache.ReportCache
	limit         int
	windowMonths  int
	now           func() time.Time
}

// NewService creates a reports service. snapshots may be nil to disable
// materialization. limit is the number of rows kept in the top-products
// report; windowMonths the trailing window length in calendar months.
func NewService(reportStore *store.ReportStore, categoryStore *store.CategoryStore, snapshots *cache.ReportCache, limit, windowMonths int) *Service {
	return &Service{
		reportStore:   reportStore,
		categoryStore: categoryStore,
		snapshots:     snapshots,
		limit:         limit,
		windowMonths:  windowMonths,
		now:           time.Now,
	}
}

// WindowStart returns the inclusive lower bound of the trailing report
// window: the given number of calendar months before now, not a fixed
// number of days.
func WindowStart(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// TopProducts returns the top-products report, preferring the materialized
// snapshot when one is cached and falling back to live computation.
func (s *Service) TopProducts(ctx context.Context) (*TopProductsReport, error) {
	if s.snapshots != nil {
		if raw, ok := s.snapshots.Get(ctx, cache.TopProductsKey()); ok {
			var report TopProductsReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return &report, nil
			}
			slog.Warn("discarding undecodable top-products snapshot")
		}
	}
	return s.computeTopProducts(ctx)
}

// RefreshTopProducts recomputes the top-products report and replaces the
// materialized snapshot. Refreshing is idempotent and safe to run
// concurrently with readers: the snapshot is written with a single SET.
func (s *Service) RefreshTopProducts(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	_, err := s.computeTopProducts(ctx)
	return err
}

func (s *Service) computeTopProducts(ctx context.Context) (*TopProductsReport, error) {
	now := s.now()
	report := &TopProductsReport{
		WindowStart: WindowStart(now, s.windowMonths),
		GeneratedAt: now,
	}

	products, err := s.reportStore.TopProducts(ctx, report.WindowStart, s.limit)
	if err != nil {
		return nil, fmt.Errorf("compute top products: %w", err)
	}
	report.Products = products

	// The recursive query silently drops categories that never reach a
	// root, so products under them are excluded from the ranking. Surface
	// the violation alongside the report instead of failing it.
	if err := s.checkIntegrity(); err != nil {
		var integrityErr *hierarchy.DataIntegrityError
		if !errors.As(err, &integrityErr) {
			return nil, err
		}
		slog.Error("category graph integrity violation detected during report generation",
			"category_id", integrityErr.CategoryID,
			"reason", integrityErr.Reason,
		)
		report.IntegrityError = integrityErr.Error()
	}

	if s.snapshots != nil {
		if raw, err := json.Marshal(report); err == nil {
			s.snapshots.Set(ctx, cache.TopProductsKey(), raw)
		}
	}
	return report, nil
}

// checkIntegrity resolves the current category snapshot, returning the
// resolver's *DataIntegrityError when the graph is not a valid forest.
func (s *Service) checkIntegrity() error {
	categories, err := s.categoryStore.ListAll()
	if err != nil {
		return fmt.Errorf("load category snapshot: %w", err)
	}
	_, err = hierarchy.Resolve(categories)
	return err
}

// CategoryTree resolves every category to its root ancestor. A malformed
// category graph yields a *hierarchy.DataIntegrityError.
func (s *Service) CategoryTree() ([]models.CategoryTreeRow, error) {
	categories, err := s.categoryStore.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load category snapshot: %w", err)
	}
	return hierarchy.Resolve(categories)
}

// ClientTotals returns the per-client spend report.
func (s *Service) ClientTotals(ctx context.Context) ([]models.ClientTotal, error) {
	return s.reportStore.ClientTotals(ctx)
}

// CategoryChildCounts returns the per-category immediate-child counts.
func (s *Service) CategoryChildCounts(ctx context.Context) ([]models.CategoryChildCount, error) {
	return s.reportStore.CategoryChildCounts(ctx)
}

// Dashboard computes the three reports concurrently. A failing report
// cancels the in-flight siblings through the errgroup context.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report, err := s.TopProducts(ctx)
		if err != nil {
			return err
		}
		dash.TopProducts = report
		return nil
	})
	g.Go(func() error {
		totals, err := s.ClientTotals(ctx)
		if err != nil {
			return err
		}
		dash.ClientTotals = totals
		return nil
	})
	g.Go(func() error {
		counts, err := s.CategoryChildCounts(ctx)
		if err != nil {
			return err
		}
		dash.CategoryChildCounts = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// ScheduleRefresh starts a cron schedule that refreshes the top-products
// snapshot. Returns nil without starting anything when the snapshot cache
// is disabled or the spec is empty. Callers stop the returned cron on
// shutdown.
func (s *Service) ScheduleRefresh(spec string) (*cron.Cron, error) {
	if s.snapshots == nil || spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.RefreshTopProducts(ctx); err != nil {
			slog.Error("scheduled top-products refresh failed", "error", err)
			return
		}
		slog.Debug("top-products snapshot refreshed")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule report refresh: %w", err)
	}

	c.Start()
	slog.Info("report snapshot refresh scheduled", "spec", spec)
	return c, nil
}
