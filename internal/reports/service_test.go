// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"orderflow/internal/hierarchy"
	"orderflow/internal/store"
)

func TestWindowStartUsesCalendarMonths(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	got := WindowStart(now, 1)
	want := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("WindowStart: got %v, want %v", got, want)
	}
}

func TestWindowStartIsNotThirtyDays(t *testing.T) {
	// One calendar month back from March 15 is February 15 — 28 days,
	// not 30.
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got := WindowStart(now, 1)
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("WindowStart: got %v, want %v", got, want)
	}
	if days := now.Sub(got).Hours() / 24; days != 28 {
		t.Errorf("window length: got %.0f days, want 28", days)
	}
}

// mockService wires a Service to a sqlmock database with no snapshot cache
// and a fixed clock.
func mockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewService(store.NewReportStore(db), store.NewCategoryStore(db), nil, 5, 1)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestTopProductsLiveComputation(t *testing.T) {
	svc, mock := mockService(t)

	since := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WITH RECURSIVE category_tree").
		WithArgs(since, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "root_name", "total_quantity"}).
			AddRow(int64(5), "Power Cable", "Home Appliances", int64(60)).
			AddRow(int64(1), "Bosch Serie 6", "Home Appliances", int64(1)))

	// Integrity scan over a healthy category snapshot.
	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
			AddRow(int64(1), "Home Appliances", nil))

	report, err := svc.TopProducts(context.Background())
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(report.Products) != 2 {
		t.Fatalf("products: got %d, want 2", len(report.Products))
	}
	if !report.WindowStart.Equal(since) {
		t.Errorf("window start: got %v, want %v", report.WindowStart, since)
	}
	if report.IntegrityError != "" {
		t.Errorf("unexpected integrity error: %q", report.IntegrityError)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTopProductsReportsIntegrityViolationWithoutFailing(t *testing.T) {
	svc, mock := mockService(t)

	since := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WITH RECURSIVE category_tree").
		WithArgs(since, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "root_name", "total_quantity"}).
			AddRow(int64(5), "Power Cable", "Home Appliances", int64(60)))

	// Category snapshot with a two-node cycle next to a valid root.
	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
			AddRow(int64(1), "Home Appliances", nil).
			AddRow(int64(7), "X", int64(8)).
			AddRow(int64(8), "Y", int64(7)))

	report, err := svc.TopProducts(context.Background())
	if err != nil {
		t.Fatalf("TopProducts must not fail on an integrity violation: %v", err)
	}
	if len(report.Products) != 1 {
		t.Errorf("products: got %d, want 1", len(report.Products))
	}
	if report.IntegrityError == "" {
		t.Error("expected integrity error to be reported alongside results")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTopProductsEmptyWindowIsValid(t *testing.T) {
	svc, mock := mockService(t)

	since := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WITH RECURSIVE category_tree").
		WithArgs(since, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "root_name", "total_quantity"}))
	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}))

	report, err := svc.TopProducts(context.Background())
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(report.Products) != 0 {
		t.Errorf("products: got %d, want 0", len(report.Products))
	}
}

func TestCategoryTreeSurfacesIntegrityError(t *testing.T) {
	svc, mock := mockService(t)

	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
			AddRow(int64(1), "Orphan", int64(99)))

	_, err := svc.CategoryTree()
	var integrityErr *hierarchy.DataIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected *DataIntegrityError, got %v", err)
	}
}

func TestCategoryTreeResolvesRoots(t *testing.T) {
	svc, mock := mockService(t)

	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
			AddRow(int64(1), "Computers", nil).
			AddRow(int64(2), "Laptops", int64(1)).
			AddRow(int64(3), "17 inch", int64(2)))

	rows, err := svc.CategoryTree()
	if err != nil {
		t.Fatalf("CategoryTree: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.RootID != 1 || row.RootName != "Computers" {
			t.Errorf("category %d: root got (%d, %q), want (1, Computers)", row.CategoryID, row.RootID, row.RootName)
		}
	}
}

func TestDashboardRunsAllReports(t *testing.T) {
	svc, mock := mockService(t)
	// The three reports run concurrently; expectation order is unknown.
	mock.MatchExpectationsInOrder(false)

	since := time.Date(2026, 7, 26, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WITH RECURSIVE category_tree").
		WithArgs(since, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "root_name", "total_quantity"}).
			AddRow(int64(5), "Power Cable", "Home Appliances", int64(60)))
	mock.ExpectQuery("FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
			AddRow(int64(1), "Home Appliances", nil))
	mock.ExpectQuery("SELECT c.name, SUM").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_sum"}).
			AddRow("Romashka LLC", "25.00"))
	mock.ExpectQuery("LEFT JOIN categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "children_count"}).
			AddRow(int64(1), "Home Appliances", 3))

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.TopProducts == nil || len(dash.TopProducts.Products) != 1 {
		t.Errorf("top products: got %+v", dash.TopProducts)
	}
	if len(dash.ClientTotals) != 1 {
		t.Errorf("client totals: got %d rows, want 1", len(dash.ClientTotals))
	}
	if len(dash.CategoryChildCounts) != 1 {
		t.Errorf("child counts: got %d rows, want 1", len(dash.CategoryChildCounts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestScheduleRefreshDisabledWithoutCache(t *testing.T) {
	svc, _ := mockService(t)

	c, err := svc.ScheduleRefresh("@every 5m")
	if err != nil {
		t.Fatalf("ScheduleRefresh: %v", err)
	}
	if c != nil {
		t.Error("expected no cron when the snapshot cache is disabled")
	}
}
