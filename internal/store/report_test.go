package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderflow/internal/models"
)

// insertOrderAt inserts an order with an explicit order date plus one item
// line, bypassing the stock bookkeeping. Used to stage report fixtures.
func insertOrderAt(t *testing.T, db *sql.DB, clientID, productID int64, quantity int, price string, at time.Time) int64 {
	t.Helper()
	var orderID int64
	if err := db.QueryRow(
		`INSERT INTO orders (client_id, order_date) VALUES ($1, $2) RETURNING id`,
		clientID, at,
	).Scan(&orderID); err != nil {
		t.Fatalf("insert test order: %v", err)
	}
	t.Cleanup(func() { cleanOrder(t, db, orderID) })

	if _, err := db.Exec(
		`INSERT INTO order_items (order_id, nomenclature_id, quantity, price_at_purchase)
		 VALUES ($1, $2, $3, $4)`,
		orderID, productID, quantity, price,
	); err != nil {
		t.Fatalf("insert test order item: %v", err)
	}
	return orderID
}

func TestReportStoreTopProductsRankingAndTruncation(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	suffix := uuid.NewString()[:8]
	rootName := "test-root-" + suffix
	rootID := testCategory(t, db, rootName, nil)
	leafID := testCategory(t, db, "test-leaf-"+suffix, &rootID)
	clientID := testClient(t, db, "test-client-"+suffix)

	// Six products with quantities far above anything else in the shared
	// test database, so they occupy the entire top of the ranking.
	quantities := []int{1000010, 1000009, 1000008, 1000007, 1000006, 1000005}
	productIDs := make([]int64, len(quantities))
	now := time.Now()
	for i, q := range quantities {
		productIDs[i] = testProduct(t, db, "test-top-"+suffix+"-"+string(rune('a'+i)), 0, "1.00", leafID)
		insertOrderAt(t, db, clientID, productIDs[i], q, "1.00", now)
	}

	got, err := s.TopProducts(context.Background(), now.AddDate(0, -1, 0), 5)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("rows: got %d, want 5", len(got))
	}

	for i, p := range got {
		if p.ProductID != productIDs[i] {
			t.Errorf("rank %d: got product %d, want %d", i, p.ProductID, productIDs[i])
		}
		if p.TotalQuantity != int64(quantities[i]) {
			t.Errorf("rank %d: got quantity %d, want %d", i, p.TotalQuantity, quantities[i])
		}
		if p.RootCategoryName != rootName {
			t.Errorf("rank %d: got root %q, want %q", i, p.RootCategoryName, rootName)
		}
	}

	// The sixth-highest seller must be excluded.
	for _, p := range got {
		if p.ProductID == productIDs[5] {
			t.Errorf("product %d (6th highest) should be truncated away", productIDs[5])
		}
	}
}

func TestReportStoreTopProductsTieBreakByProductID(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	suffix := uuid.NewString()[:8]
	rootID := testCategory(t, db, "test-root-"+suffix, nil)
	clientID := testClient(t, db, "test-client-"+suffix)

	first := testProduct(t, db, "test-tie-a-"+suffix, 0, "1.00", rootID)
	second := testProduct(t, db, "test-tie-b-"+suffix, 0, "1.00", rootID)

	now := time.Now()
	insertOrderAt(t, db, clientID, first, 2000000, "1.00", now)
	insertOrderAt(t, db, clientID, second, 2000000, "1.00", now)

	got, err := s.TopProducts(context.Background(), now.AddDate(0, -1, 0), 2)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows: got %d, want 2", len(got))
	}
	if got[0].ProductID != first || got[1].ProductID != second {
		t.Errorf("tie-break: got order [%d, %d], want [%d, %d]",
			got[0].ProductID, got[1].ProductID, first, second)
	}
}

func TestReportStoreTopProductsWindowBoundaryInclusive(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	suffix := uuid.NewString()[:8]
	rootID := testCategory(t, db, "test-root-"+suffix, nil)
	clientID := testClient(t, db, "test-client-"+suffix)

	onBoundary := testProduct(t, db, "test-window-in-"+suffix, 0, "1.00", rootID)
	beforeBoundary := testProduct(t, db, "test-window-out-"+suffix, 0, "1.00", rootID)

	since := time.Now().AddDate(0, -1, 0)
	insertOrderAt(t, db, clientID, onBoundary, 3000000, "1.00", since)
	insertOrderAt(t, db, clientID, beforeBoundary, 3000000, "1.00", since.AddDate(0, 0, -1))

	got, err := s.TopProducts(context.Background(), since, 1000)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}

	var sawIn, sawOut bool
	for _, p := range got {
		if p.ProductID == onBoundary {
			sawIn = true
		}
		if p.ProductID == beforeBoundary {
			sawOut = true
		}
	}
	if !sawIn {
		t.Error("order dated exactly at the window boundary must be included")
	}
	if sawOut {
		t.Error("order dated one day before the boundary must be excluded")
	}
}

func TestReportStoreTopProductsEmptyWindow(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	// A boundary in the future matches nothing: the result is a valid
	// empty set, not an error.
	got, err := s.TopProducts(context.Background(), time.Now().AddDate(1, 0, 0), 5)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("rows: got %d, want 0", len(got))
	}
}

func TestReportStoreClientTotals(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	suffix := uuid.NewString()[:8]
	rootID := testCategory(t, db, "test-root-"+suffix, nil)
	clientName := "test-spend-" + suffix
	clientID := testClient(t, db, clientName)
	productID := testProduct(t, db, "test-product-"+suffix, 0, "1.00", rootID)

	// Two lines: 2×10 + 1×5 = 25.
	now := time.Now()
	orderID := insertOrderAt(t, db, clientID, productID, 2, "10.00", now)
	if _, err := db.Exec(
		`INSERT INTO order_items (order_id, nomenclature_id, quantity, price_at_purchase)
		 VALUES ($1, $2, $3, $4)`,
		orderID, productID, 1, "5.00",
	); err != nil {
		t.Fatalf("insert second item: %v", err)
	}

	got, err := s.ClientTotals(context.Background())
	if err != nil {
		t.Fatalf("ClientTotals: %v", err)
	}

	var mine *models.ClientTotal
	for i := range got {
		if got[i].ClientName == clientName {
			mine = &got[i]
		}
	}
	if mine == nil {
		t.Fatalf("client %q missing from totals", clientName)
	}
	if !mine.TotalSum.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("total_sum: got %s, want 25.00", mine.TotalSum)
	}
}

func TestReportStoreCategoryChildCounts(t *testing.T) {
	db := testDB(t)
	s := NewReportStore(db)

	suffix := uuid.NewString()[:8]
	parentName := "test-parent-" + suffix
	leafName := "test-childless-" + suffix
	parentID := testCategory(t, db, parentName, nil)
	testCategory(t, db, "test-child-1-"+suffix, &parentID)
	testCategory(t, db, "test-child-2-"+suffix, &parentID)
	leafID := testCategory(t, db, leafName, &parentID)

	got, err := s.CategoryChildCounts(context.Background())
	if err != nil {
		t.Fatalf("CategoryChildCounts: %v", err)
	}

	counts := make(map[int64]int)
	for _, cc := range got {
		counts[cc.CategoryID] = cc.ChildrenCount
	}

	if counts[parentID] != 3 {
		t.Errorf("parent children_count: got %d, want 3", counts[parentID])
	}

	// A childless category is reported with 0, not omitted.
	if n, ok := counts[leafID]; !ok {
		t.Errorf("childless category %q omitted from report", leafName)
	} else if n != 0 {
		t.Errorf("childless children_count: got %d, want 0", n)
	}
}
