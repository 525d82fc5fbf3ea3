package services_test

import (
	"errors"
	"sync"
	"testing"

	"cowsalt/internal/services"
)

// Concurrent cashiers against one product must never oversell: with stock S,
// the quantities that succeed sum to at most S and every loser gets the typed
// stock rejection.
func TestConcurrentSales_NoOverselling(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt 50kg", "50", 10, 0)
	svc := newLedger(db)

	const callers = 20
	results := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateSale("c1", []services.SaleLine{line("p1", 1, "50", "0")}, cash, paid, "")
			results[i] = err
		}(i)
	}
	wg.Wait()

	sold, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			sold++
		default:
			var ise *services.InsufficientStockError
			if !errors.As(err, &ise) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			rejected++
		}
	}
	if sold != 10 || rejected != 10 {
		t.Fatalf("want 10 sold / 10 rejected, got %d / %d", sold, rejected)
	}
	if got := stockOf(t, db, "p1"); got != 0 {
		t.Fatalf("stock must be exactly 0, got %d", got)
	}
}
