package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowsalt/internal/services"
)

func TestAdjust_IncreaseAndDecrease(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p1", "Salt", "10", 6, 3)
	svc := newStock(db)

	p, err := svc.Adjust("p1", 5, services.AdjustIncrease, "restock delivery", "u-admin")
	require.NoError(t, err)
	assert.Equal(t, 11, p.StockQty)

	p, err = svc.Adjust("p1", 3, services.AdjustDecrease, "damage", "u-admin")
	require.NoError(t, err)
	assert.Equal(t, 8, p.StockQty)

	ms, err := svc.Movements("p1", 10)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, -3, ms[0].Delta)
	assert.Equal(t, "damage", ms[0].Reason)
	assert.Equal(t, 5, ms[1].Delta)
	assert.Equal(t, "restock delivery", ms[1].Reason)
}

func TestAdjust_DecreaseGuard(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p1", "Salt", "10", 6, 3)
	svc := newStock(db)

	_, err := svc.Adjust("p1", 100, services.AdjustDecrease, "damage", "u-admin")
	var ia *services.InvalidAdjustmentError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, 100, ia.Requested)
	assert.Equal(t, 6, ia.Available)
	assert.Equal(t, 6, stockOf(t, db, "p1"), "store unchanged after rejected decrease")

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM stock_movements`))
	assert.Zero(t, n, "no audit row for a rejected adjustment")
}

func TestAdjust_Validation(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p1", "Salt", "10", 6, 3)
	svc := newStock(db)

	cases := []struct {
		name      string
		qty       int
		direction string
		reason    string
	}{
		{"zero qty", 0, services.AdjustDecrease, "damage"},
		{"negative qty", -2, services.AdjustIncrease, "damage"},
		{"bad direction", 1, "sideways", "damage"},
		{"empty reason", 1, services.AdjustDecrease, ""},
		{"blank reason", 1, services.AdjustDecrease, "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Adjust("p1", tc.qty, tc.direction, tc.reason, "")
			var ve *services.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestAdjust_UnknownProduct(t *testing.T) {
	db := memdb(t)
	svc := newStock(db)

	_, err := svc.Adjust("ghost", 1, services.AdjustIncrease, "restock", "")
	var nf *services.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLowStock(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt 50kg", "50", 6, 3)
	seedProduct(t, db, "p2", "Salt 25kg", "25", 1, 3)
	seedProduct(t, db, "p3", "Salt 10kg", "10", 0, 2)
	stockSvc := newStock(db)
	ledger := newLedger(db)

	low, err := stockSvc.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 2, "p1 at 6 > 3 is not low")
	assert.Equal(t, "p3", low[0].ID, "ascending stock, most urgent first")
	assert.Equal(t, "p2", low[1].ID)

	// Two sales bring p1 from 6 to 2 (<= reorder 3): now flagged, exactly once.
	_, err = ledger.CreateSale("c1", []services.SaleLine{line("p1", 2, "50", "0")}, cash, paid, "")
	require.NoError(t, err)
	_, err = ledger.CreateSale("c1", []services.SaleLine{line("p1", 2, "50", "0")}, cash, paid, "")
	require.NoError(t, err)

	low, err = stockSvc.LowStock()
	require.NoError(t, err)
	seen := 0
	for _, p := range low {
		if p.ID == "p1" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}
