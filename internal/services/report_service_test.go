package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowsalt/internal/repos"
	"cowsalt/internal/services"
)

func newReports(db *sqlx.DB) *services.ReportService {
	return services.NewReportService(db,
		repos.NewSaleRepo(db),
		repos.NewStockRepo(db),
		repos.NewCustomerRepo(db))
}

func TestDashboard(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt 50kg", "50", 10, 3)
	seedProduct(t, db, "p2", "Salt 25kg", "25", 1, 3)
	ledger := newLedger(db)
	reports := newReports(db)

	_, err := ledger.CreateSale("c1", []services.SaleLine{line("p1", 4, "50", "0")}, cash, paid, "")
	require.NoError(t, err)
	_, err = ledger.CreateSale("c1", []services.SaleLine{line("p1", 1, "50", "10")}, cash, paid, "")
	require.NoError(t, err)

	stats, err := reports.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSales)
	assert.True(t, stats.TotalRevenue.Equal(dec(t, "240")), "revenue = %s", stats.TotalRevenue)
	// c1 plus the seeded walk-in customer
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 1, stats.LowStockCount)
}

func TestDashboard_IdempotentWithoutWrites(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt", "50", 10, 3)
	ledger := newLedger(db)
	reports := newReports(db)

	_, err := ledger.CreateSale("c1", []services.SaleLine{line("p1", 2, "50", "0")}, cash, paid, "")
	require.NoError(t, err)

	a, err := reports.Dashboard()
	require.NoError(t, err)
	b, err := reports.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, a.TotalSales, b.TotalSales)
	assert.True(t, a.TotalRevenue.Equal(b.TotalRevenue))
	assert.Equal(t, a.TotalCustomers, b.TotalCustomers)
	assert.Equal(t, a.LowStockCount, b.LowStockCount)
}

func TestDailySales_GroupsByDay(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt", "50", 100, 0)
	ledger := newLedger(db)
	reports := newReports(db)

	s1, err := ledger.CreateSale("c1", []services.SaleLine{line("p1", 1, "50", "0")}, cash, paid, "")
	require.NoError(t, err)
	_, err = ledger.CreateSale("c1", []services.SaleLine{line("p1", 2, "50", "0")}, cash, paid, "")
	require.NoError(t, err)
	// Move one sale to another day
	_, err = db.Exec(`UPDATE sales SET created_at = '2024-03-01 09:30:00' WHERE id = ?`, s1.ID)
	require.NoError(t, err)

	daily, err := reports.DailySales(30)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	// Newest day first: today's single remaining sale, then the moved one.
	assert.Equal(t, 1, daily[0].Count)
	assert.True(t, daily[0].Revenue.Equal(dec(t, "100")))
	assert.Equal(t, "2024-03-01", daily[1].Day)
	assert.True(t, daily[1].Revenue.Equal(dec(t, "50")))
}

func TestIntegritySweep(t *testing.T) {
	db := memdb(t)
	seedCustomer(t, db, "c1", "Wanjiku")
	seedProduct(t, db, "p1", "Salt", "50", 100, 0)
	seedProduct(t, db, "p2", "Salt sachet", "0.10", 100, 0)
	ledger := newLedger(db)
	sweeper := services.NewIntegritySweeper(repos.NewSaleRepo(db))

	sale, err := ledger.CreateSale("c1", []services.SaleLine{line("p1", 2, "50", "0")}, cash, paid, "")
	require.NoError(t, err)
	// Fractional prices must not show up as false mismatches.
	_, err = ledger.CreateSale("c1", []services.SaleLine{line("p2", 3, "0.10", "0")}, cash, paid, "")
	require.NoError(t, err)

	bad, err := sweeper.Run()
	require.NoError(t, err)
	assert.Empty(t, bad)

	// Corrupt the stored total behind the ledger's back.
	_, err = db.Exec(`UPDATE sales SET total = 999 WHERE id = ?`, sale.ID)
	require.NoError(t, err)

	bad, err = sweeper.Run()
	require.NoError(t, err)
	require.Len(t, bad, 1)
	assert.Equal(t, sale.ID, bad[0].SaleID)
	assert.True(t, bad[0].Want.Equal(dec(t, "999")))
	assert.True(t, bad[0].Got.Equal(dec(t, "100")))
}
