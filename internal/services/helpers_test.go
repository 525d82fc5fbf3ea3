package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"cowsalt/internal/domain"
	"cowsalt/internal/repos"
	"cowsalt/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, id, name, price string, stock, reorder int) {
	t.Helper()
	if _, err := db.Exec(`
		INSERT INTO products(id, name, unit_price, stock_qty, reorder_level)
		VALUES(?, ?, ?, ?, ?)
	`, id, name, price, stock, reorder); err != nil {
		t.Fatal(err)
	}
}

func seedCustomer(t *testing.T, db *sqlx.DB, id, name string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO customers(id, name) VALUES(?, ?)`, id, name); err != nil {
		t.Fatal(err)
	}
}

func newLedger(db *sqlx.DB) *services.LedgerService {
	return services.NewLedgerService(db,
		repos.NewCustomerRepo(db),
		repos.NewProductRepo(db),
		repos.NewSaleRepo(db),
		repos.NewStockRepo(db))
}

func newStock(db *sqlx.DB) *services.StockService {
	return services.NewStockService(db, repos.NewProductRepo(db), repos.NewStockRepo(db))
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock_qty FROM products WHERE id = ?`, productID); err != nil {
		t.Fatal(err)
	}
	return n
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func line(product string, qty int, price, discount string) services.SaleLine {
	p, _ := decimal.NewFromString(price)
	d, _ := decimal.NewFromString(discount)
	return services.SaleLine{ProductID: product, Quantity: qty, UnitPrice: p, Discount: d}
}

var (
	cash = string(domain.PayCash)
	paid = string(domain.StatusPaid)
)
