package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cowsalt/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// DB exposes the underlying handle for read-only callers.
func (r *SaleRepo) DB() *sqlx.DB { return r.db }

// SaleItemDetail is a sale line with its product name resolved.
type SaleItemDetail struct {
	ID          string          `db:"id" json:"id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Qty         int             `db:"qty" json:"qty"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	Subtotal    decimal.Decimal `db:"-" json:"subtotal"`
}

// Create inserts the sale header within the supplied transaction.
func (r *SaleRepo) Create(e sqlx.Ext, s domain.Sale) error {
	_, err := e.Exec(`
	  INSERT INTO sales(id, customer_id, total, payment_method, payment_status, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, s.ID, s.CustomerID, s.Total, string(s.PaymentMethod), string(s.PaymentStatus))
	return err
}

// InsertItem inserts a single line item within the supplied transaction.
func (r *SaleRepo) InsertItem(e sqlx.Ext, it domain.SaleItem) error {
	_, err := e.Exec(`
	  INSERT INTO sale_items(id, sale_id, product_id, qty, unit_price, discount)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Discount)
	return err
}

// SumItems recomputes a sale's total from its persisted lines. The fold runs
// in decimal arithmetic here; SQLite's SUM would evaluate fractional prices in
// floats and drift. Used for the post-write integrity check inside the
// transaction and by the periodic sweep.
func (r *SaleRepo) SumItems(q sqlx.Queryer, saleID string) (decimal.Decimal, error) {
	var lines []struct {
		Qty       int             `db:"qty"`
		UnitPrice decimal.Decimal `db:"unit_price"`
		Discount  decimal.Decimal `db:"discount"`
	}
	if err := sqlx.Select(q, &lines, `
	  SELECT qty, unit_price, discount
	  FROM sale_items
	  WHERE sale_id = ?
	`, saleID); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, ln := range lines {
		sum = sum.Add(ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Qty))).Sub(ln.Discount))
	}
	return sum, nil
}

const saleCols = `id, customer_id, total, payment_method, payment_status, created_at`

func (r *SaleRepo) Get(saleID string) (domain.Sale, []SaleItemDetail, error) {
	var s domain.Sale
	if err := r.db.Get(&s, `SELECT `+saleCols+` FROM sales WHERE id = ?`, saleID); err != nil {
		return domain.Sale{}, nil, err
	}
	items, err := r.Items(saleID)
	if err != nil {
		return domain.Sale{}, nil, err
	}
	return s, items, nil
}

func (r *SaleRepo) Items(saleID string) ([]SaleItemDetail, error) {
	items := []SaleItemDetail{}
	err := r.db.Select(&items, `
		SELECT si.id, si.product_id, p.name AS product_name, si.qty, si.unit_price, si.discount
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ?
		ORDER BY p.name
	`, saleID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))).Sub(it.Discount)
	}
	return items, nil
}

// ListByCustomer returns the customer's sale headers, most recent first.
func (r *SaleRepo) ListByCustomer(customerID string) ([]domain.Sale, error) {
	out := []domain.Sale{}
	err := r.db.Select(&out, `
		SELECT `+saleCols+`
		FROM sales
		WHERE customer_id = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, customerID)
	return out, err
}

func (r *SaleRepo) Status(e sqlx.Ext, saleID string) (string, error) {
	var st string
	err := sqlx.Get(e, &st, `SELECT payment_status FROM sales WHERE id = ?`, saleID)
	return st, err
}

func (r *SaleRepo) UpdateStatus(e sqlx.Ext, saleID, status string) error {
	_, err := e.Exec(`UPDATE sales SET payment_status = ? WHERE id = ?`, status, saleID)
	return err
}

// ---------- Aggregates (dashboard/reports) ----------

func (r *SaleRepo) CountAll(q sqlx.Queryer) (int, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM sales`)
	return n, err
}

// Revenue folds every stored total in decimal arithmetic, same reasoning as
// SumItems.
func (r *SaleRepo) Revenue(q sqlx.Queryer) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	if err := sqlx.Select(q, &totals, `SELECT total FROM sales`); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}

// Daily groups sale count and revenue by calendar day, newest day first.
// Grouping happens in SQL, the revenue fold in decimal.
func (r *SaleRepo) Daily(limit int) ([]domain.DailySales, error) {
	if limit <= 0 {
		limit = 30
	}
	var rows []struct {
		Day   string          `db:"day"`
		Total decimal.Decimal `db:"total"`
	}
	if err := r.db.Select(&rows, `
		SELECT date(created_at) AS day, total
		FROM sales
		ORDER BY day DESC
	`); err != nil {
		return nil, err
	}
	out := []domain.DailySales{}
	for _, row := range rows {
		if n := len(out); n > 0 && out[n-1].Day == row.Day {
			out[n-1].Count++
			out[n-1].Revenue = out[n-1].Revenue.Add(row.Total)
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, domain.DailySales{Day: row.Day, Count: 1, Revenue: row.Total})
	}
	return out, nil
}

// IDs lists all sale ids; the integrity sweep walks these.
func (r *SaleRepo) IDs() ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `SELECT id FROM sales ORDER BY datetime(created_at)`)
	return ids, err
}

func (r *SaleRepo) Total(saleID string) (decimal.Decimal, error) {
	var t decimal.Decimal
	err := r.db.Get(&t, `SELECT total FROM sales WHERE id = ?`, saleID)
	return t, err
}
