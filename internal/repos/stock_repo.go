package repos

import (
	"github.com/jmoiron/sqlx"

	"cowsalt/internal/domain"
)

type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

// InsertMovement writes one audit row within the supplied transaction.
func (r *StockRepo) InsertMovement(e sqlx.Ext, m domain.StockMovement) error {
	_, err := e.Exec(`
	  INSERT INTO stock_movements(id, product_id, delta, reason, actor, sale_id, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.ProductID, m.Delta, m.Reason, m.Actor, m.SaleID)
	return err
}

func (r *StockRepo) MovementsByProduct(productID string, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []domain.StockMovement{}
	err := r.db.Select(&out, `
		SELECT id, product_id, delta, reason, COALESCE(actor,'') AS actor,
		       COALESCE(sale_id,'') AS sale_id, created_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, productID, limit)
	return out, err
}

// LowStock lists products at or below their reorder level, most urgent first.
func (r *StockRepo) LowStock() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
		SELECT `+productCols+`
		FROM products
		WHERE stock_qty <= reorder_level
		ORDER BY stock_qty ASC, name
	`)
	return out, err
}

func (r *StockRepo) LowStockCount(q sqlx.Queryer) (int, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM products WHERE stock_qty <= reorder_level`)
	return n, err
}
