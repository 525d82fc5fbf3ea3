package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"cowsalt/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, category, unit_price, stock_qty, reorder_level, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Description, p.Category, p.UnitPrice, p.StockQty, p.ReorderLevel)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, description = ?, category = ?, unit_price = ?, reorder_level = ?, updated_at = ?
	  WHERE id = ?
	`, p.Name, p.Description, p.Category, p.UnitPrice, p.ReorderLevel,
		time.Now().UTC().Format(time.RFC3339), p.ID)
	return err
}

const productCols = `
  id, name, COALESCE(description,'') AS description, COALESCE(category,'') AS category,
  unit_price, stock_qty, reorder_level, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return getProduct(r.db, id)
}

// GetTx reads a product through the supplied transaction.
func (r *ProductRepo) GetTx(e sqlx.Ext, id string) (domain.Product, error) {
	return getProduct(e, id)
}

func getProduct(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY name
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) Search(q, category string, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	sql := `
	  SELECT ` + productCols + `
	  FROM products
	  WHERE ` + where + `
	  ORDER BY name
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

// Referenced reports whether any sale item points at the product.
// Referenced products must never be deleted.
func (r *ProductRepo) Referenced(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM sale_items WHERE product_id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// DecrementStock subtracts qty if enough stock exists; returns false when the
// guard rejects (row missing or stock < qty). The guard plus the surrounding
// transaction is what keeps stock from going negative under concurrent sales.
func (r *ProductRepo) DecrementStock(e sqlx.Ext, id string, qty int) (bool, error) {
	res, err := e.Exec(`
		UPDATE products
		SET stock_qty = stock_qty - ?, updated_at = ?
		WHERE id = ? AND stock_qty >= ?
	`, qty, time.Now().UTC().Format(time.RFC3339), id, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncreaseStock adds qty unconditionally; returns false if the product is missing.
func (r *ProductRepo) IncreaseStock(e sqlx.Ext, id string, qty int) (bool, error) {
	res, err := e.Exec(`
		UPDATE products
		SET stock_qty = stock_qty + ?, updated_at = ?
		WHERE id = ?
	`, qty, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
