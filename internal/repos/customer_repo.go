package repos

import (
	"github.com/jmoiron/sqlx"

	"cowsalt/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Create(c domain.Customer) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id, name, email, phone, address, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, c.ID, c.Name, c.Email, c.Phone, c.Address)
	return err
}

const customerCols = `
  id, name, COALESCE(email,'') AS email, COALESCE(phone,'') AS phone,
  COALESCE(address,'') AS address, created_at`

func (r *CustomerRepo) Get(id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	return c, err
}

func (r *CustomerRepo) List(limit, offset int) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `
	  SELECT `+customerCols+`
	  FROM customers
	  ORDER BY name
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

// Exists checks the customer inside the supplied statement executor
// (plain db or open transaction).
func (r *CustomerRepo) Exists(e sqlx.Ext, id string) (bool, error) {
	var n int
	if err := sqlx.Get(e, &n, `SELECT COUNT(*) FROM customers WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}
