package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cowsalt/internal/domain"
	"cowsalt/internal/repos"
)

// CatalogService manages products and customers. Stock mutations live in
// StockService and LedgerService; this layer only creates and edits records.
type CatalogService struct {
	Prods *repos.ProductRepo
	Custs *repos.CustomerRepo
}

func NewCatalogService(prods *repos.ProductRepo, custs *repos.CustomerRepo) *CatalogService {
	return &CatalogService{Prods: prods, Custs: custs}
}

type ProductInput struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	StockQty     int             `json:"stock_qty"`
	ReorderLevel int             `json:"reorder_level"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	if in.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unit_price", Reason: "unit price must be >= 0"}
	}
	if in.StockQty < 0 {
		return &ValidationError{Field: "stock_qty", Reason: "stock must be >= 0"}
	}
	if in.ReorderLevel < 0 {
		return &ValidationError{Field: "reorder_level", Reason: "reorder level must be >= 0"}
	}
	return nil
}

func (s *CatalogService) CreateProduct(in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		UnitPrice:    in.UnitPrice,
		StockQty:     in.StockQty,
		ReorderLevel: in.ReorderLevel,
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// UpdateProduct edits descriptive fields and the reorder level. Stock is not
// editable here; that path is the audited adjustment.
func (s *CatalogService) UpdateProduct(id string, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, &NotFoundError{Kind: "product", ID: id}
	}
	if err != nil {
		return domain.Product{}, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.UnitPrice = in.UnitPrice
	p.ReorderLevel = in.ReorderLevel
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(id)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, &NotFoundError{Kind: "product", ID: id}
	}
	return p, err
}

func (s *CatalogService) ListProducts(page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.Prods.List(pageSize, (page-1)*pageSize)
}

func (s *CatalogService) SearchProducts(q, category string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.Prods.Search(q, category, pageSize, (page-1)*pageSize)
}

// DeleteProduct refuses while any sale item references the product, keeping
// historical sales resolvable.
func (s *CatalogService) DeleteProduct(id string) error {
	if _, err := s.Prods.Get(id); errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Kind: "product", ID: id}
	} else if err != nil {
		return err
	}
	ref, err := s.Prods.Referenced(id)
	if err != nil {
		return err
	}
	if ref {
		return &ValidationError{Field: "id", Reason: "product is referenced by recorded sales"}
	}
	return s.Prods.Delete(id)
}

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *CatalogService) CreateCustomer(in CustomerInput) (domain.Customer, error) {
	if in.Name == "" {
		return domain.Customer{}, &ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	c := domain.Customer{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.Custs.Create(c); err != nil {
		return domain.Customer{}, err
	}
	return s.Custs.Get(c.ID)
}

func (s *CatalogService) GetCustomer(id string) (domain.Customer, error) {
	c, err := s.Custs.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, &NotFoundError{Kind: "customer", ID: id}
	}
	return c, err
}

func (s *CatalogService) ListCustomers(page, pageSize int) ([]domain.Customer, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.Custs.List(pageSize, (page-1)*pageSize)
}
