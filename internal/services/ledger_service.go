package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cowsalt/internal/domain"
	applog "cowsalt/internal/log"
	"cowsalt/internal/repos"
)

// SaleLine is one requested line of a sale: product, quantity, the price being
// charged now, and an optional flat discount off that line's subtotal.
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// AccountingNotifier receives committed sales. Failures are warnings only and
// never roll back the sale.
type AccountingNotifier interface {
	SaleRecorded(sale domain.Sale, items []domain.SaleItem) error
}

type LedgerService struct {
	DB        *sqlx.DB
	Customers *repos.CustomerRepo
	Products  *repos.ProductRepo
	Sales     *repos.SaleRepo
	Stock     *repos.StockRepo
	Notifier  AccountingNotifier // optional

	RetryMax int
	Backoff  time.Duration
}

func NewLedgerService(db *sqlx.DB, customers *repos.CustomerRepo, products *repos.ProductRepo,
	sales *repos.SaleRepo, stock *repos.StockRepo) *LedgerService {
	return &LedgerService{
		DB:        db,
		Customers: customers,
		Products:  products,
		Sales:     sales,
		Stock:     stock,
		RetryMax:  3,
		Backoff:   50 * time.Millisecond,
	}
}

// CustomerSale is a sale header with its lines resolved for history views.
type CustomerSale struct {
	Sale  domain.Sale           `json:"sale"`
	Items []repos.SaleItemDetail `json:"items"`
}

// CreateSale validates and persists a sale: header, line items, and the matching
// stock decrements commit as one unit of work or not at all.
func (s *LedgerService) CreateSale(customerID string, lines []SaleLine, method, status, actor string) (domain.Sale, error) {
	if customerID == "" {
		customerID = domain.WalkInCustomerID
	}
	if len(lines) == 0 {
		return domain.Sale{}, &ValidationError{Field: "items", Reason: "at least one line item required"}
	}
	if !domain.ValidPaymentMethod(method) {
		return domain.Sale{}, &ValidationError{Field: "payment_method", Reason: "unknown method " + method}
	}
	if !domain.ValidPaymentStatus(status) {
		return domain.Sale{}, &ValidationError{Field: "payment_status", Reason: "unknown status " + status}
	}

	total := decimal.Zero
	for _, ln := range lines {
		if ln.ProductID == "" {
			return domain.Sale{}, &ValidationError{Field: "items.product_id", Reason: "missing product id"}
		}
		if ln.Quantity < 1 {
			return domain.Sale{}, &ValidationError{Field: "items.qty", Reason: "quantity must be a positive integer"}
		}
		if ln.UnitPrice.IsNegative() {
			return domain.Sale{}, &ValidationError{Field: "items.unit_price", Reason: "unit price must be >= 0"}
		}
		if ln.Discount.IsNegative() {
			return domain.Sale{}, &ValidationError{Field: "items.discount", Reason: "discount must be >= 0"}
		}
		sub := ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		if ln.Discount.GreaterThan(sub) {
			return domain.Sale{}, &ValidationError{Field: "items.discount", Reason: "discount exceeds line subtotal"}
		}
		total = total.Add(sub.Sub(ln.Discount))
	}

	sale := domain.Sale{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Total:         total,
		PaymentMethod: domain.PaymentMethod(method),
		PaymentStatus: domain.PaymentStatus(status),
	}
	items := make([]domain.SaleItem, 0, len(lines))

	err := repos.WithRetry(s.RetryMax, s.Backoff, func() error {
		items = items[:0]
		return repos.InTx(s.DB, func(tx *sqlx.Tx) error {
			ok, err := s.Customers.Exists(tx, customerID)
			if err != nil {
				return err
			}
			if !ok {
				return &NotFoundError{Kind: "customer", ID: customerID}
			}

			if err := s.Sales.Create(tx, sale); err != nil {
				return err
			}

			for _, ln := range lines {
				ok, err := s.Products.DecrementStock(tx, ln.ProductID, ln.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					// Guard rejected: distinguish missing product from short stock.
					p, gerr := s.Products.GetTx(tx, ln.ProductID)
					if errors.Is(gerr, sql.ErrNoRows) {
						return &NotFoundError{Kind: "product", ID: ln.ProductID}
					}
					if gerr != nil {
						return gerr
					}
					return &InsufficientStockError{ProductID: ln.ProductID, Requested: ln.Quantity, Available: p.StockQty}
				}

				it := domain.SaleItem{
					ID:        uuid.NewString(),
					SaleID:    sale.ID,
					ProductID: ln.ProductID,
					Quantity:  ln.Quantity,
					UnitPrice: ln.UnitPrice,
					Discount:  ln.Discount,
				}
				if err := s.Sales.InsertItem(tx, it); err != nil {
					return err
				}
				items = append(items, it)

				if err := s.Stock.InsertMovement(tx, domain.StockMovement{
					ID:        uuid.NewString(),
					ProductID: ln.ProductID,
					Delta:     -ln.Quantity,
					Reason:    "sale",
					Actor:     actor,
					SaleID:    sale.ID,
				}); err != nil {
					return err
				}
			}

			// Post-write invariant: persisted lines must recompute to the stored total.
			sum, err := s.Sales.SumItems(tx, sale.ID)
			if err != nil {
				return err
			}
			if !sum.Equal(total) {
				return &IntegrityError{SaleID: sale.ID, Want: total, Got: sum}
			}
			return nil
		})
	})
	if err != nil {
		return domain.Sale{}, err
	}

	// Committed. Collaborator failures downstream are warnings, never rollbacks.
	if s.Notifier != nil {
		go func(sale domain.Sale, items []domain.SaleItem) {
			if err := s.Notifier.SaleRecorded(sale, items); err != nil {
				applog.Warn("accounting.notify.fail", err, map[string]any{"sale_id": sale.ID})
			}
		}(sale, items)
	}

	created, _, err := s.Sales.Get(sale.ID)
	if err != nil {
		return sale, nil // header already known; created_at enrichment is best-effort
	}
	return created, nil
}

func (s *LedgerService) GetSale(saleID string) (domain.Sale, []repos.SaleItemDetail, error) {
	sale, items, err := s.Sales.Get(saleID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, nil, &NotFoundError{Kind: "sale", ID: saleID}
	}
	if err != nil {
		return domain.Sale{}, nil, err
	}
	return sale, items, nil
}

// GetCustomerSales returns the customer's history, most recent first, each sale
// with its lines and product names resolved. Empty history is an empty list.
func (s *LedgerService) GetCustomerSales(customerID string) ([]CustomerSale, error) {
	ok, err := s.Customers.Exists(s.DB, customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Kind: "customer", ID: customerID}
	}

	sales, err := s.Sales.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerSale, 0, len(sales))
	for _, sale := range sales {
		items, err := s.Sales.Items(sale.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CustomerSale{Sale: sale, Items: items})
	}
	return out, nil
}

// Allowed payment-status transitions, driven by external payment confirmation.
var statusTransitions = map[domain.PaymentStatus][]domain.PaymentStatus{
	domain.StatusPending: {domain.StatusPaid, domain.StatusFailed},
	domain.StatusPaid:    {domain.StatusRefunded},
}

// SetPaymentStatus applies one confirmed transition; everything else about a
// persisted sale stays immutable.
func (s *LedgerService) SetPaymentStatus(saleID, status string) (domain.Sale, error) {
	if !domain.ValidPaymentStatus(status) {
		return domain.Sale{}, &ValidationError{Field: "payment_status", Reason: "unknown status " + status}
	}
	next := domain.PaymentStatus(status)

	err := repos.WithRetry(s.RetryMax, s.Backoff, func() error {
		return repos.InTx(s.DB, func(tx *sqlx.Tx) error {
			cur, err := s.Sales.Status(tx, saleID)
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Kind: "sale", ID: saleID}
			}
			if err != nil {
				return err
			}
			allowed := false
			for _, t := range statusTransitions[domain.PaymentStatus(cur)] {
				if t == next {
					allowed = true
					break
				}
			}
			if !allowed {
				return &ValidationError{Field: "payment_status", Reason: "transition " + cur + " -> " + status + " not allowed"}
			}
			return s.Sales.UpdateStatus(tx, saleID, status)
		})
	})
	if err != nil {
		return domain.Sale{}, err
	}
	sale, _, err := s.Sales.Get(saleID)
	return sale, err
}
