package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cowsalt/internal/domain"
	"cowsalt/internal/repos"
)

const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

type StockService struct {
	DB       *sqlx.DB
	Products *repos.ProductRepo
	Stock    *repos.StockRepo

	RetryMax int
	Backoff  time.Duration
}

func NewStockService(db *sqlx.DB, products *repos.ProductRepo, stock *repos.StockRepo) *StockService {
	return &StockService{
		DB:       db,
		Products: products,
		Stock:    stock,
		RetryMax: 3,
		Backoff:  50 * time.Millisecond,
	}
}

// Adjust applies a manual stock correction as a single atomic read-modify-write.
// A decrease that would go negative is rejected and leaves the store unchanged.
// The reason is recorded for audit only.
func (s *StockService) Adjust(productID string, qty int, direction, reason, actor string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, &ValidationError{Field: "product_id", Reason: "missing product id"}
	}
	if qty < 1 {
		return domain.Product{}, &ValidationError{Field: "qty", Reason: "quantity must be a positive integer"}
	}
	direction = strings.ToLower(strings.TrimSpace(direction))
	if direction != AdjustIncrease && direction != AdjustDecrease {
		return domain.Product{}, &ValidationError{Field: "direction", Reason: "must be increase or decrease"}
	}
	if strings.TrimSpace(reason) == "" {
		return domain.Product{}, &ValidationError{Field: "reason", Reason: "reason must not be empty"}
	}

	var out domain.Product
	err := repos.WithRetry(s.RetryMax, s.Backoff, func() error {
		return repos.InTx(s.DB, func(tx *sqlx.Tx) error {
			var ok bool
			var err error
			delta := qty
			if direction == AdjustDecrease {
				delta = -qty
				ok, err = s.Products.DecrementStock(tx, productID, qty)
			} else {
				ok, err = s.Products.IncreaseStock(tx, productID, qty)
			}
			if err != nil {
				return err
			}
			if !ok {
				p, gerr := s.Products.GetTx(tx, productID)
				if errors.Is(gerr, sql.ErrNoRows) {
					return &NotFoundError{Kind: "product", ID: productID}
				}
				if gerr != nil {
					return gerr
				}
				return &InvalidAdjustmentError{ProductID: productID, Requested: qty, Available: p.StockQty}
			}

			if err := s.Stock.InsertMovement(tx, domain.StockMovement{
				ID:        uuid.NewString(),
				ProductID: productID,
				Delta:     delta,
				Reason:    reason,
				Actor:     actor,
			}); err != nil {
				return err
			}

			out, err = s.Products.GetTx(tx, productID)
			return err
		})
	})
	if err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

// LowStock lists products at or below their reorder level, ascending stock.
func (s *StockService) LowStock() ([]domain.Product, error) {
	return s.Stock.LowStock()
}

func (s *StockService) Movements(productID string, limit int) ([]domain.StockMovement, error) {
	if _, err := s.Products.Get(productID); errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "product", ID: productID}
	} else if err != nil {
		return nil, err
	}
	return s.Stock.MovementsByProduct(productID, limit)
}
