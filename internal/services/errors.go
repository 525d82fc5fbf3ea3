package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError is malformed or missing input; the caller corrects and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is a missing referenced entity (customer, product, sale).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InsufficientStockError rejects a sale line the stock cannot cover.
// Carries requested vs available so the caller can inform the user.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (need %d, have %d)", e.ProductID, e.Requested, e.Available)
}

// InvalidAdjustmentError rejects a stock decrease that would go negative.
type InvalidAdjustmentError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("adjustment would drive %s negative (decrease %d, have %d)", e.ProductID, e.Requested, e.Available)
}

// IntegrityError is a failed post-write invariant check: a logic defect,
// always surfaced, rolled back when still inside the transaction.
type IntegrityError struct {
	SaleID string
	Want   decimal.Decimal
	Got    decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("sale %s total mismatch: stored %s, recomputed %s", e.SaleID, e.Want, e.Got)
}
