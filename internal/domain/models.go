package domain

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PayCard         PaymentMethod = "CARD"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
)

type PaymentStatus string

const (
	StatusPending  PaymentStatus = "PENDING"
	StatusPaid     PaymentStatus = "PAID"
	StatusFailed   PaymentStatus = "FAILED"
	StatusRefunded PaymentStatus = "REFUNDED"
)

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PayCash, PayMobileMoney, PayCard, PayBankTransfer:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

type Product struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description,omitempty"`
	Category     string          `db:"category" json:"category,omitempty"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	StockQty     int             `db:"stock_qty" json:"stock_qty"`
	ReorderLevel int             `db:"reorder_level" json:"reorder_level"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
	UpdatedAt    string          `db:"updated_at" json:"updated_at,omitempty"`
}

// LowStock reports whether the product sits at or below its reorder threshold.
func (p Product) LowStock() bool { return p.StockQty <= p.ReorderLevel }

// WalkInCustomerID is the reserved default customer for anonymous counter sales.
const WalkInCustomerID = "walk-in"

type Customer struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Sale is immutable once written, except for payment-status transitions.
type Sale struct {
	ID            string          `db:"id" json:"id"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	Total         decimal.Decimal `db:"total" json:"total"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
}

// SaleItem captures the unit price at time of sale, independent of later price edits.
type SaleItem struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"sale_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int             `db:"qty" json:"qty"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Discount  decimal.Decimal `db:"discount" json:"discount"`
}

// Subtotal is qty*unit_price - discount for this line.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.Discount)
}

// StockMovement is an audit record; delta is signed (negative for sales and decreases).
type StockMovement struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	Delta     int    `db:"delta" json:"delta"`
	Reason    string `db:"reason" json:"reason"`
	Actor     string `db:"actor" json:"actor,omitempty"`
	SaleID    string `db:"sale_id" json:"sale_id,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type DashboardStats struct {
	TotalSales     int             `json:"total_sales"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCustomers int             `json:"total_customers"`
	LowStockCount  int             `json:"low_stock_count"`
}

// DailySales is one point of the dashboard revenue series.
type DailySales struct {
	Day     string          `db:"day" json:"day"`
	Count   int             `db:"cnt" json:"count"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}
