package services

import (
	"github.com/jmoiron/sqlx"

	"cowsalt/internal/domain"
	"cowsalt/internal/repos"
)

type ReportService struct {
	DB        *sqlx.DB
	Sales     *repos.SaleRepo
	Stock     *repos.StockRepo
	Customers *repos.CustomerRepo
}

func NewReportService(db *sqlx.DB, sales *repos.SaleRepo, stock *repos.StockRepo, customers *repos.CustomerRepo) *ReportService {
	return &ReportService{DB: db, Sales: sales, Stock: stock, Customers: customers}
}

// Dashboard reads all four figures inside one transaction so a sale mid-flight
// can't show up in one counter and not another.
func (s *ReportService) Dashboard() (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		var err error
		if out.TotalSales, err = s.Sales.CountAll(tx); err != nil {
			return err
		}
		if out.TotalRevenue, err = s.Sales.Revenue(tx); err != nil {
			return err
		}
		if err = sqlx.Get(tx, &out.TotalCustomers, `SELECT COUNT(*) FROM customers`); err != nil {
			return err
		}
		out.LowStockCount, err = s.Stock.LowStockCount(tx)
		return err
	})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return out, nil
}

// DailySales returns the sale count and revenue per calendar day, newest first.
func (s *ReportService) DailySales(days int) ([]domain.DailySales, error) {
	return s.Sales.Daily(days)
}
