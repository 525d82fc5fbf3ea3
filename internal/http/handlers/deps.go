package handlers

import (
	"cowsalt/internal/config"
	"cowsalt/internal/repos"
	"cowsalt/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	POSHandler      *POSHandler
	StockHandler    *StockHandler
	ProductHandler  *ProductHandler
	CustomerHandler *CustomerHandler
	ReportHandler   *ReportHandler
	SearchHandler   *SearchHandler
	AdminHandler    *AdminHandler

	Ledger  *services.LedgerService
	Sweeper *services.IntegritySweeper
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	stockRepo := repos.NewStockRepo(db)
	userRepo := repos.NewUserRepo(db)

	ledgerSvc := services.NewLedgerService(db, custRepo, prodRepo, saleRepo, stockRepo)
	ledgerSvc.RetryMax = cfg.RetryMax
	ledgerSvc.Backoff = cfg.RetryBackoff
	stockSvc := services.NewStockService(db, prodRepo, stockRepo)
	stockSvc.RetryMax = cfg.RetryMax
	stockSvc.Backoff = cfg.RetryBackoff
	catalogSvc := services.NewCatalogService(prodRepo, custRepo)
	reportSvc := services.NewReportService(db, saleRepo, stockRepo, custRepo)
	sweeper := services.NewIntegritySweeper(saleRepo)

	return &Deps{
		POSHandler:      &POSHandler{Ledger: ledgerSvc},
		StockHandler:    &StockHandler{Stock: stockSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CustomerHandler: &CustomerHandler{Catalog: catalogSvc, Ledger: ledgerSvc},
		ReportHandler:   &ReportHandler{Reports: reportSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		AdminHandler:    &AdminHandler{Users: userRepo, Sweeper: sweeper},
		Ledger:          ledgerSvc,
		Sweeper:         sweeper,
	}
}
