package services

import (
	applog "cowsalt/internal/log"
	"cowsalt/internal/repos"
)

// IntegritySweeper periodically recomputes every sale's total from its lines
// and reports divergence. Read-only: a mismatch here means a logic defect got
// past the in-transaction check, so it is surfaced loudly, never repaired
// silently.
type IntegritySweeper struct {
	Sales *repos.SaleRepo
}

func NewIntegritySweeper(sales *repos.SaleRepo) *IntegritySweeper {
	return &IntegritySweeper{Sales: sales}
}

// Run walks all sales once and returns the mismatches found.
func (s *IntegritySweeper) Run() ([]IntegrityError, error) {
	ids, err := s.Sales.IDs()
	if err != nil {
		return nil, err
	}
	var bad []IntegrityError
	for _, id := range ids {
		stored, err := s.Sales.Total(id)
		if err != nil {
			return bad, err
		}
		sum, err := s.Sales.SumItems(s.Sales.DB(), id)
		if err != nil {
			return bad, err
		}
		if !stored.Equal(sum) {
			e := IntegrityError{SaleID: id, Want: stored, Got: sum}
			bad = append(bad, e)
			applog.Warn("ledger.integrity.mismatch", &e, map[string]any{
				"sale_id": id, "stored": stored.String(), "recomputed": sum.String(),
			})
		}
	}
	return bad, nil
}
