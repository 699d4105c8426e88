package stats

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// ErrNoBranches is returned when reducing an empty branch set; it means the
// deployment descriptor is misconfigured.
var ErrNoBranches = errors.New("no branches to reduce")

// ReduceProtocol folds branch metrics into protocol totals. totalSupply is
// passed through as is.
func ReduceProtocol(totalSupply decimal.Decimal, branches []model.BranchMetrics) (model.ProtocolSummary, error) {
	if len(branches) == 0 {
		return model.ProtocolSummary{}, ErrNoBranches
	}

	summary := model.ProtocolSummary{
		TotalBoldSupply:  totalSupply,
		TotalDebtPending: decimal.Zero,
		TotalCollValue:   decimal.Zero,
		TotalSPDeposits:  decimal.Zero,
		TotalValueLocked: decimal.Zero,
		MaxSPAPY:         model.UndefinedRate(),
	}

	for _, b := range branches {
		summary.TotalDebtPending = summary.TotalDebtPending.Add(b.DebtPending)
		summary.TotalCollValue = summary.TotalCollValue.Add(b.CollValue)
		summary.TotalSPDeposits = summary.TotalSPDeposits.Add(b.SPDeposits)
		summary.TotalValueLocked = summary.TotalValueLocked.Add(b.ValueLocked)

		if !b.SPAPY.Valid {
			continue
		}
		if !summary.MaxSPAPY.Valid || b.SPAPY.Value > summary.MaxSPAPY.Value {
			summary.MaxSPAPY = b.SPAPY
		}
	}

	return summary, nil
}
