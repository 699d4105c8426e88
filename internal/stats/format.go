package stats

import (
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// FormatStats serializes the summary and branch metrics. Branches are keyed by
// collateral symbol in input order, so a repeated symbol keeps the last branch.
func FormatStats(summary model.ProtocolSummary, branches []model.BranchMetrics) model.StatsRecord {
	record := model.StatsRecord{
		TotalBoldSupply:  summary.TotalBoldSupply.String(),
		TotalDebtPending: summary.TotalDebtPending.String(),
		TotalCollValue:   summary.TotalCollValue.String(),
		TotalSPDeposits:  summary.TotalSPDeposits.String(),
		TotalValueLocked: summary.TotalValueLocked.String(),
		MaxSPAPY:         summary.MaxSPAPY.String(),
		Branch:           make(map[string]model.BranchRecord, len(branches)),
	}

	for _, b := range branches {
		record.Branch[b.CollSymbol] = formatBranch(b)
	}
	return record
}

func formatBranch(b model.BranchMetrics) model.BranchRecord {
	return model.BranchRecord{
		CollActive:                 b.CollActive.String(),
		CollDefault:                b.CollDefault.String(),
		CollPrice:                  b.CollPrice.String(),
		SPDeposits:                 b.SPDeposits.String(),
		InterestAccrual1y:          b.InterestAccrual1y.String(),
		InterestPending:            b.InterestPending.String(),
		BatchManagementFeesPending: b.BatchManagementFeesPending.String(),
		DebtPending:                b.DebtPending.String(),
		CollValue:                  b.CollValue.String(),
		SPAPY:                      b.SPAPY.String(),
		ValueLocked:                b.ValueLocked.String(),
	}
}
