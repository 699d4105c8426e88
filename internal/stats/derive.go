package stats

import (
	"github.com/shopspring/decimal"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// oneWei rescales aggWeightedDebtSum, which carries 18 extra decimals from the
// annual interest rate factor.
var oneWei = decimal.New(1, -tokenDecimals)

// DeriveBranchMetrics computes the derived metrics of one branch. split is
// the fraction of interest routed to the stability pool.
//
// The stability pool APY is estimated in float64; it is undefined when the
// pool holds no deposits. Stability pool deposits count at face value in
// ValueLocked.
func DeriveBranchMetrics(raw model.RawBranchFields, split decimal.Decimal) model.BranchMetrics {
	interestAccrual1y := raw.AggWeightedDebtSum.Mul(oneWei)
	batchFeesPending := raw.AggBatchManagementFees.Add(raw.PendingAggBatchManagementFee)
	collValue := raw.CollActive.Add(raw.CollDefault).Mul(raw.CollPrice)

	return model.BranchMetrics{
		RawBranchFields:            raw,
		InterestAccrual1y:          interestAccrual1y,
		BatchManagementFeesPending: batchFeesPending,
		DebtPending:                raw.InterestPending.Add(batchFeesPending),
		CollValue:                  collValue,
		SPAPY:                      spAPY(split, interestAccrual1y, raw.SPDeposits),
		ValueLocked:                collValue.Add(raw.SPDeposits),
	}
}

func spAPY(split, interestAccrual1y, spDeposits decimal.Decimal) model.Rate {
	if spDeposits.IsZero() {
		return model.UndefinedRate()
	}
	return model.NewRate(split.InexactFloat64() * interestAccrual1y.InexactFloat64() / spDeposits.InexactFloat64())
}
