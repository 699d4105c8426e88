package model

import "github.com/shopspring/decimal"

// RawBranchFields holds the values read from one collateral branch at a single
// snapshot. All amounts are 18-decimal token units.
type RawBranchFields struct {
	CollSymbol                   string
	CollActive                   decimal.Decimal
	CollDefault                  decimal.Decimal
	CollPrice                    decimal.Decimal
	SPDeposits                   decimal.Decimal
	AggWeightedDebtSum           decimal.Decimal
	InterestPending              decimal.Decimal
	AggBatchManagementFees       decimal.Decimal
	PendingAggBatchManagementFee decimal.Decimal
}

// BranchMetrics extends the raw branch fields with derived values.
type BranchMetrics struct {
	RawBranchFields

	InterestAccrual1y          decimal.Decimal
	BatchManagementFeesPending decimal.Decimal
	DebtPending                decimal.Decimal
	CollValue                  decimal.Decimal
	SPAPY                      Rate
	ValueLocked                decimal.Decimal
}

// ProtocolSummary is the protocol-wide reduction of all branch metrics.
type ProtocolSummary struct {
	TotalBoldSupply  decimal.Decimal
	TotalDebtPending decimal.Decimal
	TotalCollValue   decimal.Decimal
	TotalSPDeposits  decimal.Decimal
	TotalValueLocked decimal.Decimal
	MaxSPAPY         Rate
}
