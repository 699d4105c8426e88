package model

// StatsRecord is the serialized protocol summary. Numbers are decimal strings
// so they survive transport without precision loss.
type StatsRecord struct {
	TotalBoldSupply  string                  `json:"total_bold_supply"`
	TotalDebtPending string                  `json:"total_debt_pending"`
	TotalCollValue   string                  `json:"total_coll_value"`
	TotalSPDeposits  string                  `json:"total_sp_deposits"`
	TotalValueLocked string                  `json:"total_value_locked"`
	MaxSPAPY         string                  `json:"max_sp_apy"`
	Branch           map[string]BranchRecord `json:"branch"`
}

// BranchRecord is the serialized form of one branch's metrics.
type BranchRecord struct {
	CollActive                 string `json:"coll_active"`
	CollDefault                string `json:"coll_default"`
	CollPrice                  string `json:"coll_price"`
	SPDeposits                 string `json:"sp_deposits"`
	InterestAccrual1y          string `json:"interest_accrual_1y"`
	InterestPending            string `json:"interest_pending"`
	BatchManagementFeesPending string `json:"batch_management_fees_pending"`
	DebtPending                string `json:"debt_pending"`
	CollValue                  string `json:"coll_value"`
	SPAPY                      string `json:"sp_apy"`
	ValueLocked                string `json:"value_locked"`
}

// Snapshot is a stats record pinned to the block it was read at.
type Snapshot struct {
	BlockNumber    uint64      `json:"block_number"`
	BlockTimestamp uint64      `json:"block_timestamp"`
	Stats          StatsRecord `json:"stats"`
	IngestedAt     string      `json:"ingested_at"`
}
