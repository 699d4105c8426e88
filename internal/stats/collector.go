package stats

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

const tokenDecimals = 18

// Collected is the raw state of the protocol at one block reference.
type Collected struct {
	TotalBoldSupply decimal.Decimal
	Branches        []model.RawBranchFields
}

type branchReads struct {
	symbol                       string
	collActive                   *big.Int
	collDefault                  *big.Int
	collPrice                    *big.Int
	spDeposits                   *big.Int
	aggWeightedDebtSum           *big.Int
	interestPending              *big.Int
	aggBatchManagementFees       *big.Int
	pendingAggBatchManagementFee *big.Int
}

// Collect reads total BOLD supply and every branch's raw fields concurrently,
// all at ref. The first failing read cancels the rest and is returned; no
// partial result is produced.
func Collect(ctx context.Context, src Source, dep deployment.Deployment, ref model.BlockRef) (Collected, error) {
	if src == nil {
		return Collected{}, fmt.Errorf("source is nil")
	}

	g, gctx := errgroup.WithContext(ctx)

	var supply *big.Int
	readUint(g, "total_bold_supply", &supply, func() (*big.Int, error) {
		return src.TotalBoldSupply(gctx, dep.BoldToken, ref)
	})

	reads := make([]branchReads, len(dep.Branches))
	for i, branch := range dep.Branches {
		branch := branch // per-iteration copy (go directive is 1.21)
		out := &reads[i]
		prefix := fmt.Sprintf("branch %d ", branch.Index)

		g.Go(func() error {
			symbol, err := src.CollSymbol(gctx, branch, ref)
			if err != nil {
				return fmt.Errorf("%scoll_symbol: %w", prefix, err)
			}
			out.symbol = symbol
			return nil
		})
		readUint(g, prefix+"coll_active", &out.collActive, func() (*big.Int, error) {
			return src.ActiveCollBalance(gctx, branch, ref)
		})
		readUint(g, prefix+"coll_default", &out.collDefault, func() (*big.Int, error) {
			return src.DefaultCollBalance(gctx, branch, ref)
		})
		readUint(g, prefix+"coll_price", &out.collPrice, func() (*big.Int, error) {
			return src.CollPrice(gctx, branch, ref)
		})
		readUint(g, prefix+"sp_deposits", &out.spDeposits, func() (*big.Int, error) {
			return src.TotalBoldDeposits(gctx, branch, ref)
		})
		readUint(g, prefix+"agg_weighted_debt_sum", &out.aggWeightedDebtSum, func() (*big.Int, error) {
			return src.AggWeightedDebtSum(gctx, branch, ref)
		})
		readUint(g, prefix+"interest_pending", &out.interestPending, func() (*big.Int, error) {
			return src.PendingAggInterest(gctx, branch, ref)
		})
		readUint(g, prefix+"agg_batch_management_fees", &out.aggBatchManagementFees, func() (*big.Int, error) {
			return src.AggBatchManagementFees(gctx, branch, ref)
		})
		readUint(g, prefix+"pending_agg_batch_management_fee", &out.pendingAggBatchManagementFee, func() (*big.Int, error) {
			return src.PendingAggBatchManagementFee(gctx, branch, ref)
		})
	}

	if err := g.Wait(); err != nil {
		return Collected{}, err
	}

	branches := make([]model.RawBranchFields, 0, len(reads))
	for _, r := range reads {
		branches = append(branches, model.RawBranchFields{
			CollSymbol:                   r.symbol,
			CollActive:                   decimalify(r.collActive),
			CollDefault:                  decimalify(r.collDefault),
			CollPrice:                    decimalify(r.collPrice),
			SPDeposits:                   decimalify(r.spDeposits),
			AggWeightedDebtSum:           decimalify(r.aggWeightedDebtSum),
			InterestPending:              decimalify(r.interestPending),
			AggBatchManagementFees:       decimalify(r.aggBatchManagementFees),
			PendingAggBatchManagementFee: decimalify(r.pendingAggBatchManagementFee),
		})
	}

	return Collected{
		TotalBoldSupply: decimalify(supply),
		Branches:        branches,
	}, nil
}

func readUint(g *errgroup.Group, field string, dst **big.Int, read func() (*big.Int, error)) {
	g.Go(func() error {
		v, err := read()
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if v == nil || v.Sign() < 0 {
			return fmt.Errorf("%s: invalid value %v", field, v)
		}
		*dst = v
		return nil
	})
}

// decimalify converts an 18-decimal fixed point integer into a decimal.
func decimalify(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -tokenDecimals)
}
