package stats

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// fakeBranch holds raw values in whole token units; the fake scales them to
// 18-decimal integers like the contracts do.
type fakeBranch struct {
	symbol             string
	collActive         string
	collDefault        string
	collPrice          string
	spDeposits         string
	aggWeightedDebtSum string // already in 36 decimals
	interestPending    string
	batchFees          string
	pendingBatchFee    string
}

type fakeSource struct {
	supply   string
	branches []fakeBranch
	failOn   string
	failErr  error
	// raw replaces a field's scaled value, nil included.
	raw      map[string]*big.Int

	mu    sync.Mutex
	refs  []string
	calls int
}

func (f *fakeSource) dep() deployment.Deployment {
	branches := make([]deployment.Branch, len(f.branches))
	for i := range f.branches {
		branches[i] = deployment.Branch{Index: i, CollToken: common.BigToAddress(big.NewInt(int64(i + 1)))}
	}
	return deployment.Deployment{
		BoldToken:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
		SPYieldSplit: mustDecimal("1"),
		Branches:     branches,
	}
}

func (f *fakeSource) record(ctx context.Context, field string, ref model.BlockRef) error {
	f.mu.Lock()
	f.refs = append(f.refs, ref.String())
	f.calls++
	f.mu.Unlock()

	if field == f.failOn {
		if f.failErr != nil {
			return f.failErr
		}
		return fmt.Errorf("execution reverted: %s", field)
	}
	return ctx.Err()
}

func scaled(value string, decimals int) *big.Int {
	d := mustDecimal(value).Shift(int32(decimals))
	return d.BigInt()
}

func (f *fakeSource) readScaled(ctx context.Context, field string, ref model.BlockRef, value string, decimals int) (*big.Int, error) {
	if err := f.record(ctx, field, ref); err != nil {
		return nil, err
	}
	if v, ok := f.raw[field]; ok {
		return v, nil
	}
	return scaled(value, decimals), nil
}

func (f *fakeSource) TotalBoldSupply(ctx context.Context, _ common.Address, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "total_bold_supply", ref, f.supply, 18)
}

func (f *fakeSource) CollSymbol(ctx context.Context, b deployment.Branch, ref model.BlockRef) (string, error) {
	if err := f.record(ctx, "coll_symbol", ref); err != nil {
		return "", err
	}
	return f.branches[b.Index].symbol, nil
}

func (f *fakeSource) ActiveCollBalance(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "coll_active", ref, f.branches[b.Index].collActive, 18)
}

func (f *fakeSource) DefaultCollBalance(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "coll_default", ref, f.branches[b.Index].collDefault, 18)
}

func (f *fakeSource) CollPrice(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "coll_price", ref, f.branches[b.Index].collPrice, 18)
}

func (f *fakeSource) TotalBoldDeposits(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "sp_deposits", ref, f.branches[b.Index].spDeposits, 18)
}

func (f *fakeSource) AggWeightedDebtSum(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "agg_weighted_debt_sum", ref, f.branches[b.Index].aggWeightedDebtSum, 36)
}

func (f *fakeSource) PendingAggInterest(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "interest_pending", ref, f.branches[b.Index].interestPending, 18)
}

func (f *fakeSource) AggBatchManagementFees(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "agg_batch_management_fees", ref, f.branches[b.Index].batchFees, 18)
}

func (f *fakeSource) PendingAggBatchManagementFee(ctx context.Context, b deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return f.readScaled(ctx, "pending_agg_batch_management_fee", ref, f.branches[b.Index].pendingBatchFee, 18)
}
