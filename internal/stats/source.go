package stats

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// Source reads raw protocol state at a block reference. Amounts are returned
// as raw uint256 values with 18 decimals.
type Source interface {
	TotalBoldSupply(ctx context.Context, bold common.Address, ref model.BlockRef) (*big.Int, error)
	CollSymbol(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (string, error)
	ActiveCollBalance(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	DefaultCollBalance(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	CollPrice(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	TotalBoldDeposits(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	AggWeightedDebtSum(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	PendingAggInterest(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	AggBatchManagementFees(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
	PendingAggBatchManagementFee(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error)
}
