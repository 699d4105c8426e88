package liquity

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// ContractCaller executes eth_call against a fixed block reference.
type ContractCaller interface {
	CallContractAt(ctx context.Context, msg ethereum.CallMsg, ref model.BlockRef) ([]byte, error)
}

// Reader reads Liquity v2 contract state. Every method takes the block
// reference explicitly; the reader keeps no state of its own.
type Reader struct {
	caller ContractCaller
}

func NewReader(caller ContractCaller) *Reader {
	return &Reader{caller: caller}
}

// TotalBoldSupply returns BOLD totalSupply.
func (r *Reader) TotalBoldSupply(ctx context.Context, bold common.Address, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, bold, erc20ABI, "totalSupply", ref)
}

// CollSymbol returns the collateral token symbol, falling back to a bytes32
// symbol for non-standard tokens.
func (r *Reader) CollSymbol(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (string, error) {
	values, err := r.call(ctx, branch.CollToken, erc20ABI, "symbol", ref)
	if err == nil {
		if symbol, ok := values[0].(string); ok {
			return symbol, nil
		}
		return "", fmt.Errorf("symbol unexpected type %T", values[0])
	}

	values, fallbackErr := r.call(ctx, branch.CollToken, erc20Bytes32ABI, "symbol", ref)
	if fallbackErr != nil {
		return "", err
	}
	symbol, ok := bytes32ToString(values[0])
	if !ok {
		return "", fmt.Errorf("symbol unexpected type %T", values[0])
	}
	return symbol, nil
}

// ActiveCollBalance returns ActivePool.getCollBalance.
func (r *Reader) ActiveCollBalance(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.ActivePool, activePoolABI, "getCollBalance", ref)
}

// DefaultCollBalance returns DefaultPool.getCollBalance.
func (r *Reader) DefaultCollBalance(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.DefaultPool, defaultPoolABI, "getCollBalance", ref)
}

// CollPrice statically calls PriceFeed.fetchPrice and returns the price.
func (r *Reader) CollPrice(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	values, err := r.call(ctx, branch.PriceFeed, priceFeedABI, "fetchPrice", ref)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// TotalBoldDeposits returns StabilityPool.getTotalBoldDeposits.
func (r *Reader) TotalBoldDeposits(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.StabilityPool, stabilityPoolABI, "getTotalBoldDeposits", ref)
}

// AggWeightedDebtSum returns ActivePool.aggWeightedDebtSum (debt times annual
// rate, 36 decimals).
func (r *Reader) AggWeightedDebtSum(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.ActivePool, activePoolABI, "aggWeightedDebtSum", ref)
}

// PendingAggInterest returns ActivePool.calcPendingAggInterest.
func (r *Reader) PendingAggInterest(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.ActivePool, activePoolABI, "calcPendingAggInterest", ref)
}

// AggBatchManagementFees returns ActivePool.aggBatchManagementFees.
func (r *Reader) AggBatchManagementFees(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.ActivePool, activePoolABI, "aggBatchManagementFees", ref)
}

// PendingAggBatchManagementFee returns ActivePool.calcPendingAggBatchManagementFee.
func (r *Reader) PendingAggBatchManagementFee(ctx context.Context, branch deployment.Branch, ref model.BlockRef) (*big.Int, error) {
	return r.callUint(ctx, branch.ActivePool, activePoolABI, "calcPendingAggBatchManagementFee", ref)
}

func (r *Reader) callUint(ctx context.Context, contract common.Address, parsed *lazyABI, method string, ref model.BlockRef) (*big.Int, error) {
	values, err := r.call(ctx, contract, parsed, method, ref)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s return size %d", method, len(values))
	}
	return asBigInt(values[0])
}

func (r *Reader) call(ctx context.Context, contract common.Address, parsed *lazyABI, method string, ref model.BlockRef) ([]interface{}, error) {
	if r.caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	contractABI, err := parsed.get()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return callMethod(ctx, r.caller, contract, contractABI, method, ref)
}

func callMethod(ctx context.Context, caller ContractCaller, contract common.Address, contractABI abi.ABI, method string, ref model.BlockRef) ([]interface{}, error) {
	data, err := contractABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := caller.CallContractAt(ctx, msg, ref)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := contractABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}
