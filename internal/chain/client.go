package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// Client reads contract state over JSON-RPC and caches block timestamps by
// number.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client

	mu         sync.RWMutex
	timestamps map[uint64]uint64
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return newClient(rpcClient), nil
}

func newClient(rpcClient *rpc.Client) *Client {
	return &Client{
		rpcClient:  rpcClient,
		ethClient:  ethclient.NewClient(rpcClient),
		timestamps: make(map[uint64]uint64),
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// PinRef resolves a latest reference to the current head number so that
// every read made with the result observes the same block. Number and hash
// references are returned unchanged.
func (c *Client) PinRef(ctx context.Context, ref model.BlockRef) (model.BlockRef, error) {
	if !ref.IsLatest() {
		return ref, nil
	}
	head, err := c.LatestBlockNumber(ctx)
	if err != nil {
		return model.BlockRef{}, fmt.Errorf("resolve latest block: %w", err)
	}
	return model.AtNumber(head), nil
}

// BlockTimestamp returns the timestamp of a block by number.
func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	c.mu.RLock()
	ts, ok := c.timestamps[number]
	c.mu.RUnlock()
	if ok {
		return ts, nil
	}

	header, err := c.ethClient.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, fmt.Errorf("header %d: %w", number, err)
	}

	c.mu.Lock()
	c.timestamps[number] = header.Time
	c.mu.Unlock()
	return header.Time, nil
}

// CallContractAt performs an eth_call against the state at ref. Hash
// references are sent as EIP-1898 block hashes.
func (c *Client) CallContractAt(ctx context.Context, msg ethereum.CallMsg, ref model.BlockRef) ([]byte, error) {
	if ref.Hash != nil {
		return c.ethClient.CallContractAtHash(ctx, msg, *ref.Hash)
	}
	return c.ethClient.CallContract(ctx, msg, ref.Number)
}
