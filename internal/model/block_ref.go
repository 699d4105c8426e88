package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockRef identifies the chain state a snapshot is read at: a block number,
// a block hash, or the chain head when both are unset.
type BlockRef struct {
	Number *big.Int
	Hash   *common.Hash
}

// Latest refers to the chain head as seen by the RPC node.
func Latest() BlockRef {
	return BlockRef{}
}

// AtNumber pins a reference to a block height.
func AtNumber(number uint64) BlockRef {
	return BlockRef{Number: new(big.Int).SetUint64(number)}
}

// AtHash pins a reference to a block hash.
func AtHash(hash common.Hash) BlockRef {
	return BlockRef{Hash: &hash}
}

// IsLatest reports whether the reference follows the chain head.
func (r BlockRef) IsLatest() bool {
	return r.Number == nil && r.Hash == nil
}

func (r BlockRef) String() string {
	switch {
	case r.Hash != nil:
		return r.Hash.Hex()
	case r.Number != nil:
		return r.Number.String()
	default:
		return "latest"
	}
}

// ParseBlockRef accepts "latest" (or empty), a decimal or 0x-prefixed block
// number, or a 32-byte 0x-prefixed block hash.
func ParseBlockRef(input string) (BlockRef, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "latest") {
		return Latest(), nil
	}

	if has0xPrefix(input) && len(input) == 2+2*common.HashLength {
		data, err := hexutil.Decode(input)
		if err != nil {
			return BlockRef{}, fmt.Errorf("invalid block hash: %s", input)
		}
		return AtHash(common.BytesToHash(data)), nil
	}

	number, ok := new(big.Int).SetString(input, 0)
	if !ok || number.Sign() < 0 || !number.IsUint64() {
		return BlockRef{}, fmt.Errorf("invalid block reference: %s", input)
	}
	return BlockRef{Number: number}, nil
}

func has0xPrefix(input string) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}
