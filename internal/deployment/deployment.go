package deployment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ErrNoBranches is returned for a descriptor without collateral branches.
var ErrNoBranches = errors.New("deployment has no branches")

// Branch holds the contract addresses of one collateral branch.
type Branch struct {
	Index         int
	CollToken     common.Address
	ActivePool    common.Address
	DefaultPool   common.Address
	PriceFeed     common.Address
	StabilityPool common.Address
}

// Deployment is the resolved deployment descriptor.
type Deployment struct {
	BoldToken    common.Address
	SPYieldSplit decimal.Decimal
	Branches     []Branch
}

type manifest struct {
	BoldToken string           `json:"boldToken"`
	Constants manifestConsts   `json:"constants"`
	Branches  []branchManifest `json:"branches"`
}

type manifestConsts struct {
	SPYieldSplit string `json:"SP_YIELD_SPLIT"`
}

type branchManifest struct {
	CollToken     string `json:"collToken"`
	ActivePool    string `json:"activePool"`
	DefaultPool   string `json:"defaultPool"`
	PriceFeed     string `json:"priceFeed"`
	StabilityPool string `json:"stabilityPool"`
}

// Load reads a deployment manifest from disk.
func Load(path string) (Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deployment{}, fmt.Errorf("read deployment: %w", err)
	}
	return Parse(data)
}

// Parse decodes a deployment manifest. Unknown manifest fields are ignored.
func Parse(data []byte) (Deployment, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Deployment{}, fmt.Errorf("parse deployment: %w", err)
	}

	bold, err := parseAddress("boldToken", m.BoldToken)
	if err != nil {
		return Deployment{}, err
	}

	split, err := parseSPYieldSplit(m.Constants.SPYieldSplit)
	if err != nil {
		return Deployment{}, err
	}

	if len(m.Branches) == 0 {
		return Deployment{}, ErrNoBranches
	}

	branches := make([]Branch, 0, len(m.Branches))
	for i, bm := range m.Branches {
		branch, err := bm.resolve(i)
		if err != nil {
			return Deployment{}, fmt.Errorf("branch %d: %w", i, err)
		}
		branches = append(branches, branch)
	}

	return Deployment{
		BoldToken:    bold,
		SPYieldSplit: split,
		Branches:     branches,
	}, nil
}

func (bm branchManifest) resolve(index int) (Branch, error) {
	branch := Branch{Index: index}
	fields := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"collToken", bm.CollToken, &branch.CollToken},
		{"activePool", bm.ActivePool, &branch.ActivePool},
		{"defaultPool", bm.DefaultPool, &branch.DefaultPool},
		{"priceFeed", bm.PriceFeed, &branch.PriceFeed},
		{"stabilityPool", bm.StabilityPool, &branch.StabilityPool},
	}

	for _, f := range fields {
		addr, err := parseAddress(f.name, f.value)
		if err != nil {
			return Branch{}, err
		}
		*f.dst = addr
	}
	return branch, nil
}

func parseAddress(name, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, input)
	}
	return common.HexToAddress(input), nil
}

// parseSPYieldSplit reads the split as an 18-decimal uint256 (decimal or
// 0x-prefixed) and checks that it is a fraction.
func parseSPYieldSplit(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Decimal{}, fmt.Errorf("constants.SP_YIELD_SPLIT is required")
	}
	raw, ok := new(big.Int).SetString(input, 0)
	if !ok || raw.Sign() < 0 {
		return decimal.Decimal{}, fmt.Errorf("invalid SP_YIELD_SPLIT: %s", input)
	}
	split := decimal.NewFromBigInt(raw, -18)
	if split.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Decimal{}, fmt.Errorf("SP_YIELD_SPLIT must not exceed 1: %s", split)
	}
	return split, nil
}
