package balances

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/saturn-labs/treasury/amount"
)

// Record is the balance of one asset on one network, in base units.
type Record struct {
	FreeBalance     string `json:"freeBalance"`
	ReservedBalance string `json:"reservedBalance"`
	FrozenFee       string `json:"frozenFee"`
	TotalBalance    string `json:"totalBalance"`
}

// Total returns the total balance scaled down by decimals.
func (r Record) Total(decimals int32) (decimal.Decimal, error) {
	return scale(r.TotalBalance, decimals)
}

// Free returns the free balance scaled down by decimals.
func (r Record) Free(decimals int32) (decimal.Decimal, error) {
	return scale(r.FreeBalance, decimals)
}

func scale(planks string, decimals int32) (decimal.Decimal, error) {
	if planks == "" {
		return decimal.Zero, nil
	}

	v, ok := new(big.Int).SetString(planks, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("balance %q is not an integer", planks)
	}

	return amount.FromBaseUnits(v, decimals), nil
}

// Result is the balances endpoint response for one network: a list of maps from asset key to
// its balance record.
type Result []map[string]Record

// Lookup returns the first record stored under key.
func (r Result) Lookup(key string) (Record, bool) {
	for _, m := range r {
		if rec, ok := m[key]; ok {
			return rec, true
		}
	}

	return Record{}, false
}

// NetworkBalances is the aggregate of every network's Result, keyed by ring name.
type NetworkBalances map[string]Result
