// Package chain defines the boundary to the external multisig SDK and the per-chain API clients.
// Transport to chains lives behind these interfaces; this module only consumes them.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
)

// Multisig identifies the multisig the treasury acts for.
type Multisig struct {
	ID uint32 `json:"id"`
	// Address is the multisig's account on the native ring.
	Address string `json:"address"`
}

// Validate checks the multisig identity is usable.
func (m Multisig) Validate() error {
	if m.Address == "" {
		return errors.New("multisig address is required")
	}

	return nil
}

// MultisigSDK is the subset of the multisig SDK needed to list members and their voting power.
type MultisigSDK interface {
	// Members returns the member addresses of the multisig.
	Members(ctx context.Context, multisigID uint32) ([]string, error)
	// MemberBalance returns the raw vote balance of a member.
	MemberBalance(ctx context.Context, multisigID uint32, member string) (*big.Int, error)
}

// FeeKind is the kind of call used to estimate a transfer fee.
type FeeKind string

const (
	// FeeKindReserveTransfer estimates an XCM reserve transfer of the asset.
	FeeKindReserveTransfer FeeKind = "reserve_transfer"
	// FeeKindBalanceTransfer estimates a plain balance transfer on the chain.
	FeeKindBalanceTransfer FeeKind = "balance_transfer"
)

// FeeQuery describes the call whose fee should be estimated.
type FeeQuery struct {
	Chain     string
	Kind      FeeKind
	Payer     string
	Recipient string
	Amount    *big.Int
}

// FeeEstimator estimates the partial fee of a call, in base units of the chain's native asset.
type FeeEstimator interface {
	EstimateFee(ctx context.Context, q FeeQuery) (*big.Int, error)
}

// FeeEstimatorFunc adapts a function to a FeeEstimator.
type FeeEstimatorFunc func(ctx context.Context, q FeeQuery) (*big.Int, error)

// EstimateFee implements FeeEstimator.
func (f FeeEstimatorFunc) EstimateFee(ctx context.Context, q FeeQuery) (*big.Int, error) {
	return f(ctx, q)
}

// StaticFeeEstimator returns a fixed partial fee per chain. It is used when no chain API client is
// wired in, for example when building proposals offline from the CLI.
type StaticFeeEstimator map[string]*big.Int

// EstimateFee implements FeeEstimator.
func (s StaticFeeEstimator) EstimateFee(ctx context.Context, q FeeQuery) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fee, ok := s[q.Chain]
	if !ok {
		return nil, fmt.Errorf("no fee configured for chain %s", q.Chain)
	}

	return new(big.Int).Set(fee), nil
}
