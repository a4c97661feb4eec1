// Package amount converts between user entered decimal amounts and on-chain base units (planks).
//
// All arithmetic is done on arbitrary precision decimals; floating point is never involved.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are empty, not numeric, negative, or that cannot be
// represented exactly in base units.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	// maxExponent bounds the decimal exponent of an amount, so scaling never builds huge powers of ten.
	maxExponent = 64
	// maxBits is the width of an on-chain balance (u128).
	maxBits = 128
)

// voteUnit is the divisor applied to raw multisig vote balances for display.
var voteUnit = decimal.New(1, 6)

// Parse parses a user entered amount. Surrounding whitespace is ignored; empty, non-numeric and
// negative input is rejected. Zero is accepted here and rejected by [Positive].
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -2*maxExponent {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}

	return d, nil
}

// Positive returns an error unless d is strictly greater than zero.
func Positive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero, got %s", ErrInvalidAmount, d)
	}

	return nil
}

// ToBaseUnits returns d * 10^decimals as an integer. It fails when d is negative, has more
// fractional digits than decimals, or does not fit in an on-chain balance.
func ToBaseUnits(d decimal.Decimal, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: negative precision %d", ErrInvalidAmount, decimals)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -(decimals+maxExponent) {
		return nil, fmt.Errorf("%w: exponent %d is out of range", ErrInvalidAmount, exp)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d, decimals)
	}

	planks := scaled.BigInt()
	if planks.BitLen() > maxBits {
		return nil, fmt.Errorf("%w: %s exceeds %d bits in base units", ErrInvalidAmount, d, maxBits)
	}

	return planks, nil
}

// FromBaseUnits is the inverse of ToBaseUnits. A nil amount is treated as zero.
func FromBaseUnits(planks *big.Int, decimals int32) decimal.Decimal {
	if planks == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(planks, -decimals)
}

// FormatVotes renders a raw vote balance the way the members view shows it: divided by one
// million and rounded down to two decimal places.
func FormatVotes(votes *big.Int) string {
	if votes == nil {
		return "0"
	}

	return decimal.NewFromBigInt(votes, 0).Div(voteUnit).RoundDown(2).String()
}
