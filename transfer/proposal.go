package transfer

import (
	"fmt"
	"math/big"

	"github.com/saturn-labs/treasury/config/ring"
)

// Kind is the kind of call a Proposal asks the multisig to make.
type Kind string

const (
	KindLocalTransfer Kind = "local_transfer"
	KindXcmTransfer   Kind = "xcm_transfer"
	KindXcmBridge     Kind = "xcm_bridge"
)

// Pallet is the pallet that executes a local transfer on the native chain.
type Pallet string

const (
	// PalletBalances transfers the native asset of the chain.
	PalletBalances Pallet = "balances"
	// PalletTokens transfers a non native asset identified by a currency id.
	PalletTokens Pallet = "tokens"
)

// xcmFeeMultiplier is applied to the estimated partial fee to leave headroom for the execution
// fee on the destination.
var xcmFeeMultiplier = big.NewInt(2)

// Proposal is a multisig transfer awaiting member votes. It is built on submit, handed to a
// Submitter and then discarded.
type Proposal struct {
	Kind       Kind   `json:"kind"`
	MultisigID uint32 `json:"multisig_id"`
	Chain      string `json:"chain"`
	// DestinationChain is only set for bridges.
	DestinationChain string   `json:"destination_chain,omitempty"`
	Asset            string   `json:"asset"`
	Amount           *big.Int `json:"amount"`
	// To is empty when a bridge delivers to the multisig's own account on the destination.
	To string `json:"to,omitempty"`

	Pallet     Pallet  `json:"pallet,omitempty"`
	CurrencyID *uint32 `json:"currency_id,omitempty"`

	Registration *ring.XcmRegistration `json:"registration,omitempty"`
	XcmFee       *big.Int              `json:"xcm_fee,omitempty"`
	XcmFeeAsset  *ring.XcmRegistration `json:"xcm_fee_asset,omitempty"`
}

// ToSelf reports whether the proposal delivers to the multisig itself.
func (p Proposal) ToSelf() bool {
	return p.To == ""
}

// BuildParams are the inputs of Build.
type BuildParams struct {
	Route        Route
	Pair         NetworkPair
	MultisigID   uint32
	Asset        string
	Amount       *big.Int
	Target       string
	BridgeToSelf bool
	// CurrencyID selects the tokens pallet for a local transfer.
	CurrencyID *uint32
	// Registration is the asset's XCM registration on the source chain.
	Registration *ring.XcmRegistration
	// Fee is the estimated partial fee on the source chain. It may be nil for local transfers.
	Fee *big.Int
}

// Build assembles the proposal for an already classified route. It has no side effects.
func Build(p BuildParams) (Proposal, error) {
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return Proposal{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if p.Asset == "" {
		return Proposal{}, fmt.Errorf("%w: asset symbol is required", ErrUnknownAsset)
	}

	prop := Proposal{
		MultisigID: p.MultisigID,
		Chain:      p.Pair.From,
		Asset:      p.Asset,
		Amount:     new(big.Int).Set(p.Amount),
	}

	switch p.Route {
	case RouteLocalTransfer:
		if p.Target == "" {
			return Proposal{}, fmt.Errorf("%w: recipient is required", ErrInvalidRecipient)
		}
		prop.Kind = KindLocalTransfer
		prop.To = p.Target
		prop.Pallet = PalletBalances
		if p.CurrencyID != nil {
			id := *p.CurrencyID
			prop.Pallet = PalletTokens
			prop.CurrencyID = &id
		}

	case RouteXcmTransfer:
		if p.Registration == nil {
			return Proposal{}, fmt.Errorf("%w: %s on %s", ErrUnresolvedAssetRegistration, p.Asset, p.Pair.From)
		}
		if p.Target == "" {
			return Proposal{}, fmt.Errorf("%w: recipient is required", ErrInvalidRecipient)
		}
		reg := *p.Registration
		prop.Kind = KindXcmTransfer
		prop.To = p.Target
		prop.Registration = &reg
		prop.XcmFeeAsset = &reg
		prop.XcmFee = xcmFee(p.Fee)

	case RouteXcmBridge, RouteOutboundBridge:
		if p.Registration == nil {
			return Proposal{}, fmt.Errorf("%w: %s on %s", ErrUnresolvedAssetRegistration, p.Asset, p.Pair.From)
		}
		if !p.BridgeToSelf {
			if p.Target == "" {
				return Proposal{}, fmt.Errorf("%w: recipient is required unless bridging to self", ErrInvalidRecipient)
			}
			prop.To = p.Target
		}
		reg := *p.Registration
		prop.Kind = KindXcmBridge
		prop.DestinationChain = p.Pair.To
		prop.Registration = &reg
		prop.XcmFee = xcmFee(p.Fee)

	default:
		return Proposal{}, fmt.Errorf("%w: route %q", ErrUnclassifiedRoute, p.Route)
	}

	return prop, nil
}

func xcmFee(fee *big.Int) *big.Int {
	if fee == nil {
		return nil
	}

	return new(big.Int).Mul(fee, xcmFeeMultiplier)
}
