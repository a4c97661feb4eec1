package transfer

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/saturn-labs/treasury/amount"
	"github.com/saturn-labs/treasury/config/ring"
)

// State is the state of a transfer form submission.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateProposalReady
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateProposalReady:
		return "proposal_ready"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Form is the state of a transfer form. It is an immutable value: every reducer returns an
// updated copy and leaves the receiver untouched.
type Form struct {
	asset            string
	pair             NetworkPair
	possibleNetworks []string
	target           string
	amountText       string
	bridgeToSelf     bool
}

// Open returns the form for transferring asset, opened on network. Both ends of the pair default
// to network, and the selectable networks are the ones the asset can move between.
func Open(cfg *ring.Config, asset, network string) (Form, error) {
	networks, err := cfg.NetworksByAsset(asset)
	if err != nil {
		return Form{}, fmt.Errorf("%w: %w", ErrUnknownAsset, err)
	}
	if !slices.Contains(networks, network) {
		return Form{}, fmt.Errorf("%w: %s is not available for %s", ErrUnknownNetwork, network, asset)
	}

	return Form{
		asset:            asset,
		pair:             NetworkPair{From: network, To: network},
		possibleNetworks: networks,
	}, nil
}

func (f Form) Asset() string              { return f.asset }
func (f Form) Pair() NetworkPair          { return f.pair }
func (f Form) Target() string             { return f.target }
func (f Form) AmountText() string         { return f.amountText }
func (f Form) BridgeToSelf() bool         { return f.bridgeToSelf }
func (f Form) PossibleNetworks() []string { return slices.Clone(f.possibleNetworks) }

// WithFrom selects the source network.
func (f Form) WithFrom(network string) Form {
	f.pair.From = network

	return f.normalize()
}

// WithTo selects the destination network.
func (f Form) WithTo(network string) Form {
	f.pair.To = network

	return f.normalize()
}

// WithTarget sets the recipient address.
func (f Form) WithTarget(target string) Form {
	f.target = strings.TrimSpace(target)

	return f
}

// WithAmountText sets the amount as entered by the user.
func (f Form) WithAmountText(text string) Form {
	f.amountText = text

	return f
}

// ToggleBridgeToSelf flips the bridge to self option. It only applies while the pair crosses
// chains and is a no-op otherwise.
func (f Form) ToggleBridgeToSelf() Form {
	if f.pair.SameChain() {
		return f
	}
	f.bridgeToSelf = !f.bridgeToSelf

	return f
}

func (f Form) normalize() Form {
	if f.pair.SameChain() {
		f.bridgeToSelf = false
	}
	f.possibleNetworks = slices.Clone(f.possibleNetworks)

	return f
}

// Draft is a validated transfer that only lacks the fee estimate to become a Proposal.
type Draft struct {
	Route        Route       `json:"route"`
	Pair         NetworkPair `json:"pair"`
	Asset        string      `json:"asset"`
	Amount       *big.Int    `json:"amount"`
	Decimals     int32       `json:"decimals"`
	Target       string      `json:"target,omitempty"`
	BridgeToSelf bool        `json:"bridge_to_self,omitempty"`

	CurrencyID   *uint32               `json:"currency_id,omitempty"`
	Registration *ring.XcmRegistration `json:"registration,omitempty"`
}

// NeedsFee reports whether the draft must wait for a fee estimate before it can be built.
func (d Draft) NeedsFee() bool {
	return d.Route != RouteLocalTransfer
}

// Proposal builds the proposal for the draft with the estimated partial fee.
func (d Draft) Proposal(multisigID uint32, fee *big.Int) (Proposal, error) {
	return Build(BuildParams{
		Route:        d.Route,
		Pair:         d.Pair,
		MultisigID:   multisigID,
		Asset:        d.Asset,
		Amount:       d.Amount,
		Target:       d.Target,
		BridgeToSelf: d.BridgeToSelf,
		CurrencyID:   d.CurrencyID,
		Registration: d.Registration,
		Fee:          fee,
	})
}

// Validate checks the form against the ring configuration and returns the resulting draft. The
// form itself is not changed, so a rejected form can be corrected and validated again.
func (f Form) Validate(cfg *ring.Config) (Draft, error) {
	for _, network := range []string{f.pair.From, f.pair.To} {
		if !slices.Contains(f.possibleNetworks, network) {
			return Draft{}, fmt.Errorf("%w: %q is not available for %s", ErrUnknownNetwork, network, f.asset)
		}
	}

	source, err := cfg.Ring(f.pair.From)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrUnknownNetwork, err)
	}
	destination, err := cfg.Ring(f.pair.To)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrUnknownNetwork, err)
	}

	route, err := Classify(f.pair, cfg.Native().Name)
	if err != nil {
		return Draft{}, err
	}

	value, err := amount.Parse(f.amountText)
	if err != nil {
		return Draft{}, err
	}
	if err = amount.Positive(value); err != nil {
		return Draft{}, err
	}

	registered, ok := source.Asset(f.asset)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %s is not registered on %s", ErrUnknownAsset, f.asset, source.Name)
	}
	decimals, err := source.AssetDecimals(f.asset)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrUnknownAsset, err)
	}
	planks, err := amount.ToBaseUnits(value, decimals)
	if err != nil {
		return Draft{}, err
	}

	draft := Draft{
		Route:    route,
		Pair:     f.pair,
		Asset:    f.asset,
		Amount:   planks,
		Decimals: decimals,
	}

	if route == RouteLocalTransfer {
		if f.asset != source.NativeAsset {
			draft.CurrencyID = registered.CurrencyID
		}
	} else {
		if registered.XCM == nil {
			return Draft{}, fmt.Errorf("%w: %s on %s", ErrUnresolvedAssetRegistration, f.asset, source.Name)
		}
		reg := *registered.XCM
		draft.Registration = &reg
	}

	if route.IsBridge() && f.bridgeToSelf {
		draft.BridgeToSelf = true

		return draft, nil
	}

	if f.target == "" {
		return Draft{}, fmt.Errorf("%w: recipient is required", ErrInvalidRecipient)
	}
	if err = destination.ValidateAddress(f.target); err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrInvalidRecipient, err)
	}
	draft.Target = f.target

	return draft, nil
}

// IsValidation reports whether err is a form validation error rather than a failed external call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnresolvedAssetRegistration) ||
		errors.Is(err, ErrUnclassifiedRoute) ||
		errors.Is(err, ErrInvalidRecipient) ||
		errors.Is(err, ErrUnknownNetwork) ||
		errors.Is(err, ErrUnknownAsset)
}
