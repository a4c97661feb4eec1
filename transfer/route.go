package transfer

import "fmt"

// NetworkPair is the source and destination chain of a transfer.
type NetworkPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SameChain reports whether the pair does not leave the source chain.
func (p NetworkPair) SameChain() bool {
	return p.From == p.To
}

// Route is the transfer mode selected for a network pair.
type Route string

const (
	// RouteLocalTransfer is a balance transfer on the native chain.
	RouteLocalTransfer Route = "local_transfer"
	// RouteOutboundBridge moves an asset from the native chain to another chain.
	RouteOutboundBridge Route = "outbound_bridge"
	// RouteXcmBridge moves an asset from a foreign chain to another chain.
	RouteXcmBridge Route = "xcm_bridge"
	// RouteXcmTransfer is a transfer on a foreign chain, issued through XCM because the multisig
	// holds no key there.
	RouteXcmTransfer Route = "xcm_transfer"
)

// IsBridge reports whether the route delivers the asset to a different chain.
func (r Route) IsBridge() bool {
	return r == RouteOutboundBridge || r == RouteXcmBridge
}

// Classify selects the transfer route for pair, given the name of the native chain. Rules are
// evaluated in order:
//
//  1. from == to == native: RouteLocalTransfer
//  2. from == native, to != native: RouteOutboundBridge
//  3. from != native, from != to: RouteXcmBridge
//  4. from != native, from == to: RouteXcmTransfer
//
// A pair with an empty chain name, or an empty native chain, is unclassified.
func Classify(pair NetworkPair, native string) (Route, error) {
	if pair.From == "" || pair.To == "" || native == "" {
		return "", fmt.Errorf("%w: from %q to %q (native %q)", ErrUnclassifiedRoute, pair.From, pair.To, native)
	}

	switch {
	case pair.From == native && pair.To == native:
		return RouteLocalTransfer, nil
	case pair.From == native:
		return RouteOutboundBridge, nil
	case pair.From != pair.To:
		return RouteXcmBridge, nil
	default:
		return RouteXcmTransfer, nil
	}
}
