package transfer

import (
	"errors"

	"github.com/saturn-labs/treasury/amount"
)

var (
	// ErrInvalidAmount is returned when the amount is unparsable, not positive, or finer than the
	// asset precision on the source chain.
	ErrInvalidAmount = amount.ErrInvalidAmount

	// ErrUnresolvedAssetRegistration is returned when the asset has no XCM registration on the
	// source chain of a cross-chain route.
	ErrUnresolvedAssetRegistration = errors.New("asset has no xcm registration on source chain")

	// ErrUnclassifiedRoute is returned when a network pair matches no transfer route.
	ErrUnclassifiedRoute = errors.New("unclassified route")

	// ErrExternalCall wraps failures of the chain API or multisig SDK, such as fee estimation.
	ErrExternalCall = errors.New("external call failed")

	// ErrInvalidRecipient is returned when the recipient is missing or not an address of the
	// destination chain.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrUnknownNetwork is returned for a network that is not in the ring manifest or cannot hold the asset.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownAsset is returned for an asset that no ring lists.
	ErrUnknownAsset = errors.New("unknown asset")
)
