package ring

import (
	"errors"
	"fmt"
	"strconv"

	chain_selectors "github.com/smartcontractkit/chain-selectors"

	"github.com/saturn-labs/treasury/chain/address"
)

// Ring is a chain the multisig holds assets on. Exactly one ring in a configuration is the native
// ring, the chain where the multisig has its own account and signs directly. Every other ring is
// reached through XCM.
type Ring struct {
	Name          string         `yaml:"name"`
	Native        bool           `yaml:"native,omitempty"`
	Decimals      int32          `yaml:"decimals"`
	NativeAsset   string         `yaml:"native_asset"`
	BalancesPath  string         `yaml:"balances_path"`
	AddressFormat address.Format `yaml:"address_format"`
	SS58Prefix    uint16         `yaml:"ss58_prefix,omitempty"`
	EVMChainID    uint64         `yaml:"evm_chain_id,omitempty"`
	Assets        []Asset        `yaml:"assets"`
}

// Asset is the registration of an asset on a ring.
type Asset struct {
	Symbol string `yaml:"symbol"`
	// Decimals overrides the ring decimals for this asset.
	Decimals *int32 `yaml:"decimals,omitempty"`
	// CurrencyID is the tokens pallet currency of a non native asset held on the native ring.
	CurrencyID *uint32 `yaml:"currency_id,omitempty"`
	// XCM is how the multisig SDK refers to the asset when moving it over XCM from this ring.
	XCM *XcmRegistration `yaml:"xcm,omitempty"`
}

// XcmRegistration is the XCM level representation of an asset on a specific chain, for example
// {Kind: "AssetId", Value: "1"} or {Kind: "Native"}.
type XcmRegistration struct {
	Kind  string `yaml:"kind" json:"kind"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// String renders the registration as Kind or Kind(Value).
func (r XcmRegistration) String() string {
	if r.Value == "" {
		return r.Kind
	}

	return fmt.Sprintf("%s(%s)", r.Kind, r.Value)
}

// Asset returns the registration of symbol on the ring.
func (r Ring) Asset(symbol string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}

	return Asset{}, false
}

// AssetDecimals returns the decimal precision the ring registers symbol with.
func (r Ring) AssetDecimals(symbol string) (int32, error) {
	a, ok := r.Asset(symbol)
	if !ok {
		return 0, fmt.Errorf("asset %s is not registered on %s", symbol, r.Name)
	}
	if a.Decimals != nil {
		return *a.Decimals, nil
	}

	return r.Decimals, nil
}

// ChainDetails resolves the chain selector details of an EVM ring from its chain id.
func (r Ring) ChainDetails() (chain_selectors.ChainDetails, error) {
	if r.EVMChainID == 0 {
		return chain_selectors.ChainDetails{}, fmt.Errorf("ring %s has no evm chain id", r.Name)
	}

	return chain_selectors.GetChainDetailsByChainIDAndFamily(
		strconv.FormatUint(r.EVMChainID, 10), chain_selectors.FamilyEVM,
	)
}

// ValidateAddress checks that addr is a valid account address on this ring.
func (r Ring) ValidateAddress(addr string) error {
	return address.Validate(addr, r.AddressFormat, r.SS58Prefix)
}

// Validate validates the ring to ensure all required fields are set.
func (r Ring) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}

	if r.Decimals <= 0 {
		return errors.New("decimals must be positive")
	}

	if r.NativeAsset == "" {
		return errors.New("native asset is required")
	}

	if r.BalancesPath == "" {
		return errors.New("balances path is required")
	}

	switch r.AddressFormat {
	case address.FormatSS58:
	case address.FormatEVM:
		if r.EVMChainID != 0 {
			if _, err := r.ChainDetails(); err != nil {
				return fmt.Errorf("evm chain id %d: %w", r.EVMChainID, err)
			}
		}
	default:
		return fmt.Errorf("unsupported address format %q", r.AddressFormat)
	}

	seen := make(map[string]struct{}, len(r.Assets))
	for _, a := range r.Assets {
		if a.Symbol == "" {
			return errors.New("asset symbol is required")
		}
		if _, ok := seen[a.Symbol]; ok {
			return fmt.Errorf("asset %s registered twice", a.Symbol)
		}
		seen[a.Symbol] = struct{}{}

		if a.Decimals != nil && *a.Decimals < 0 {
			return fmt.Errorf("asset %s: decimals must not be negative", a.Symbol)
		}
		if a.XCM != nil && a.XCM.Kind == "" {
			return fmt.Errorf("asset %s: xcm registration kind is required", a.Symbol)
		}
		if r.Native && a.Symbol != r.NativeAsset && a.CurrencyID == nil {
			return fmt.Errorf("asset %s: currency id is required on the native ring", a.Symbol)
		}
	}

	if _, ok := seen[r.NativeAsset]; !ok {
		return fmt.Errorf("native asset %s is not registered", r.NativeAsset)
	}

	return nil
}
