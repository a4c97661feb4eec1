package transfer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturn-labs/treasury/config/ring"
)

func ptr[T any](v T) *T { return &v }

func Test_Build(t *testing.T) {
	t.Parallel()

	ksmOnMoonbeam := &ring.XcmRegistration{Kind: "AssetId", Value: "42259045809535163221576417993425387648"}

	tests := []struct {
		name    string
		params  BuildParams
		want    Proposal
		wantErr error
	}{
		{
			name: "local transfer of the native asset",
			params: BuildParams{
				Route:      RouteLocalTransfer,
				Pair:       NetworkPair{From: "tinkernet", To: "tinkernet"},
				MultisigID: 7,
				Asset:      "TNKR",
				Amount:     big.NewInt(10_000_000_000_000),
				Target:     "addr",
			},
			want: Proposal{
				Kind:       KindLocalTransfer,
				MultisigID: 7,
				Chain:      "tinkernet",
				Asset:      "TNKR",
				Amount:     big.NewInt(10_000_000_000_000),
				To:         "addr",
				Pallet:     PalletBalances,
			},
		},
		{
			name: "local transfer through the tokens pallet",
			params: BuildParams{
				Route:      RouteLocalTransfer,
				Pair:       NetworkPair{From: "tinkernet", To: "tinkernet"},
				Asset:      "KSM",
				Amount:     big.NewInt(5),
				Target:     "addr",
				CurrencyID: ptr[uint32](1),
			},
			want: Proposal{
				Kind:       KindLocalTransfer,
				Chain:      "tinkernet",
				Asset:      "KSM",
				Amount:     big.NewInt(5),
				To:         "addr",
				Pallet:     PalletTokens,
				CurrencyID: ptr[uint32](1),
			},
		},
		{
			name: "bridge to explicit recipient",
			params: BuildParams{
				Route:        RouteXcmBridge,
				Pair:         NetworkPair{From: "moonbeam", To: "tinkernet"},
				Asset:        "KSM",
				Amount:       big.NewInt(2_000_000_000_000),
				Target:       "ADDR",
				Registration: ksmOnMoonbeam,
				Fee:          big.NewInt(150),
			},
			want: Proposal{
				Kind:             KindXcmBridge,
				Chain:            "moonbeam",
				DestinationChain: "tinkernet",
				Asset:            "KSM",
				Amount:           big.NewInt(2_000_000_000_000),
				To:               "ADDR",
				Registration:     ksmOnMoonbeam,
				XcmFee:           big.NewInt(300),
			},
		},
		{
			name: "bridge to self drops the recipient",
			params: BuildParams{
				Route:        RouteXcmBridge,
				Pair:         NetworkPair{From: "moonbeam", To: "tinkernet"},
				Asset:        "KSM",
				Amount:       big.NewInt(1),
				Target:       "ignored",
				BridgeToSelf: true,
				Registration: ksmOnMoonbeam,
			},
			want: Proposal{
				Kind:             KindXcmBridge,
				Chain:            "moonbeam",
				DestinationChain: "tinkernet",
				Asset:            "KSM",
				Amount:           big.NewInt(1),
				Registration:     ksmOnMoonbeam,
			},
		},
		{
			name: "outbound bridge from native",
			params: BuildParams{
				Route:        RouteOutboundBridge,
				Pair:         NetworkPair{From: "tinkernet", To: "basilisk"},
				Asset:        "TNKR",
				Amount:       big.NewInt(3),
				BridgeToSelf: true,
				Registration: &ring.XcmRegistration{Kind: "Native"},
				Fee:          big.NewInt(10),
			},
			want: Proposal{
				Kind:             KindXcmBridge,
				Chain:            "tinkernet",
				DestinationChain: "basilisk",
				Asset:            "TNKR",
				Amount:           big.NewInt(3),
				Registration:     &ring.XcmRegistration{Kind: "Native"},
				XcmFee:           big.NewInt(20),
			},
		},
		{
			name: "xcm transfer pays the fee in the asset",
			params: BuildParams{
				Route:        RouteXcmTransfer,
				Pair:         NetworkPair{From: "kusama", To: "kusama"},
				Asset:        "KSM",
				Amount:       big.NewInt(4),
				Target:       "dest",
				Registration: &ring.XcmRegistration{Kind: "Native"},
				Fee:          big.NewInt(7),
			},
			want: Proposal{
				Kind:         KindXcmTransfer,
				Chain:        "kusama",
				Asset:        "KSM",
				Amount:       big.NewInt(4),
				To:           "dest",
				Registration: &ring.XcmRegistration{Kind: "Native"},
				XcmFee:       big.NewInt(14),
				XcmFeeAsset:  &ring.XcmRegistration{Kind: "Native"},
			},
		},
		{
			name:    "zero amount",
			params:  BuildParams{Route: RouteLocalTransfer, Asset: "TNKR", Amount: big.NewInt(0), Target: "a"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			params:  BuildParams{Route: RouteLocalTransfer, Asset: "TNKR", Amount: big.NewInt(-1), Target: "a"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing amount",
			params:  BuildParams{Route: RouteLocalTransfer, Asset: "TNKR", Target: "a"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing asset",
			params:  BuildParams{Route: RouteLocalTransfer, Amount: big.NewInt(1), Target: "a"},
			wantErr: ErrUnknownAsset,
		},
		{
			name:    "local transfer without recipient",
			params:  BuildParams{Route: RouteLocalTransfer, Asset: "TNKR", Amount: big.NewInt(1)},
			wantErr: ErrInvalidRecipient,
		},
		{
			name: "bridge without recipient",
			params: BuildParams{
				Route: RouteXcmBridge, Asset: "KSM", Amount: big.NewInt(1), Registration: ksmOnMoonbeam,
			},
			wantErr: ErrInvalidRecipient,
		},
		{
			name:    "bridge without registration",
			params:  BuildParams{Route: RouteXcmBridge, Asset: "KSM", Amount: big.NewInt(1), BridgeToSelf: true},
			wantErr: ErrUnresolvedAssetRegistration,
		},
		{
			name:    "xcm transfer without registration",
			params:  BuildParams{Route: RouteXcmTransfer, Asset: "KSM", Amount: big.NewInt(1), Target: "a"},
			wantErr: ErrUnresolvedAssetRegistration,
		},
		{
			name:    "unknown route",
			params:  BuildParams{Route: "teleport", Asset: "KSM", Amount: big.NewInt(1), Target: "a"},
			wantErr: ErrUnclassifiedRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Build(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Proposal{}, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Build_DoesNotAlias(t *testing.T) {
	t.Parallel()

	amt := big.NewInt(100)
	fee := big.NewInt(5)
	reg := &ring.XcmRegistration{Kind: "Native"}

	p, err := Build(BuildParams{
		Route:        RouteXcmTransfer,
		Pair:         NetworkPair{From: "kusama", To: "kusama"},
		Asset:        "KSM",
		Amount:       amt,
		Target:       "dest",
		Registration: reg,
		Fee:          fee,
	})
	require.NoError(t, err)

	amt.SetInt64(1)
	fee.SetInt64(1)
	reg.Kind = "changed"

	assert.Equal(t, "100", p.Amount.String())
	assert.Equal(t, "10", p.XcmFee.String())
	assert.Equal(t, "Native", p.Registration.Kind)
	assert.False(t, p.ToSelf())
}
