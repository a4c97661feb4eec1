package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well known development account (Alice) on the generic substrate prefix.
const (
	aliceGeneric   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	aliceAccountID = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func Test_DecodeSS58(t *testing.T) {
	t.Parallel()

	prefix, id, err := DecodeSS58(aliceGeneric)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), prefix)
	assert.Equal(t, aliceAccountID, hex.EncodeToString(id))
}

func Test_EncodeSS58_RoundTrip(t *testing.T) {
	t.Parallel()

	id, err := hex.DecodeString(aliceAccountID)
	require.NoError(t, err)

	for _, prefix := range []uint16{0, 2, 42, 63, 64, 117, 10041, 16383} {
		addr, err := EncodeSS58(id, prefix)
		require.NoError(t, err)

		gotPrefix, gotID, err := DecodeSS58(addr)
		require.NoError(t, err, "prefix %d", prefix)
		assert.Equal(t, prefix, gotPrefix)
		assert.Equal(t, id, gotID)
	}

	generic, err := EncodeSS58(id, 42)
	require.NoError(t, err)
	assert.Equal(t, aliceGeneric, generic)
}

func Test_EncodeSS58_Errors(t *testing.T) {
	t.Parallel()

	_, err := EncodeSS58([]byte{1, 2, 3}, 2)
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = EncodeSS58(make([]byte, 32), 16384)
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func Test_Validate(t *testing.T) {
	t.Parallel()

	id, err := hex.DecodeString(aliceAccountID)
	require.NoError(t, err)
	tinkernet, err := EncodeSS58(id, 117)
	require.NoError(t, err)

	// Flip the last character to break the checksum.
	corrupted := []byte(aliceGeneric)
	if corrupted[len(corrupted)-1] == 'Y' {
		corrupted[len(corrupted)-1] = 'Z'
	} else {
		corrupted[len(corrupted)-1] = 'Y'
	}

	tests := []struct {
		name    string
		addr    string
		format  Format
		prefix  uint16
		wantErr error
	}{
		{name: "ss58 matching prefix", addr: tinkernet, format: FormatSS58, prefix: 117},
		{name: "ss58 generic", addr: aliceGeneric, format: FormatSS58, prefix: 42},
		{name: "ss58 wrong prefix", addr: aliceGeneric, format: FormatSS58, prefix: 117, wantErr: ErrPrefixMismatch},
		{name: "ss58 bad checksum", addr: string(corrupted), format: FormatSS58, prefix: 42, wantErr: ErrInvalidAddress},
		{name: "ss58 garbage", addr: "not-an-address", format: FormatSS58, prefix: 42, wantErr: ErrInvalidAddress},
		{name: "evm", addr: "0x0987654321098765432109876543210987654321", format: FormatEVM},
		{name: "evm rejects ss58", addr: aliceGeneric, format: FormatEVM, wantErr: ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.addr, tt.format, tt.prefix)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}

	require.EqualError(t, Validate(aliceGeneric, "cosmos", 0), `unsupported address format "cosmos"`)
}
