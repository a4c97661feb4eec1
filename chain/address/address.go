// Package address validates recipient addresses for the chains a multisig can transfer to.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

// Format identifies how a chain encodes account addresses.
type Format string

const (
	FormatSS58 Format = "ss58"
	FormatEVM  Format = "evm"
)

const (
	accountIDLen    = 32
	checksumLen     = 2
	maxSimplePrefix = 63
	maxPrefix       = 16383
)

var ss58Pre = []byte("SS58PRE")

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrPrefixMismatch = errors.New("address prefix mismatch")
)

// Validate checks that addr is a well formed address in the given format. For SS58 addresses the
// network prefix must equal prefix.
func Validate(addr string, format Format, prefix uint16) error {
	switch format {
	case FormatEVM:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: %q is not a hex account address", ErrInvalidAddress, addr)
		}

		return nil
	case FormatSS58:
		got, _, err := DecodeSS58(addr)
		if err != nil {
			return err
		}
		if got != prefix {
			return fmt.Errorf("%w: want %d, got %d", ErrPrefixMismatch, prefix, got)
		}

		return nil
	default:
		return fmt.Errorf("unsupported address format %q", format)
	}
}

// DecodeSS58 decodes an SS58 encoded account address into its network prefix and 32 byte account id.
func DecodeSS58(addr string) (uint16, []byte, error) {
	data := base58.Decode(addr)
	if len(data) < 1+accountIDLen+checksumLen {
		return 0, nil, fmt.Errorf("%w: %q is not an ss58 account address", ErrInvalidAddress, addr)
	}

	var (
		prefix    uint16
		prefixLen int
	)
	if data[0]&0x40 == 0 {
		prefix, prefixLen = uint16(data[0]), 1
	} else {
		if len(data) < 2 {
			return 0, nil, fmt.Errorf("%w: truncated prefix", ErrInvalidAddress)
		}
		lower := (data[0]&0x3f)<<2 | data[1]>>6
		upper := data[1] & 0x3f
		prefix, prefixLen = uint16(lower)|uint16(upper)<<8, 2
	}

	if len(data) != prefixLen+accountIDLen+checksumLen {
		return 0, nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidAddress, len(data))
	}

	body := data[:prefixLen+accountIDLen]
	if !bytes.Equal(checksum(body), data[prefixLen+accountIDLen:]) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return prefix, bytes.Clone(data[prefixLen : prefixLen+accountIDLen]), nil
}

// EncodeSS58 encodes a 32 byte account id with the given network prefix.
func EncodeSS58(accountID []byte, prefix uint16) (string, error) {
	if len(accountID) != accountIDLen {
		return "", fmt.Errorf("%w: account id must be %d bytes, got %d", ErrInvalidAddress, accountIDLen, len(accountID))
	}
	if prefix > maxPrefix {
		return "", fmt.Errorf("%w: prefix %d out of range", ErrInvalidAddress, prefix)
	}

	var body []byte
	if prefix <= maxSimplePrefix {
		body = append(body, byte(prefix))
	} else {
		body = append(body,
			byte((prefix&0xfc)>>2)|0x40,
			byte(prefix>>8)|byte(prefix&0x03)<<6,
		)
	}
	body = append(body, accountID...)
	body = append(body, checksum(body)...)

	return base58.Encode(body), nil
}

func checksum(body []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Pre)
	h.Write(body)

	return h.Sum(nil)[:checksumLen]
}
