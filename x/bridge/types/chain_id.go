package types

import (
	"bytes"
	"encoding/hex"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
)

// ChainIDLength is the fixed width of a chain identifier field.
const ChainIDLength = 4

// ChainID is a short chain name stored as left-justified, zero-padded UTF-8
// in a fixed 4 byte field, e.g. "ETH" -> 45 54 48 00.
type ChainID [ChainIDLength]byte

// ParseChainID encodes text into a ChainID. It fails with ErrCodec when text
// is longer than ChainIDLength bytes, is not valid UTF-8 or contains a NUL
// byte (which could not survive the padding round trip).
func ParseChainID(text string) (ChainID, error) {
	var id ChainID
	if len(text) > ChainIDLength {
		return id, errorsmod.Wrapf(ErrCodec, "chain id %q exceeds %d bytes", text, ChainIDLength)
	}
	if !utf8.ValidString(text) {
		return id, errorsmod.Wrapf(ErrCodec, "chain id %q is not valid utf-8", text)
	}
	if bytes.IndexByte([]byte(text), 0) >= 0 {
		return id, errorsmod.Wrapf(ErrCodec, "chain id %q contains a NUL byte", text)
	}
	copy(id[:], text)
	return id, nil
}

// MustParseChainID is ParseChainID for constants and tests.
func MustParseChainID(text string) ChainID {
	id, err := ParseChainID(text)
	if err != nil {
		panic(err)
	}
	return id
}

// Text decodes the identifier, trimming trailing zero bytes.
func (c ChainID) Text() (string, error) {
	trimmed := bytes.TrimRight(c[:], "\x00")
	if !utf8.Valid(trimmed) {
		return "", errorsmod.Wrapf(ErrCodec, "chain id %s is not valid utf-8", hex.EncodeToString(c[:]))
	}
	return string(trimmed), nil
}

// String returns the decoded text, or the hex bytes when they are not UTF-8.
func (c ChainID) String() string {
	text, err := c.Text()
	if err != nil {
		return "0x" + hex.EncodeToString(c[:])
	}
	return text
}

// IsZero reports whether no chain id is set.
func (c ChainID) IsZero() bool {
	return c == ChainID{}
}

func (c ChainID) MarshalText() ([]byte, error) {
	text, err := c.Text()
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (c *ChainID) UnmarshalText(text []byte) error {
	id, err := ParseChainID(string(text))
	if err != nil {
		return err
	}
	*c = id
	return nil
}
