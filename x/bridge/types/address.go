package types

import (
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const (
	AddressLength   = 32
	TxIDLength      = 64
	SignatureLength = 65
	PubKeyLength    = 32
)

// Address is a token, user or contract address on any chain, right-aligned
// into 32 bytes by the caller.
type Address [AddressLength]byte

// TxID identifies the lock transaction on the source chain.
type TxID [TxIDLength]byte

// OracleSignature is the raw validator signature material recorded for a lock.
type OracleSignature [SignatureLength]byte

// PubKey is a validator public key for one blockchain.
type PubKey [PubKeyLength]byte

func decodeFixedHex(input string, size int, what string) ([]byte, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	bz, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrCodec, "invalid %s hex %q", what, input)
	}
	if len(bz) != size {
		return nil, errorsmod.Wrapf(ErrCodec, "%s must be %d bytes, got %d", what, size, len(bz))
	}
	return bz, nil
}

// AddressFromHex parses a 0x-prefixed or bare hex string of exactly 32 bytes.
func AddressFromHex(input string) (Address, error) {
	var a Address
	bz, err := decodeFixedHex(input, AddressLength, "address")
	if err != nil {
		return a, err
	}
	copy(a[:], bz)
	return a, nil
}

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TxIDFromHex parses a 0x-prefixed or bare hex string of exactly 64 bytes.
func TxIDFromHex(input string) (TxID, error) {
	var id TxID
	bz, err := decodeFixedHex(input, TxIDLength, "tx id")
	if err != nil {
		return id, err
	}
	copy(id[:], bz)
	return id, nil
}

func (t TxID) String() string { return "0x" + hex.EncodeToString(t[:]) }

func (t TxID) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TxID) UnmarshalText(text []byte) error {
	parsed, err := TxIDFromHex(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// OracleSignatureFromHex parses exactly 65 bytes of hex.
func OracleSignatureFromHex(input string) (OracleSignature, error) {
	var sig OracleSignature
	bz, err := decodeFixedHex(input, SignatureLength, "signature")
	if err != nil {
		return sig, err
	}
	copy(sig[:], bz)
	return sig, nil
}

func (s OracleSignature) String() string { return "0x" + hex.EncodeToString(s[:]) }

func (s OracleSignature) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *OracleSignature) UnmarshalText(text []byte) error {
	parsed, err := OracleSignatureFromHex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PubKeyFromHex parses exactly 32 bytes of hex.
func PubKeyFromHex(input string) (PubKey, error) {
	var pk PubKey
	bz, err := decodeFixedHex(input, PubKeyLength, "public key")
	if err != nil {
		return pk, err
	}
	copy(pk[:], bz)
	return pk, nil
}

func (p PubKey) String() string { return "0x" + hex.EncodeToString(p[:]) }

func (p PubKey) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PubKey) UnmarshalText(text []byte) error {
	parsed, err := PubKeyFromHex(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
