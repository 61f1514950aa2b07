package types

import (
	"encoding/hex"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

const (
	ModuleName = "bridge"

	// CurrentVersion is stamped on every record created by the program. A record
	// whose version differs is treated as absent.
	CurrentVersion uint8 = 1

	// MaxSeedLength is the longest seed string accepted for a derived address.
	MaxSeedLength = 32

	// lockTxIDPrefixBytes is how many leading tx id bytes end up (hex encoded) in a lock seed.
	lockTxIDPrefixBytes = 10
)

// Seed prefixes of the derived address grammar.
const (
	BlockchainSeedPrefix = "blockchain"
	ValidatorSeedPrefix  = "validator"
	LockSeedPrefix       = "lock"
	RevertSeedPrefix     = "revert"
	SignatureSeedPrefix  = "signature"
	UserSeedPrefix       = "user"
	SentSeedPrefix       = "sent"
	ReceivedSeedPrefix   = "received"
)

// LegKind selects the sent or received side of a user transfer leg.
type LegKind string

const (
	LegSent     LegKind = SentSeedPrefix
	LegReceived LegKind = ReceivedSeedPrefix
)

func kindPrefix(revert bool) string {
	if revert {
		return RevertSeedPrefix
	}
	return LockSeedPrefix
}

// BlockchainSeed returns "blockchain_{chain}".
func BlockchainSeed(chain ChainID) (string, error) {
	name, err := chain.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", BlockchainSeedPrefix, name), nil
}

// ValidatorSeed returns "validator_{chain}_{index}".
func ValidatorSeed(chain ChainID, index uint64) (string, error) {
	name, err := chain.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%d", ValidatorSeedPrefix, name, index), nil
}

// LockSeed returns "{lock|revert}_{chain}_{txid prefix}". The tx id is
// represented by the hex of its first ten bytes, so the seed stays within
// MaxSeedLength for every chain id.
func LockSeed(source ChainID, txID TxID, revert bool) (string, error) {
	name, err := source.Text()
	if err != nil {
		return "", err
	}
	prefix := hex.EncodeToString(txID[:lockTxIDPrefixBytes])
	return fmt.Sprintf("%s_%s_%s", kindPrefix(revert), name, prefix), nil
}

// SignatureSeed returns "signature_{lock|revert}_{chain}_{lock_id}_{validator_index}".
func SignatureSeed(source ChainID, lockID, validatorIndex uint64, revert bool) (string, error) {
	name, err := source.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s_%d_%d", SignatureSeedPrefix, kindPrefix(revert), name, lockID, validatorIndex), nil
}

// UserSeed returns "user_{chain}".
func UserSeed(chain ChainID) (string, error) {
	name, err := chain.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", UserSeedPrefix, name), nil
}

// LegSeed returns "sent_{chain}_{index}" or "received_{chain}_{index}".
func LegSeed(kind LegKind, chain ChainID, index uint64) (string, error) {
	if kind != LegSent && kind != LegReceived {
		return "", errorsmod.Wrapf(ErrInvalidArgument, "unknown leg kind %q", kind)
	}
	name, err := chain.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%d", kind, name, index), nil
}
