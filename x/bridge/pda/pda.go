// Package pda derives the storage address of every bridge record and guards
// the authorities that sign for them.
//
// Two derivations are used:
//
//   - an authority is a program derived address FindProgramAddress([seed], program):
//     it lies off the ed25519 curve so nobody holds its key, and the bump found
//     during the search lets the program sign for it;
//   - a storage address is CreateWithSeed(authority, seedString, program):
//     sha256(authority || seedString || program).
//
// The bridge authority is derived from the bridge account key, a user
// authority from the user's 32 byte address.
package pda

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Authority is a program derived signer together with the seeds needed to
// authorize writes under it.
type Authority struct {
	Key  solana.PublicKey
	Seed []byte
	Bump uint8
}

// SignerSeeds returns [seed, bump], the seeds passed to the host allocation primitive.
func (a Authority) SignerSeeds() [][]byte {
	return [][]byte{a.Seed, {a.Bump}}
}

// DeriveAuthority finds the program derived authority for seed.
func DeriveAuthority(seed []byte, programID solana.PublicKey) (Authority, error) {
	key, bump, err := solana.FindProgramAddress([][]byte{seed}, programID)
	if err != nil {
		return Authority{}, errorsmod.Wrap(types.ErrInvalidSeeds, err.Error())
	}
	return Authority{Key: key, Seed: append([]byte(nil), seed...), Bump: bump}, nil
}

// ValidateAuthority re-derives the authority for seed and checks that the
// caller supplied that exact key.
func ValidateAuthority(seed []byte, programID, claimed solana.PublicKey) (Authority, error) {
	authority, err := DeriveAuthority(seed, programID)
	if err != nil {
		return Authority{}, err
	}
	if !authority.Key.Equals(claimed) {
		return Authority{}, errorsmod.Wrapf(types.ErrAddressMismatch,
			"authority %s, expected %s", claimed, authority.Key)
	}
	return authority, nil
}

// DeriveStorageAddress computes the address of the record named seed under authority.
func DeriveStorageAddress(authority solana.PublicKey, seed string, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seed) > types.MaxSeedLength {
		return solana.PublicKey{}, errorsmod.Wrapf(types.ErrInvalidSeeds,
			"seed %q is %d bytes, max %d", seed, len(seed), types.MaxSeedLength)
	}
	addr, err := solana.CreateWithSeed(authority, seed, programID)
	if err != nil {
		return solana.PublicKey{}, errorsmod.Wrap(types.ErrInvalidSeeds, err.Error())
	}
	return addr, nil
}

// VerifyStorageAddress re-derives the address for seed and compares it with
// the caller's claim. It returns the seed so it can be handed to allocation.
func VerifyStorageAddress(authority solana.PublicKey, seed string, programID, claimed solana.PublicKey) (string, error) {
	expected, err := DeriveStorageAddress(authority, seed, programID)
	if err != nil {
		return "", err
	}
	if !expected.Equals(claimed) {
		return "", errorsmod.Wrapf(types.ErrAddressMismatch,
			"account %s for seed %q, expected %s", claimed, seed, expected)
	}
	return seed, nil
}
