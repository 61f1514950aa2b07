package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// load decodes a program-owned record. Accounts with no data are Absent
// whatever their owner.
func (k Keeper) load(acc *types.AccountInfo, r types.Record) (types.Presence, error) {
	if acc.DataIsEmpty() {
		return types.Absent, nil
	}
	if !acc.Owner.Equals(k.programID) {
		return types.Allocated, errorsmod.Wrapf(types.ErrInvalidAccountOwner,
			"account %s is owned by %s", acc.Key, acc.Owner)
	}
	return types.Load(acc.Data, r)
}

// mustLoad loads a record that has to be initialized already.
func (k Keeper) mustLoad(acc *types.AccountInfo, r types.Record, what string) error {
	presence, err := k.load(acc, r)
	if err != nil {
		return err
	}
	if presence != types.Initialized {
		k.logger.Info(what+" account is not initialized", "account", acc.Key.String(), "presence", presence.String())
		return errorsmod.Wrapf(types.ErrUninitializedAccount, "%s %s", what, acc.Key)
	}
	return nil
}

// write serializes r into acc.
func (k Keeper) write(acc *types.AccountInfo, r types.Record) error {
	if !acc.IsWritable {
		return errorsmod.Wrapf(types.ErrAccountNotWritable, "account %s", acc.Key)
	}
	if !acc.Owner.Equals(k.programID) {
		return errorsmod.Wrapf(types.ErrInvalidAccountOwner, "account %s is owned by %s", acc.Key, acc.Owner)
	}
	return types.WriteRecord(acc.Data, r)
}

// requireEmpty fails when storage already exists at acc.
func requireEmpty(acc *types.AccountInfo, what string) error {
	if !acc.DataIsEmpty() {
		return errorsmod.Wrapf(types.ErrAlreadyInitialized, "%s %s", what, acc.Key)
	}
	return nil
}

// expectAddress is the admission check run before touching a derived record.
func expectAddress(acc *types.AccountInfo, expected solana.PublicKey, seed string) error {
	if !acc.Key.Equals(expected) {
		return errorsmod.Wrapf(types.ErrAddressMismatch,
			"account %s for seed %q, expected %s", acc.Key, seed, expected)
	}
	return nil
}

// allocate creates record storage at acc, signed for by authority.
func (k Keeper) allocate(
	ctx context.Context,
	host types.Host,
	payer, acc, authorityAcc *types.AccountInfo,
	authority pda.Authority,
	seed string,
	size int,
) error {
	return host.CreateAccountWithSeed(ctx, payer, acc, authorityAcc, seed, uint64(size), authority.SignerSeeds())
}

// loadBridge returns the initialized bridge record and its authority.
func (k Keeper) loadBridge(bridgeAcc, authorityAcc *types.AccountInfo) (types.Bridge, pda.Authority, error) {
	var bridge types.Bridge
	if err := k.mustLoad(bridgeAcc, &bridge, "bridge"); err != nil {
		return bridge, pda.Authority{}, err
	}
	authority, err := pda.ValidateAuthority(bridgeAcc.Key[:], k.programID, authorityAcc.Key)
	if err != nil {
		return bridge, pda.Authority{}, err
	}
	return bridge, authority, nil
}

func requireSigner(acc *types.AccountInfo, what string) error {
	if !acc.IsSigner {
		return errorsmod.Wrapf(types.ErrMissingSignature, "%s %s", what, acc.Key)
	}
	return nil
}
