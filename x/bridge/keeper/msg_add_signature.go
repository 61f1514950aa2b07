package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// AddSignature records one validator attestation for the lock identified by
// (source, tx id, revert). The first submission creates the lock, the user
// records of both parties and one transfer leg per side; later submissions
// must repeat the stored lock terms exactly.
func (k Keeper) AddSignature(ctx context.Context, host types.Host, it *accountIter, msg *types.MsgAddSignature) error {
	accs, err := it.nextN(
		"bridge", "blockchain", "validator", "lock", "signature", "bridge authority", "payer",
		"sender authority", "sender user", "sent leg",
		"recipient authority", "recipient user", "received leg",
	)
	if err != nil {
		return err
	}
	var (
		bridgeAcc, blockchainAcc, validatorAcc = accs[0], accs[1], accs[2]
		lockAcc, signatureAcc, authorityAcc    = accs[3], accs[4], accs[5]
		payerAcc                               = accs[6]
		sender                                 = legAccounts{authority: accs[7], user: accs[8], leg: accs[9]}
		recipient                              = legAccounts{authority: accs[10], user: accs[11], leg: accs[12]}
	)

	if err := requireSigner(payerAcc, "payer"); err != nil {
		return err
	}
	terms, err := msg.Terms()
	if err != nil {
		return err
	}

	// Step 1: bridge, source blockchain and validator must exist
	_, authority, err := k.loadBridge(bridgeAcc, authorityAcc)
	if err != nil {
		return err
	}
	expected, seed, err := k.deriver.Blockchain(authority.Key, terms.Source)
	if err != nil {
		return err
	}
	if err := expectAddress(blockchainAcc, expected, seed); err != nil {
		return err
	}
	var blockchain types.Blockchain
	if err := k.mustLoad(blockchainAcc, &blockchain, "blockchain"); err != nil {
		return err
	}

	var validator types.Validator
	if err := k.mustLoad(validatorAcc, &validator, "validator"); err != nil {
		return err
	}
	if validator.BlockchainID != terms.Source {
		k.logger.Info("validator registered for another chain",
			"validator_chain", validator.BlockchainID.String(), "source", terms.Source.String())
		return errorsmod.Wrapf(types.ErrInvalidArgument,
			"validator %s attests %s, not %s", validatorAcc.Key, validator.BlockchainID, terms.Source)
	}
	expected, seed, err = k.deriver.Validator(authority.Key, validator.BlockchainID, validator.Index)
	if err != nil {
		return err
	}
	if err := expectAddress(validatorAcc, expected, seed); err != nil {
		return err
	}
	if !validator.Owner.Equals(payerAcc.Key) {
		k.logger.Info("payer is not the validator owner", "payer", payerAcc.Key.String())
		return errorsmod.Wrapf(types.ErrUnauthorized,
			"validator %s is owned by %s", validatorAcc.Key, validator.Owner)
	}

	// Step 2: resolve the lock, creating it on first submission
	expected, seed, err = k.deriver.Lock(authority.Key, terms.Source, terms.TxID, msg.Revert)
	if err != nil {
		return err
	}
	if err := expectAddress(lockAcc, expected, seed); err != nil {
		return err
	}

	var lock types.Lock
	if lockAcc.DataIsEmpty() {
		if err := k.allocate(ctx, host, payerAcc, lockAcc, authorityAcc, authority, seed, types.LockLen); err != nil {
			return err
		}
		lock = types.NewLock(blockchain.Locks, bridgeAcc.Key, terms)
		blockchain.Locks++
		if err := k.write(blockchainAcc, &blockchain); err != nil {
			return err
		}

		lockTx := types.NewLockTx(terms.TxID, terms.Source, terms.LockID, lockAcc.Key, msg.Revert)
		if err := k.recordLeg(ctx, host, payerAcc, sender, types.LegSent, terms.Source, terms.Sender, lockTx); err != nil {
			return err
		}
		if err := k.recordLeg(ctx, host, payerAcc, recipient, types.LegReceived, terms.Destination, terms.Recipient, lockTx); err != nil {
			return err
		}
	} else {
		if err := k.mustLoad(lockAcc, &lock, "lock"); err != nil {
			return err
		}
		if field := lock.MismatchedField(terms); field != "" {
			k.logger.Info("lock terms mismatch", "lock", lockAcc.Key.String(), "field", field)
			return errorsmod.Wrapf(types.ErrFieldMismatch, "%s differs from lock %s", field, lockAcc.Key)
		}
	}

	// Step 3: one signature slot per validator per lock
	expected, seed, err = k.deriver.Signature(authority.Key, terms.Source, terms.LockID, validator.Index, msg.Revert)
	if err != nil {
		return err
	}
	if err := expectAddress(signatureAcc, expected, seed); err != nil {
		return err
	}
	if err := requireEmpty(signatureAcc, "signature"); err != nil {
		k.logger.Info("validator already signed", "validator_index", validator.Index, "lock_id", terms.LockID)
		return err
	}
	if err := k.allocate(ctx, host, payerAcc, signatureAcc, authorityAcc, authority, seed, types.SignatureLen); err != nil {
		return err
	}
	signature := types.NewSignature(terms.Source, terms.LockID, bridgeAcc.Key, msg.Signature, validatorAcc.Key, validator.Index)
	if err := k.write(signatureAcc, &signature); err != nil {
		return err
	}

	lock.Signatures++
	return k.write(lockAcc, &lock)
}

// legAccounts are the three accounts describing one side of a transfer.
type legAccounts struct {
	authority *types.AccountInfo
	user      *types.AccountInfo
	leg       *types.AccountInfo
}

// recordLeg gets or creates the User of (chain, address) and writes lockTx
// at the leg slot given by its kind counter, then advances that counter.
func (k Keeper) recordLeg(
	ctx context.Context,
	host types.Host,
	payerAcc *types.AccountInfo,
	accs legAccounts,
	kind types.LegKind,
	chain types.ChainID,
	address types.Address,
	lockTx types.LockTx,
) error {
	authority, err := pda.ValidateAuthority(address[:], k.programID, accs.authority.Key)
	if err != nil {
		return err
	}

	expected, seed, err := k.deriver.User(authority.Key, chain)
	if err != nil {
		return err
	}
	if err := expectAddress(accs.user, expected, seed); err != nil {
		return err
	}
	user, _, err := k.getOrCreateUser(ctx, host, payerAcc, accs, authority, seed, chain, address)
	if err != nil {
		return err
	}

	index := user.Counter(kind)
	expected, seed, err = k.deriver.Leg(authority.Key, kind, chain, index)
	if err != nil {
		return err
	}
	if err := expectAddress(accs.leg, expected, seed); err != nil {
		return err
	}
	if err := requireEmpty(accs.leg, string(kind)+" leg"); err != nil {
		return err
	}
	if err := k.allocate(ctx, host, payerAcc, accs.leg, accs.authority, authority, seed, types.LockTxLen); err != nil {
		return err
	}
	if err := k.write(accs.leg, &lockTx); err != nil {
		return err
	}

	user.Advance(kind)
	return k.write(accs.user, &user)
}

// getOrCreateUser returns the User stored at accs.user, allocating a fresh
// one when the address is still absent.
func (k Keeper) getOrCreateUser(
	ctx context.Context,
	host types.Host,
	payerAcc *types.AccountInfo,
	accs legAccounts,
	authority pda.Authority,
	seed string,
	chain types.ChainID,
	address types.Address,
) (types.User, bool, error) {
	var user types.User
	presence, err := k.load(accs.user, &user)
	if err != nil {
		return user, false, err
	}
	switch presence {
	case types.Initialized:
		return user, false, nil
	case types.Allocated:
		return user, false, errorsmod.Wrapf(types.ErrUninitializedAccount, "user %s", accs.user.Key)
	}

	if err := k.allocate(ctx, host, payerAcc, accs.user, accs.authority, authority, seed, types.UserLen); err != nil {
		return user, false, err
	}
	return types.NewUser(chain, address), true, nil
}
