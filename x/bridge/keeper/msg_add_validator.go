package keeper

import (
	"context"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// AddValidator registers the next validator of a chain. The validator record
// lands at the index read from Blockchain.validators and the counter is
// advanced in the same instruction.
func (k Keeper) AddValidator(ctx context.Context, host types.Host, it *accountIter, msg *types.MsgAddValidator) error {
	accs, err := it.nextN("bridge", "blockchain", "validator", "payer", "bridge authority")
	if err != nil {
		return err
	}
	bridgeAcc, blockchainAcc, validatorAcc, payerAcc, authorityAcc := accs[0], accs[1], accs[2], accs[3], accs[4]

	chain, err := types.ParseChainID(msg.BlockchainID)
	if err != nil {
		return err
	}
	if err := requireSigner(payerAcc, "payer"); err != nil {
		return err
	}

	_, authority, err := k.loadBridge(bridgeAcc, authorityAcc)
	if err != nil {
		return err
	}

	// Step 1: the blockchain must be registered
	expected, seed, err := k.deriver.Blockchain(authority.Key, chain)
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

	// Step 2: the validator slot is the current counter value
	index := blockchain.Validators
	expected, seed, err = k.deriver.Validator(authority.Key, chain, index)
	if err != nil {
		return err
	}
	if err := expectAddress(validatorAcc, expected, seed); err != nil {
		return err
	}
	if err := requireEmpty(validatorAcc, "validator"); err != nil {
		return err
	}
	if err := k.allocate(ctx, host, payerAcc, validatorAcc, authorityAcc, authority, seed, types.ValidatorLen); err != nil {
		return err
	}

	// Step 3: write both records
	validator := types.NewValidator(chain, index, msg.PubKey, payerAcc.Key)
	if err := k.write(validatorAcc, &validator); err != nil {
		return err
	}
	blockchain.Validators++
	return k.write(blockchainAcc, &blockchain)
}
