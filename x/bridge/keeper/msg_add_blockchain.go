package keeper

import (
	"context"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// AddBlockchain registers msg.BlockchainID under the bridge authority.
func (k Keeper) AddBlockchain(ctx context.Context, host types.Host, it *accountIter, msg *types.MsgAddBlockchain) error {
	accs, err := it.nextN("bridge", "blockchain", "payer", "bridge authority")
	if err != nil {
		return err
	}
	bridgeAcc, blockchainAcc, payerAcc, authorityAcc := accs[0], accs[1], accs[2], accs[3]

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

	expected, seed, err := k.deriver.Blockchain(authority.Key, chain)
	if err != nil {
		return err
	}
	if err := expectAddress(blockchainAcc, expected, seed); err != nil {
		return err
	}
	if err := requireEmpty(blockchainAcc, "blockchain"); err != nil {
		k.logger.Info("blockchain already registered", "chain", chain.String())
		return err
	}

	if err := k.allocate(ctx, host, payerAcc, blockchainAcc, authorityAcc, authority, seed, types.BlockchainLen); err != nil {
		return err
	}

	blockchain := types.NewBlockchain(bridgeAcc.Key, chain, msg.ContractAddress)
	return k.write(blockchainAcc, &blockchain)
}
