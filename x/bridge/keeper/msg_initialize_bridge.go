package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// InitializeBridge writes a new Bridge into a pre-allocated, program-owned
// account. The owner must co-sign.
func (k Keeper) InitializeBridge(ctx context.Context, host types.Host, it *accountIter) error {
	accs, err := it.nextN("bridge", "owner")
	if err != nil {
		return err
	}
	bridgeAcc, ownerAcc := accs[0], accs[1]

	if err := requireSigner(ownerAcc, "bridge owner"); err != nil {
		return err
	}
	if bridgeAcc.DataIsEmpty() || !bridgeAcc.Owner.Equals(k.programID) {
		return errorsmod.Wrapf(types.ErrInvalidAccountOwner,
			"bridge %s must be allocated and owned by the program", bridgeAcc.Key)
	}

	var existing types.Bridge
	presence, err := types.Load(bridgeAcc.Data, &existing)
	if err != nil {
		return err
	}
	if presence == types.Initialized {
		k.logger.Info("bridge account already initialized", "bridge", bridgeAcc.Key.String())
		return errorsmod.Wrapf(types.ErrAlreadyInitialized, "bridge %s", bridgeAcc.Key)
	}

	if !host.Rent().IsExempt(bridgeAcc.Lamports, uint64(len(bridgeAcc.Data))) {
		return errorsmod.Wrapf(types.ErrNotRentExempt, "bridge %s holds %d lamports", bridgeAcc.Key, bridgeAcc.Lamports)
	}

	bridge := types.NewBridge(ownerAcc.Key)
	return k.write(bridgeAcc, &bridge)
}
