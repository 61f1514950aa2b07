package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Keeper is the bridge program: it owns every record it creates and is the
// only writer of their data.
type Keeper struct {
	programID solana.PublicKey
	deriver   pda.Deriver
	logger    log.Logger
}

// NewKeeper creates a new Keeper instance
func NewKeeper(programID solana.PublicKey, logger log.Logger) Keeper {
	return Keeper{
		programID: programID,
		deriver:   pda.NewDeriver(programID),
		logger:    logger.With(log.ModuleKey, "x/"+types.ModuleName),
	}
}

func (k Keeper) Logger() log.Logger {
	return k.logger
}

func (k Keeper) ProgramID() solana.PublicKey {
	return k.programID
}

// Deriver returns the address deriver bound to this program id.
func (k Keeper) Deriver() pda.Deriver {
	return k.deriver
}

// ProcessInstruction decodes data and runs the instruction against accounts.
// Any error leaves the host free to discard every change made to accounts.
func (k Keeper) ProcessInstruction(ctx context.Context, host types.Host, accounts []*types.AccountInfo, data []byte) error {
	msg, err := types.DecodeInstruction(data)
	if err != nil {
		k.logger.Error("rejected instruction data", "error", err.Error())
		return err
	}
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	k.logger.Debug("Instruction: " + msg.Kind().String())

	it := newAccountIter(accounts)
	switch m := msg.(type) {
	case *types.MsgInitializeBridge:
		err = k.InitializeBridge(ctx, host, it)
	case *types.MsgAddBlockchain:
		err = k.AddBlockchain(ctx, host, it, m)
	case *types.MsgAddValidator:
		err = k.AddValidator(ctx, host, it, m)
	case *types.MsgAddSignature:
		err = k.AddSignature(ctx, host, it, m)
	default:
		err = errorsmod.Wrapf(types.ErrInvalidInstruction, "unhandled instruction %T", msg)
	}
	if err != nil {
		k.logger.Info(msg.Kind().String()+" failed", "error", err.Error())
	}
	return err
}

// accountIter hands out the instruction accounts in their canonical order.
type accountIter struct {
	accounts []*types.AccountInfo
	pos      int
}

func newAccountIter(accounts []*types.AccountInfo) *accountIter {
	return &accountIter{accounts: accounts}
}

func (it *accountIter) next(name string) (*types.AccountInfo, error) {
	if it.pos >= len(it.accounts) {
		return nil, errorsmod.Wrapf(types.ErrNotEnoughAccountKeys, "missing %s account at position %d", name, it.pos)
	}
	acc := it.accounts[it.pos]
	it.pos++
	return acc, nil
}

// nextN reads len(names) accounts at once.
func (it *accountIter) nextN(names ...string) ([]*types.AccountInfo, error) {
	out := make([]*types.AccountInfo, 0, len(names))
	for _, name := range names {
		acc, err := it.next(name)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}
