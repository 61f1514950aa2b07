package host

import (
	"bytes"
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// overlay is the transaction-local view of accounts.
type overlay struct {
	db      AccountsDB
	loaded  map[solana.PublicKey]Account
	current map[solana.PublicKey]Account
	order   []solana.PublicKey
}

func newOverlay(db AccountsDB) *overlay {
	return &overlay{
		db:      db,
		loaded:  make(map[solana.PublicKey]Account),
		current: make(map[solana.PublicKey]Account),
	}
}

func (o *overlay) get(ctx context.Context, key solana.PublicKey) (Account, error) {
	if acc, ok := o.current[key]; ok {
		return acc.clone(), nil
	}
	acc, found, err := o.db.GetAccount(ctx, key)
	if err != nil {
		return Account{}, err
	}
	if !found {
		acc = emptyAccount(key)
	}
	acc.Key = key
	o.loaded[key] = acc.clone()
	o.current[key] = acc
	o.order = append(o.order, key)
	return acc.clone(), nil
}

func (o *overlay) set(acc Account) {
	o.current[acc.Key] = acc
}

// dirty returns the accounts that differ from their committed state, in
// first-touch order.
func (o *overlay) dirty() []Account {
	var out []Account
	for _, key := range o.order {
		if cur := o.current[key]; !cur.equal(o.loaded[key]) {
			out = append(out, cur.clone())
		}
	}
	return out
}

// invocation is the types.Host handed to one instruction. Duplicate account
// keys share a single view.
type invocation struct {
	rt        *Runtime
	state     *overlay
	programID solana.PublicKey
	accounts  []*types.AccountInfo
	views     map[solana.PublicKey]*types.AccountInfo
	before    map[solana.PublicKey]Account
	delegated map[solana.PublicKey]bool
}

var _ types.Host = (*invocation)(nil)

func newInvocation(
	ctx context.Context,
	rt *Runtime,
	state *overlay,
	programID solana.PublicKey,
	signers map[solana.PublicKey]bool,
	metas []*solana.AccountMeta,
) (*invocation, error) {
	inv := &invocation{
		rt:        rt,
		state:     state,
		programID: programID,
		accounts:  make([]*types.AccountInfo, 0, len(metas)),
		views:     make(map[solana.PublicKey]*types.AccountInfo, len(metas)),
		before:    make(map[solana.PublicKey]Account, len(metas)),
		delegated: make(map[solana.PublicKey]bool),
	}
	for _, meta := range metas {
		if meta.IsSigner && !signers[meta.PublicKey] {
			return nil, errorsmod.Wrapf(types.ErrMissingSignature, "account %s", meta.PublicKey)
		}
		view, ok := inv.views[meta.PublicKey]
		if !ok {
			acc, err := state.get(ctx, meta.PublicKey)
			if err != nil {
				return nil, err
			}
			info := acc.Info()
			view = &info
			inv.views[meta.PublicKey] = view
			inv.before[meta.PublicKey] = acc
		}
		view.IsSigner = view.IsSigner || meta.IsSigner
		view.IsWritable = view.IsWritable || meta.IsWritable
		inv.accounts = append(inv.accounts, view)
	}
	return inv, nil
}

func (inv *invocation) Rent() types.Rent {
	return inv.rt.rent
}

// CreateAccountWithSeed allocates size bytes at newAccount on behalf of the
// program. base must be the program derived address of signerSeeds.
func (inv *invocation) CreateAccountWithSeed(
	_ context.Context,
	payer, newAccount, base *types.AccountInfo,
	seed string,
	size uint64,
	signerSeeds [][]byte,
) error {
	for _, acc := range []*types.AccountInfo{payer, newAccount, base} {
		if inv.views[acc.Key] != acc {
			return errorsmod.Wrapf(types.ErrAccountNotFound, "account %s was not passed to the instruction", acc.Key)
		}
	}

	expected, err := solana.CreateWithSeed(base.Key, seed, inv.programID)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidSeeds, err.Error())
	}
	if !expected.Equals(newAccount.Key) {
		return errorsmod.Wrapf(types.ErrAddressMismatch, "account %s for seed %q, expected %s", newAccount.Key, seed, expected)
	}

	if !base.IsSigner {
		signer, err := solana.CreateProgramAddress(signerSeeds, inv.programID)
		if err != nil || !signer.Equals(base.Key) {
			return errorsmod.Wrapf(types.ErrMissingSignature, "base %s is not signed for by the program", base.Key)
		}
	}
	if !payer.IsSigner {
		return errorsmod.Wrapf(types.ErrMissingSignature, "payer %s", payer.Key)
	}
	if !payer.IsWritable || !newAccount.IsWritable {
		return errorsmod.Wrap(types.ErrAccountNotWritable, "payer and new account must be writable")
	}

	lamports := inv.rt.rent.MinimumBalance(size)
	if err := debit(payer, lamports); err != nil {
		return err
	}
	if err := assignNew(newAccount, lamports, size, inv.programID); err != nil {
		return err
	}
	inv.delegated[payer.Key] = true
	inv.delegated[newAccount.Key] = true

	inv.rt.logger.Debug().
		Str("account", newAccount.Key.String()).
		Str("seed", seed).
		Uint64("size", size).
		Uint64("lamports", lamports).
		Msg("account allocated")
	return nil
}

// verify enforces the ownership rules on every account the instruction saw.
func (inv *invocation) verify() error {
	var before, after uint64
	for key, view := range inv.views {
		pre := inv.before[key]
		before += pre.Lamports
		after += view.Lamports

		unchanged := view.Lamports == pre.Lamports && view.Owner.Equals(pre.Owner) && bytes.Equal(view.Data, pre.Data)
		if !view.IsWritable {
			if !unchanged {
				return errorsmod.Wrapf(types.ErrReadonlyDataModified, "account %s", key)
			}
			continue
		}
		if inv.delegated[key] || pre.Owner.Equals(inv.programID) {
			resizable := inv.delegated[key] || inv.programID.Equals(solana.SystemProgramID)
			if !resizable && len(view.Data) != len(pre.Data) {
				return errorsmod.Wrapf(types.ErrInvalidAccountData, "account %s was resized", key)
			}
			continue
		}
		if !view.Owner.Equals(pre.Owner) || !bytes.Equal(view.Data, pre.Data) || view.Lamports < pre.Lamports {
			return errorsmod.Wrapf(types.ErrInvalidAccountOwner, "account %s is owned by %s", key, pre.Owner)
		}
	}
	if before != after {
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "unbalanced lamports: %d before, %d after", before, after)
	}
	return nil
}

func (inv *invocation) apply() {
	for key, view := range inv.views {
		inv.state.set(Account{
			Key:      key,
			Lamports: view.Lamports,
			Owner:    view.Owner,
			Data:     bytes.Clone(view.Data),
		})
	}
}
