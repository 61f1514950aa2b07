package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Entry is a record together with the address it is stored at.
type Entry[T any] struct {
	Address solana.PublicKey `json:"address" yaml:"address"`
	Record  T                `json:"record" yaml:"record"`
}

// HistoryItem is one transfer leg of a user resolved to its lock.
type HistoryItem struct {
	Index uint64              `json:"index" yaml:"index"`
	Leg   Entry[types.LockTx] `json:"leg" yaml:"leg"`
	Lock  *Entry[types.Lock]  `json:"lock,omitempty" yaml:"lock,omitempty"`
}

// Querier answers read-only lookups by semantic key. Every lookup is a
// derivation followed by point reads; nothing is scanned.
type Querier struct {
	reader  types.AccountReader
	deriver pda.Deriver
}

func NewQuerier(programID solana.PublicKey, reader types.AccountReader) Querier {
	return Querier{reader: reader, deriver: pda.NewDeriver(programID)}
}

func fetch[T any, P interface {
	*T
	types.Record
}](ctx context.Context, q Querier, addr solana.PublicKey) (Entry[T], bool, error) {
	entry := Entry[T]{Address: addr}
	acc, found, err := q.reader.GetAccount(ctx, addr)
	if err != nil || !found {
		return entry, false, err
	}
	if !acc.Owner.Equals(q.deriver.ProgramID) {
		return entry, false, errorsmod.Wrapf(types.ErrInvalidAccountOwner, "account %s is owned by %s", addr, acc.Owner)
	}
	presence, err := types.Load(acc.Data, P(&entry.Record))
	if err != nil {
		return entry, false, err
	}
	return entry, presence == types.Initialized, nil
}

func (q Querier) bridgeAuthority(bridge solana.PublicKey) (solana.PublicKey, error) {
	authority, err := q.deriver.BridgeAuthority(bridge)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return authority.Key, nil
}

func (q Querier) Bridge(ctx context.Context, bridge solana.PublicKey) (Entry[types.Bridge], bool, error) {
	return fetch[types.Bridge](ctx, q, bridge)
}

func (q Querier) Blockchain(ctx context.Context, bridge solana.PublicKey, chain types.ChainID) (Entry[types.Blockchain], bool, error) {
	authority, err := q.bridgeAuthority(bridge)
	if err != nil {
		return Entry[types.Blockchain]{}, false, err
	}
	addr, _, err := q.deriver.Blockchain(authority, chain)
	if err != nil {
		return Entry[types.Blockchain]{}, false, err
	}
	return fetch[types.Blockchain](ctx, q, addr)
}

func (q Querier) Validator(ctx context.Context, bridge solana.PublicKey, chain types.ChainID, index uint64) (Entry[types.Validator], bool, error) {
	authority, err := q.bridgeAuthority(bridge)
	if err != nil {
		return Entry[types.Validator]{}, false, err
	}
	addr, _, err := q.deriver.Validator(authority, chain, index)
	if err != nil {
		return Entry[types.Validator]{}, false, err
	}
	return fetch[types.Validator](ctx, q, addr)
}

// Validators lists validators 0..blockchain.validators-1 of chain. The bool
// is false when the chain is not registered.
func (q Querier) Validators(ctx context.Context, bridge solana.PublicKey, chain types.ChainID) ([]Entry[types.Validator], bool, error) {
	blockchain, found, err := q.Blockchain(ctx, bridge, chain)
	if err != nil || !found {
		return nil, found, err
	}
	out := make([]Entry[types.Validator], 0, blockchain.Record.Validators)
	for i := uint64(0); i < blockchain.Record.Validators; i++ {
		v, found, err := q.Validator(ctx, bridge, chain, i)
		if err != nil {
			return nil, true, err
		}
		if found {
			out = append(out, v)
		}
	}
	return out, true, nil
}

func (q Querier) Lock(ctx context.Context, bridge solana.PublicKey, source types.ChainID, txID types.TxID, revert bool) (Entry[types.Lock], bool, error) {
	authority, err := q.bridgeAuthority(bridge)
	if err != nil {
		return Entry[types.Lock]{}, false, err
	}
	addr, _, err := q.deriver.Lock(authority, source, txID, revert)
	if err != nil {
		return Entry[types.Lock]{}, false, err
	}
	return fetch[types.Lock](ctx, q, addr)
}

// Signatures probes the signature slot of every registered validator of the
// lock's source chain.
func (q Querier) Signatures(ctx context.Context, bridge solana.PublicKey, source types.ChainID, txID types.TxID, revert bool) ([]Entry[types.Signature], bool, error) {
	lock, found, err := q.Lock(ctx, bridge, source, txID, revert)
	if err != nil || !found {
		return nil, found, err
	}
	blockchain, found, err := q.Blockchain(ctx, bridge, source)
	if err != nil || !found {
		return nil, true, err
	}
	authority, err := q.bridgeAuthority(bridge)
	if err != nil {
		return nil, true, err
	}

	out := make([]Entry[types.Signature], 0, lock.Record.Signatures)
	for i := uint64(0); i < blockchain.Record.Validators; i++ {
		addr, _, err := q.deriver.Signature(authority, source, lock.Record.LockID, i, revert)
		if err != nil {
			return nil, true, err
		}
		sig, found, err := fetch[types.Signature](ctx, q, addr)
		if err != nil {
			return nil, true, err
		}
		if found {
			out = append(out, sig)
		}
	}
	return out, true, nil
}

func (q Querier) User(ctx context.Context, chain types.ChainID, address types.Address) (Entry[types.User], bool, error) {
	authority, err := q.deriver.UserAuthority(address)
	if err != nil {
		return Entry[types.User]{}, false, err
	}
	addr, _, err := q.deriver.User(authority.Key, chain)
	if err != nil {
		return Entry[types.User]{}, false, err
	}
	return fetch[types.User](ctx, q, addr)
}

// History returns the sent or received legs of a user in index order, each
// resolved to the lock it points at.
func (q Querier) History(ctx context.Context, kind types.LegKind, chain types.ChainID, address types.Address) ([]HistoryItem, error) {
	user, found, err := q.User(ctx, chain, address)
	if err != nil || !found {
		return nil, err
	}
	authority, err := q.deriver.UserAuthority(address)
	if err != nil {
		return nil, err
	}

	count := user.Record.Counter(kind)
	out := make([]HistoryItem, 0, count)
	for i := uint64(0); i < count; i++ {
		addr, _, err := q.deriver.Leg(authority.Key, kind, chain, i)
		if err != nil {
			return nil, err
		}
		leg, found, err := fetch[types.LockTx](ctx, q, addr)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		item := HistoryItem{Index: i, Leg: leg}
		lock, found, err := fetch[types.Lock](ctx, q, leg.Record.LockAccount)
		if err != nil {
			return nil, err
		}
		if found {
			item.Lock = &lock
		}
		out = append(out, item)
	}
	return out, nil
}
