package api

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/keeper"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// LedgerQuerier defines the lookups needed by the API server.
type LedgerQuerier interface {
	Bridge(ctx context.Context, bridge solana.PublicKey) (keeper.Entry[types.Bridge], bool, error)
	Blockchain(ctx context.Context, bridge solana.PublicKey, chain types.ChainID) (keeper.Entry[types.Blockchain], bool, error)
	Validators(ctx context.Context, bridge solana.PublicKey, chain types.ChainID) ([]keeper.Entry[types.Validator], bool, error)
	Lock(ctx context.Context, bridge solana.PublicKey, source types.ChainID, txID types.TxID, revert bool) (keeper.Entry[types.Lock], bool, error)
	Signatures(ctx context.Context, bridge solana.PublicKey, source types.ChainID, txID types.TxID, revert bool) ([]keeper.Entry[types.Signature], bool, error)
	User(ctx context.Context, chain types.ChainID, address types.Address) (keeper.Entry[types.User], bool, error)
	History(ctx context.Context, kind types.LegKind, chain types.ChainID, address types.Address) ([]keeper.HistoryItem, error)
}

var _ LedgerQuerier = keeper.Querier{}
