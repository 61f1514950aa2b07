package host

import (
	"bytes"
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Account is the persisted state of one address.
type Account struct {
	Key      solana.PublicKey
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
}

// IsEmpty reports whether the account holds nothing worth persisting.
func (a Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner.Equals(solana.SystemProgramID)
}

func (a Account) clone() Account {
	out := a
	out.Data = bytes.Clone(a.Data)
	return out
}

func (a Account) equal(b Account) bool {
	return a.Lamports == b.Lamports && a.Owner.Equals(b.Owner) && bytes.Equal(a.Data, b.Data)
}

// emptyAccount is what an address that never held state looks like.
func emptyAccount(key solana.PublicKey) Account {
	return Account{Key: key, Owner: solana.SystemProgramID}
}

// AccountsDB persists accounts. CommitAccounts must apply every account or
// none of them.
//
//go:generate mockgen -destination=mocks/accounts_db.go -package=mocks . AccountsDB
type AccountsDB interface {
	GetAccount(ctx context.Context, key solana.PublicKey) (Account, bool, error)
	CommitAccounts(ctx context.Context, accounts []Account) error
}

// Info converts a persisted account into the program-facing view.
func (a Account) Info() types.AccountInfo {
	return types.AccountInfo{
		Key:      a.Key,
		Lamports: a.Lamports,
		Owner:    a.Owner,
		Data:     bytes.Clone(a.Data),
	}
}
