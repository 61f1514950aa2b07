package types

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// AccountInfo is the view of one account passed to an instruction. The host
// owns the value; the program mutates Data in place.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Owner      solana.PublicKey
	Data       []byte
}

// DataIsEmpty reports whether no storage has been allocated at the account.
func (a *AccountInfo) DataIsEmpty() bool {
	return len(a.Data) == 0
}

// Rent is the host's permanence model for allocated storage.
type Rent interface {
	MinimumBalance(size uint64) uint64
	IsExempt(lamports, size uint64) bool
}

// Host is the execution environment an instruction runs in.
type Host interface {
	// CreateAccountWithSeed allocates size zeroed bytes at newAccount, which
	// must equal CreateWithSeed(base, seed, program). The base is authorized
	// by signerSeeds (program derived signing); the payer funds the account.
	CreateAccountWithSeed(
		ctx context.Context,
		payer, newAccount, base *AccountInfo,
		seed string,
		size uint64,
		signerSeeds [][]byte,
	) error

	Rent() Rent
}

// AccountReader reads committed accounts outside of instruction execution.
type AccountReader interface {
	// GetAccount returns the account at key and whether it exists.
	GetAccount(ctx context.Context, key solana.PublicKey) (AccountInfo, bool, error)
}
