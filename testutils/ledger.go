// Package testutils wires an in-memory ledger for tests: a memory backed
// account store, the host runtime and the bridge program.
package testutils

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/allbridge-io/allbridge-master-contract/node/db"
	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/client"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/keeper"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// ProgramID is the program id test ledgers register the bridge under.
var ProgramID = solana.MustPublicKeyFromBase58("2svg2dmcS8L3s2GyBBjfoeQW89Rx1zH3rkDC5EhmpXVi")

type Ledger struct {
	Ctx       context.Context
	ProgramID solana.PublicKey
	Store     *db.KVStore
	Registry  *prometheus.Registry
	Runtime   *host.Runtime
	Keeper    keeper.Keeper
	Builder   client.Builder
	Resolver  client.Resolver
	Querier   keeper.Querier
}

// SetupLedger returns a fresh ledger with the faucet enabled.
func SetupLedger(t *testing.T) *Ledger {
	t.Helper()

	store := db.NewMemKVStore()
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	rt := host.NewRuntime(store, zerolog.New(zerolog.NewTestWriter(t)),
		host.WithFaucet(true),
		host.WithRegisterer(reg),
	)
	k := keeper.NewKeeper(ProgramID, log.NewTestLogger(t))
	rt.RegisterProgram(ProgramID, k)

	builder := client.NewBuilder(ProgramID)
	return &Ledger{
		Ctx:       context.Background(),
		ProgramID: ProgramID,
		Store:     store,
		Registry:  reg,
		Runtime:   rt,
		Keeper:    k,
		Builder:   builder,
		Resolver:  client.NewResolver(builder, rt),
		Querier:   keeper.NewQuerier(ProgramID, rt),
	}
}

// NewKey returns an unfunded key.
func NewKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

// NewFundedKey returns a key holding Airdrop lamports.
func (l *Ledger) NewFundedKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key := NewKey(t)
	require.NoError(t, l.Runtime.Airdrop(l.Ctx, key.PublicKey(), Airdrop))
	return key
}

// Execute runs the instructions as one transaction.
func (l *Ledger) Execute(signers []solana.PrivateKey, ixs ...solana.Instruction) (host.Result, error) {
	return l.Runtime.Execute(l.Ctx, host.Transaction{Instructions: ixs, Signers: signers})
}

// CreateBridge allocates and initializes a bridge owned by owner.
func (l *Ledger) CreateBridge(t *testing.T, payer, owner solana.PrivateKey) solana.PublicKey {
	t.Helper()
	bridge := NewKey(t)
	ixs, err := l.Builder.CreateBridge(payer.PublicKey(), bridge.PublicKey(), owner.PublicKey(), l.Runtime.Rent())
	require.NoError(t, err)
	_, err = l.Execute([]solana.PrivateKey{payer, bridge, owner}, ixs...)
	require.NoError(t, err)
	return bridge.PublicKey()
}

// AddBlockchain registers chain on bridge.
func (l *Ledger) AddBlockchain(t *testing.T, bridge solana.PublicKey, payer solana.PrivateKey, chain string) {
	t.Helper()
	ix, err := l.Builder.AddBlockchain(bridge, payer.PublicKey(), &types.MsgAddBlockchain{
		BlockchainID:    chain,
		ContractAddress: ContractAddress,
	})
	require.NoError(t, err)
	_, err = l.Execute([]solana.PrivateKey{payer}, ix)
	require.NoError(t, err)
}

// AddValidator registers payer as the next validator of chain and returns
// its index.
func (l *Ledger) AddValidator(t *testing.T, bridge solana.PublicKey, payer solana.PrivateKey, chain string, pubKey types.PubKey) uint64 {
	t.Helper()
	index, err := l.Resolver.NextValidatorIndex(l.Ctx, bridge, types.MustParseChainID(chain))
	require.NoError(t, err)
	ix, err := l.Resolver.AddValidator(l.Ctx, bridge, payer.PublicKey(), &types.MsgAddValidator{
		BlockchainID: chain,
		PubKey:       pubKey,
	})
	require.NoError(t, err)
	_, err = l.Execute([]solana.PrivateKey{payer}, ix)
	require.NoError(t, err)
	return index
}

// AddSignature submits msg as validator index, resolving user counters from
// committed state.
func (l *Ledger) AddSignature(bridge solana.PublicKey, payer solana.PrivateKey, index uint64, msg *types.MsgAddSignature) error {
	ix, err := l.Resolver.AddSignature(l.Ctx, bridge, payer.PublicKey(), index, msg)
	if err != nil {
		return err
	}
	_, err = l.Execute([]solana.PrivateKey{payer}, ix)
	return err
}

// Transfer is a lock claim from source to destination.
func Transfer(source, destination string, txID types.TxID, lockID, amount uint64) *types.MsgAddSignature {
	msg := &types.MsgAddSignature{
		TokenSource:        source,
		TokenSourceAddress: TokenAddress,
		Source:             source,
		TxID:               txID,
		LockID:             lockID,
		Destination:        destination,
		Sender:             SenderAddress,
		Recipient:          RecipientAddress,
		Amount:             amount,
	}
	msg.Signature[0] = byte(lockID)
	msg.Signature[types.SignatureLength-1] = 0x1b
	return msg
}

// Scenario is a bridge with ETH and SOL registered and one validator on each.
type Scenario struct {
	Bridge       solana.PublicKey
	Owner        solana.PrivateKey
	ETHValidator solana.PrivateKey
	SOLValidator solana.PrivateKey
}

func (l *Ledger) SetupScenario(t *testing.T) Scenario {
	t.Helper()
	owner := l.NewFundedKey(t)
	bridge := l.CreateBridge(t, owner, owner)
	l.AddBlockchain(t, bridge, owner, ChainETH)
	l.AddBlockchain(t, bridge, owner, ChainSOL)

	eth := l.NewFundedKey(t)
	sol := l.NewFundedKey(t)
	l.AddValidator(t, bridge, eth, ChainETH, types.PubKey{1})
	l.AddValidator(t, bridge, sol, ChainSOL, types.PubKey{2})
	return Scenario{Bridge: bridge, Owner: owner, ETHValidator: eth, SOLValidator: sol}
}
