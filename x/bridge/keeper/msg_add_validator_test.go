package keeper_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/allbridge-io/allbridge-master-contract/testutils"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

func TestAddValidatorSequentialIndices(t *testing.T) {
	f := SetupTest(t)
	chain := types.MustParseChainID(testutils.ChainETH)
	authority, err := f.Keeper.Deriver().BridgeAuthority(f.Bridge)
	require.NoError(t, err)

	const n = 5
	for i := uint64(1); i < n; i++ {
		key := f.NewFundedKey(t)
		index := f.AddValidator(t, f.Bridge, key, testutils.ChainETH, types.PubKey{byte(i)})
		require.Equal(t, i, index)

		got, found, err := f.Querier.Validator(f.Ctx, f.Bridge, chain, i)
		require.NoError(t, err)
		require.True(t, found)

		expected, _, err := f.Keeper.Deriver().Validator(authority.Key, chain, i)
		require.NoError(t, err)
		require.Equal(t, expected, got.Address)
		require.Equal(t, i, got.Record.Index)
		require.Equal(t, chain, got.Record.BlockchainID)
		require.Equal(t, types.PubKey{byte(i)}, got.Record.PubKey)
		require.Equal(t, key.PublicKey(), got.Record.Owner)
	}

	blockchain, found, err := f.Querier.Blockchain(f.Ctx, f.Bridge, chain)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(n), blockchain.Record.Validators)

	validators, found, err := f.Querier.Validators(f.Ctx, f.Bridge, chain)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, validators, n)
	for i, v := range validators {
		require.Equal(t, uint64(i), v.Record.Index)
	}
}

func TestAddValidatorChainsAreIndependent(t *testing.T) {
	f := SetupTest(t)

	index := f.AddValidator(t, f.Bridge, f.NewFundedKey(t), testutils.ChainSOL, types.PubKey{3})
	require.Equal(t, uint64(1), index)

	eth, _, err := f.Querier.Blockchain(f.Ctx, f.Bridge, types.MustParseChainID(testutils.ChainETH))
	require.NoError(t, err)
	require.Equal(t, uint64(1), eth.Record.Validators)
}

func TestAddValidatorFailures(t *testing.T) {
	f := SetupTest(t)
	payer := f.NewFundedKey(t)
	msg := func(chain string) *types.MsgAddValidator {
		return &types.MsgAddValidator{BlockchainID: chain, PubKey: types.PubKey{9}}
	}

	testCases := []struct {
		name    string
		build   func(t *testing.T) solana.Instruction
		wantErr error
	}{
		{
			name: "index already taken",
			build: func(t *testing.T) solana.Instruction {
				ix, err := f.Builder.AddValidator(f.Bridge, payer.PublicKey(), 0, msg(testutils.ChainETH))
				require.NoError(t, err)
				return ix
			},
			wantErr: types.ErrAddressMismatch,
		},
		{
			name: "index ahead of the counter",
			build: func(t *testing.T) solana.Instruction {
				ix, err := f.Builder.AddValidator(f.Bridge, payer.PublicKey(), 5, msg(testutils.ChainETH))
				require.NoError(t, err)
				return ix
			},
			wantErr: types.ErrAddressMismatch,
		},
		{
			name: "chain not registered",
			build: func(t *testing.T) solana.Instruction {
				ix, err := f.Builder.AddValidator(f.Bridge, payer.PublicKey(), 0, msg(testutils.ChainBSC))
				require.NoError(t, err)
				return ix
			},
			wantErr: types.ErrUninitializedAccount,
		},
		{
			name: "blockchain of another chain",
			build: func(t *testing.T) solana.Instruction {
				ix, err := f.Builder.AddValidator(f.Bridge, payer.PublicKey(), 1, msg(testutils.ChainETH))
				require.NoError(t, err)
				sol, err := f.Builder.AddValidator(f.Bridge, payer.PublicKey(), 1, msg(testutils.ChainSOL))
				require.NoError(t, err)
				ix.Accounts()[1].PublicKey = sol.Accounts()[1].PublicKey
				return ix
			},
			wantErr: types.ErrAddressMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Execute([]solana.PrivateKey{payer}, tc.build(t))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	blockchain, _, err := f.Querier.Blockchain(f.Ctx, f.Bridge, types.MustParseChainID(testutils.ChainETH))
	require.NoError(t, err)
	require.Equal(t, uint64(1), blockchain.Record.Validators, "failed registrations must not advance the counter")
}

func TestResolverRejectsUnregisteredChain(t *testing.T) {
	f := SetupTest(t)

	_, err := f.Resolver.AddValidator(f.Ctx, f.Bridge, f.Owner.PublicKey(), &types.MsgAddValidator{BlockchainID: testutils.ChainBSC})
	require.ErrorIs(t, err, types.ErrUninitializedAccount)
}
