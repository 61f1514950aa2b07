package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allbridge-io/allbridge-master-contract/testutils"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

func TestQuerierAbsentRecords(t *testing.T) {
	f := SetupTest(t)
	bsc := types.MustParseChainID(testutils.ChainBSC)

	_, found, err := f.Querier.Bridge(f.Ctx, testutils.NewKey(t).PublicKey())
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = f.Querier.Blockchain(f.Ctx, f.Bridge, bsc)
	require.NoError(t, err)
	require.False(t, found)

	validators, found, err := f.Querier.Validators(f.Ctx, f.Bridge, bsc)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, validators)

	_, found, err = f.Querier.Validator(f.Ctx, f.Bridge, eth, 1)
	require.NoError(t, err)
	require.False(t, found)

	sigs, found, err := f.Querier.Signatures(f.Ctx, f.Bridge, eth, testutils.TxIDOf(1), false)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, sigs)

	_, found, err = f.Querier.User(f.Ctx, eth, testutils.SenderAddress)
	require.NoError(t, err)
	require.False(t, found)

	history, err := f.Querier.History(f.Ctx, types.LegSent, eth, testutils.SenderAddress)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestQuerierRejectsForeignAccounts(t *testing.T) {
	f := SetupTest(t)

	// a funded wallet is owned by the system program
	_, _, err := f.Querier.Bridge(f.Ctx, f.Owner.PublicKey())
	require.ErrorIs(t, err, types.ErrInvalidAccountOwner)
}

func TestQuerierSignaturesSkipEmptySlots(t *testing.T) {
	f := SetupTest(t)
	_, index := f.addETHValidator(t)
	third, thirdIndex := f.addETHValidator(t)
	require.Equal(t, uint64(1), index)

	msg := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, testutils.TxIDOf(1), 1, 10)
	require.NoError(t, f.AddSignature(f.Bridge, f.ETHValidator, 0, msg))
	require.NoError(t, f.AddSignature(f.Bridge, third, thirdIndex, msg))

	sigs, found, err := f.Querier.Signatures(f.Ctx, f.Bridge, eth, msg.TxID, false)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, sigs, 2)
	require.Equal(t, []uint64{0, 2}, []uint64{sigs[0].Record.ValidatorIndex, sigs[1].Record.ValidatorIndex})
	require.Equal(t, uint64(2), f.lock(t, msg.TxID, false).Record.Signatures)

	revertSigs, found, err := f.Querier.Signatures(f.Ctx, f.Bridge, eth, msg.TxID, true)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, revertSigs)
}
