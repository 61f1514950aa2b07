package client_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/testutils"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/client"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

type meta struct {
	key      solana.PublicKey
	writable bool
	signer   bool
}

func requireMetas(t *testing.T, ix solana.Instruction, want ...meta) {
	t.Helper()
	got := ix.Accounts()
	require.Len(t, got, len(want))
	for i, m := range want {
		require.Equal(t, m.key, got[i].PublicKey, "account %d", i)
		require.Equal(t, m.writable, got[i].IsWritable, "account %d writable", i)
		require.Equal(t, m.signer, got[i].IsSigner, "account %d signer", i)
	}
}

func TestBuilderAccountOrder(t *testing.T) {
	programID := testutils.ProgramID
	b := client.NewBuilder(programID)
	d := pda.NewDeriver(programID)
	bridge := testutils.NewKey(t).PublicKey()
	payer := testutils.NewKey(t).PublicKey()
	chain := types.MustParseChainID(testutils.ChainETH)

	authority, err := d.BridgeAuthority(bridge)
	require.NoError(t, err)
	blockchain, _, err := d.Blockchain(authority.Key, chain)
	require.NoError(t, err)

	t.Run("initialize bridge", func(t *testing.T) {
		ix, err := b.InitializeBridge(bridge, payer)
		require.NoError(t, err)
		require.Equal(t, programID, ix.ProgramID())
		requireMetas(t, ix,
			meta{key: bridge, writable: true},
			meta{key: payer, signer: true},
		)
		data, err := ix.Data()
		require.NoError(t, err)
		require.Equal(t, []byte{byte(types.InstructionInitializeBridge)}, data)
	})

	t.Run("create bridge", func(t *testing.T) {
		ixs, err := b.CreateBridge(payer, bridge, payer, host.DefaultRent())
		require.NoError(t, err)
		require.Len(t, ixs, 2)
		require.Equal(t, solana.SystemProgramID, ixs[0].ProgramID())
		require.Equal(t, programID, ixs[1].ProgramID())
	})

	t.Run("add blockchain", func(t *testing.T) {
		ix, err := b.AddBlockchain(bridge, payer, &types.MsgAddBlockchain{BlockchainID: testutils.ChainETH})
		require.NoError(t, err)
		requireMetas(t, ix,
			meta{key: bridge},
			meta{key: blockchain, writable: true},
			meta{key: payer, writable: true, signer: true},
			meta{key: authority.Key},
		)
		data, err := ix.Data()
		require.NoError(t, err)
		msg, err := types.DecodeInstruction(data)
		require.NoError(t, err)
		require.Equal(t, &types.MsgAddBlockchain{BlockchainID: testutils.ChainETH}, msg)
	})

	t.Run("add validator", func(t *testing.T) {
		validator, _, err := d.Validator(authority.Key, chain, 3)
		require.NoError(t, err)
		ix, err := b.AddValidator(bridge, payer, 3, &types.MsgAddValidator{BlockchainID: testutils.ChainETH})
		require.NoError(t, err)
		requireMetas(t, ix,
			meta{key: bridge},
			meta{key: blockchain, writable: true},
			meta{key: validator, writable: true},
			meta{key: payer, writable: true, signer: true},
			meta{key: authority.Key},
		)
	})

	t.Run("add signature", func(t *testing.T) {
		msg := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, testutils.TxIDOf(1), 7, 10)
		params := client.AddSignatureParams{ValidatorIndex: 2, SenderSent: 4, RecipientRecv: 5}
		ix, err := b.AddSignature(bridge, payer, params, msg)
		require.NoError(t, err)

		sol := types.MustParseChainID(testutils.ChainSOL)
		validator, _, err := d.Validator(authority.Key, chain, 2)
		require.NoError(t, err)
		lock, _, err := d.Lock(authority.Key, chain, msg.TxID, false)
		require.NoError(t, err)
		signature, _, err := d.Signature(authority.Key, chain, 7, 2, false)
		require.NoError(t, err)
		sender, err := d.UserAuthority(testutils.SenderAddress)
		require.NoError(t, err)
		senderUser, _, err := d.User(sender.Key, chain)
		require.NoError(t, err)
		sentLeg, _, err := d.Leg(sender.Key, types.LegSent, chain, 4)
		require.NoError(t, err)
		recipient, err := d.UserAuthority(testutils.RecipientAddress)
		require.NoError(t, err)
		recipientUser, _, err := d.User(recipient.Key, sol)
		require.NoError(t, err)
		receivedLeg, _, err := d.Leg(recipient.Key, types.LegReceived, sol, 5)
		require.NoError(t, err)

		requireMetas(t, ix,
			meta{key: bridge},
			meta{key: blockchain, writable: true},
			meta{key: validator},
			meta{key: lock, writable: true},
			meta{key: signature, writable: true},
			meta{key: authority.Key},
			meta{key: payer, writable: true, signer: true},
			meta{key: sender.Key},
			meta{key: senderUser, writable: true},
			meta{key: sentLeg, writable: true},
			meta{key: recipient.Key},
			meta{key: recipientUser, writable: true},
			meta{key: receivedLeg, writable: true},
		)
	})
}

func TestBuilderValidatesMessages(t *testing.T) {
	b := client.NewBuilder(testutils.ProgramID)
	bridge := testutils.NewKey(t).PublicKey()

	_, err := b.AddBlockchain(bridge, bridge, &types.MsgAddBlockchain{BlockchainID: "TOOLONG"})
	require.ErrorIs(t, err, types.ErrCodec)

	_, err = b.AddValidator(bridge, bridge, 0, &types.MsgAddValidator{BlockchainID: "ETH\x00"})
	require.ErrorIs(t, err, types.ErrCodec)

	msg := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, testutils.TxIDOf(1), 1, 10)
	msg.Destination = ""
	_, err = b.AddSignature(bridge, bridge, client.AddSignatureParams{}, msg)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestResolverUsesCommittedCounters(t *testing.T) {
	l := testutils.SetupLedger(t)
	s := l.SetupScenario(t)
	eth := types.MustParseChainID(testutils.ChainETH)

	index, err := l.Resolver.NextValidatorIndex(l.Ctx, s.Bridge, eth)
	require.NoError(t, err)
	require.Equal(t, uint64(1), index)

	_, err = l.Resolver.NextValidatorIndex(l.Ctx, s.Bridge, types.MustParseChainID(testutils.ChainBSC))
	require.ErrorIs(t, err, types.ErrUninitializedAccount)

	first := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, testutils.TxIDOf(1), 1, 10)
	require.NoError(t, l.AddSignature(s.Bridge, s.ETHValidator, 0, first))

	second := testutils.Transfer(testutils.ChainETH, testutils.ChainSOL, testutils.TxIDOf(2), 2, 10)
	resolved, err := l.Resolver.AddSignature(l.Ctx, s.Bridge, s.ETHValidator.PublicKey(), 0, second)
	require.NoError(t, err)
	built, err := l.Builder.AddSignature(s.Bridge, s.ETHValidator.PublicKey(), client.AddSignatureParams{
		SenderSent:    1,
		RecipientRecv: 1,
	}, second)
	require.NoError(t, err)
	require.Equal(t, built.Accounts(), resolved.Accounts())
}
