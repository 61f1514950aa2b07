package host_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/allbridge-io/allbridge-master-contract/node/db"
	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/node/host/mocks"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

type programFunc func(ctx context.Context, h types.Host, accounts []*types.AccountInfo, data []byte) error

func (f programFunc) ProcessInstruction(ctx context.Context, h types.Host, accounts []*types.AccountInfo, data []byte) error {
	return f(ctx, h, accounts, data)
}

type runtimeSuite struct {
	suite.Suite

	ctx       context.Context
	store     *db.KVStore
	reg       *prometheus.Registry
	rt        *host.Runtime
	programID solana.PublicKey
	payer     solana.PrivateKey
}

func TestRuntimeSuite(t *testing.T) {
	suite.Run(t, new(runtimeSuite))
}

func (s *runtimeSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = db.NewMemKVStore()
	s.reg = prometheus.NewRegistry()
	s.rt = host.NewRuntime(s.store, zerolog.New(zerolog.NewTestWriter(s.T())),
		host.WithFaucet(true),
		host.WithRegisterer(s.reg),
	)
	s.programID = s.newKey().PublicKey()
	s.payer = s.newKey()
	s.Require().NoError(s.rt.Airdrop(s.ctx, s.payer.PublicKey(), 1_000_000_000))
}

func (s *runtimeSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *runtimeSuite) newKey() solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	s.Require().NoError(err)
	return key
}

func (s *runtimeSuite) execute(signers []solana.PrivateKey, ixs ...solana.Instruction) error {
	_, err := s.rt.Execute(s.ctx, host.Transaction{Instructions: ixs, Signers: signers})
	return err
}

func (s *runtimeSuite) balance(key solana.PublicKey) uint64 {
	acc, _, err := s.rt.GetAccount(s.ctx, key)
	s.Require().NoError(err)
	return acc.Lamports
}

// programAccount creates an account of space bytes owned by s.programID.
func (s *runtimeSuite) programAccount(space uint64) solana.PublicKey {
	acc := s.newKey()
	ix := system.NewCreateAccountInstruction(1000, space, s.programID, s.payer.PublicKey(), acc.PublicKey()).Build()
	s.Require().NoError(s.execute([]solana.PrivateKey{s.payer, acc}, ix))
	return acc.PublicKey()
}

func (s *runtimeSuite) register(fn programFunc) {
	s.rt.RegisterProgram(s.programID, fn)
}

func (s *runtimeSuite) invoke(metas solana.AccountMetaSlice) error {
	return s.execute([]solana.PrivateKey{s.payer}, solana.NewInstruction(s.programID, metas, []byte{0}))
}

func (s *runtimeSuite) TestSystemTransfer() {
	to := s.newKey().PublicKey()
	ix := system.NewTransferInstruction(250, s.payer.PublicKey(), to).Build()

	res, err := s.rt.Execute(s.ctx, host.Transaction{Instructions: []solana.Instruction{ix}, Signers: []solana.PrivateKey{s.payer}})
	s.Require().NoError(err)
	s.Require().Equal(1, res.Instructions)
	s.Require().ElementsMatch([]solana.PublicKey{s.payer.PublicKey(), to}, res.Committed)
	s.Require().Equal(uint64(250), s.balance(to))
	s.Require().Equal(uint64(1_000_000_000-250), s.balance(s.payer.PublicKey()))
}

func (s *runtimeSuite) TestSystemTransferInsufficientFunds() {
	ix := system.NewTransferInstruction(2_000_000_000, s.payer.PublicKey(), s.newKey().PublicKey()).Build()
	s.Require().ErrorIs(s.execute([]solana.PrivateKey{s.payer}, ix), types.ErrInsufficientFunds)
}

func (s *runtimeSuite) TestSystemCreateAccount() {
	acc := s.programAccount(16)

	info, found, err := s.rt.GetAccount(s.ctx, acc)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(s.programID, info.Owner)
	s.Require().Equal(make([]byte, 16), info.Data)
	s.Require().Equal(uint64(1000), info.Lamports)
}

func (s *runtimeSuite) TestSystemCreateAccountInUse() {
	acc := s.newKey()
	first := system.NewCreateAccountInstruction(1000, 8, s.programID, s.payer.PublicKey(), acc.PublicKey()).Build()
	again := system.NewCreateAccountInstruction(1000, 8, s.programID, s.payer.PublicKey(), acc.PublicKey()).Build()

	s.Require().ErrorIs(s.execute([]solana.PrivateKey{s.payer, acc}, first, again), types.ErrAccountAlreadyInUse)
}

func (s *runtimeSuite) TestMissingSigner() {
	ix := system.NewTransferInstruction(1, s.payer.PublicKey(), s.newKey().PublicKey()).Build()
	s.Require().ErrorIs(s.execute(nil, ix), types.ErrMissingSignature)
}

func (s *runtimeSuite) TestEmptyTransaction() {
	s.Require().ErrorIs(s.execute([]solana.PrivateKey{s.payer}), types.ErrInvalidInstruction)
}

func (s *runtimeSuite) TestUnsupportedProgram() {
	s.Require().ErrorIs(s.invoke(nil), types.ErrUnsupportedProgram)
}

func (s *runtimeSuite) TestFailedInstructionRollsBackTransaction() {
	to := s.newKey().PublicKey()
	transfer := system.NewTransferInstruction(250, s.payer.PublicKey(), to).Build()
	unknown := solana.NewInstruction(s.programID, nil, []byte{0})

	s.Require().ErrorIs(s.execute([]solana.PrivateKey{s.payer}, transfer, unknown), types.ErrUnsupportedProgram)
	s.Require().Zero(s.balance(to))
	s.Require().Equal(uint64(1_000_000_000), s.balance(s.payer.PublicKey()))
}

func (s *runtimeSuite) TestOwnershipRules() {
	acc := s.programAccount(4)

	testCases := []struct {
		name    string
		meta    *solana.AccountMeta
		program programFunc
		wantErr error
	}{
		{
			name: "owner writes its account",
			meta: solana.Meta(acc).WRITE(),
			program: func(_ context.Context, _ types.Host, accounts []*types.AccountInfo, _ []byte) error {
				accounts[0].Data[0] = 1
				return nil
			},
		},
		{
			name: "read-only data modified",
			meta: solana.Meta(acc),
			program: func(_ context.Context, _ types.Host, accounts []*types.AccountInfo, _ []byte) error {
				accounts[0].Data[1] = 1
				return nil
			},
			wantErr: types.ErrReadonlyDataModified,
		},
		{
			name: "account resized",
			meta: solana.Meta(acc).WRITE(),
			program: func(_ context.Context, _ types.Host, accounts []*types.AccountInfo, _ []byte) error {
				accounts[0].Data = append(accounts[0].Data, 0)
				return nil
			},
			wantErr: types.ErrInvalidAccountData,
		},
		{
			name: "lamports minted",
			meta: solana.Meta(acc).WRITE(),
			program: func(_ context.Context, _ types.Host, accounts []*types.AccountInfo, _ []byte) error {
				accounts[0].Lamports++
				return nil
			},
			wantErr: types.ErrInvalidInstruction,
		},
		{
			name: "foreign account written",
			meta: solana.Meta(s.payer.PublicKey()).WRITE(),
			program: func(_ context.Context, _ types.Host, accounts []*types.AccountInfo, _ []byte) error {
				accounts[0].Data = []byte{1}
				return nil
			},
			wantErr: types.ErrInvalidAccountOwner,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.register(tc.program)
			err := s.invoke(solana.AccountMetaSlice{tc.meta})
			if tc.wantErr == nil {
				s.Require().NoError(err)
				return
			}
			s.Require().ErrorIs(err, tc.wantErr)
		})
	}

	info, _, err := s.rt.GetAccount(s.ctx, acc)
	s.Require().NoError(err)
	s.Require().Equal([]byte{1, 0, 0, 0}, info.Data)
}

func (s *runtimeSuite) TestCreateAccountWithSeed() {
	base := s.newKey()
	seed := "record_0"
	addr, err := solana.CreateWithSeed(base.PublicKey(), seed, s.programID)
	s.Require().NoError(err)

	s.register(func(ctx context.Context, h types.Host, accounts []*types.AccountInfo, _ []byte) error {
		return h.CreateAccountWithSeed(ctx, accounts[0], accounts[1], accounts[2], seed, 10, nil)
	})
	metas := func(target solana.PublicKey, baseSigns bool) solana.AccountMetaSlice {
		b := solana.Meta(base.PublicKey())
		if baseSigns {
			b = b.SIGNER()
		}
		return solana.AccountMetaSlice{solana.Meta(s.payer.PublicKey()).WRITE().SIGNER(), solana.Meta(target).WRITE(), b}
	}
	run := func(m solana.AccountMetaSlice, signers ...solana.PrivateKey) error {
		return s.execute(append([]solana.PrivateKey{s.payer}, signers...), solana.NewInstruction(s.programID, m, []byte{0}))
	}

	s.Require().ErrorIs(run(metas(s.newKey().PublicKey(), true), base), types.ErrAddressMismatch)
	s.Require().ErrorIs(run(metas(addr, false)), types.ErrMissingSignature)
	s.Require().NoError(run(metas(addr, true), base))

	info, found, err := s.rt.GetAccount(s.ctx, addr)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(s.programID, info.Owner)
	s.Require().Len(info.Data, 10)
	s.Require().Equal(s.rt.Rent().MinimumBalance(10), info.Lamports)
}

func (s *runtimeSuite) TestMetrics() {
	ix := system.NewTransferInstruction(1, s.payer.PublicKey(), s.newKey().PublicKey()).Build()
	s.Require().NoError(s.execute([]solana.PrivateKey{s.payer}, ix))
	s.Require().Error(s.execute(nil, ix))

	expected := `
# HELP bridged_accounts_committed_total Accounts written by committed transactions.
# TYPE bridged_accounts_committed_total counter
bridged_accounts_committed_total 2
# HELP bridged_transactions_total Executed transactions by result.
# TYPE bridged_transactions_total counter
bridged_transactions_total{result="error"} 1
bridged_transactions_total{result="ok"} 1
`
	s.Require().NoError(testutil.GatherAndCompare(s.reg, strings.NewReader(expected),
		"bridged_transactions_total", "bridged_accounts_committed_total"))
}

func TestAirdropDisabled(t *testing.T) {
	rt := host.NewRuntime(db.NewMemKVStore(), zerolog.Nop())
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.ErrorIs(t, rt.Airdrop(context.Background(), key.PublicKey(), 1), types.ErrUnauthorized)
}

func TestRent(t *testing.T) {
	rent := host.DefaultRent()
	require.Equal(t, uint64(890_880), rent.MinimumBalance(0))
	require.Equal(t, uint64((128+33)*3480*2), rent.MinimumBalance(types.BridgeLen))
	require.True(t, rent.IsExempt(rent.MinimumBalance(77), 77))
	require.False(t, rent.IsExempt(rent.MinimumBalance(77)-1, 77))

	custom := host.Rent{LamportsPerByteYear: 10, ExemptionThreshold: 1.5}
	require.Equal(t, uint64(1920), custom.MinimumBalance(0))
}

func TestCommitFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountsDB(ctrl)
	rt := host.NewRuntime(accounts, zerolog.Nop(), host.WithFaucet(true))

	from, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	to := solana.NewWallet().PublicKey()
	diskFull := errors.New("disk full")

	accounts.EXPECT().GetAccount(gomock.Any(), from.PublicKey()).
		Return(host.Account{Key: from.PublicKey(), Lamports: 100, Owner: solana.SystemProgramID}, true, nil)
	accounts.EXPECT().GetAccount(gomock.Any(), to).Return(host.Account{}, false, nil)
	accounts.EXPECT().CommitAccounts(gomock.Any(), gomock.Len(2)).Return(diskFull)

	ix := system.NewTransferInstruction(40, from.PublicKey(), to).Build()
	_, err = rt.Execute(context.Background(), host.Transaction{Instructions: []solana.Instruction{ix}, Signers: []solana.PrivateKey{from}})
	require.ErrorIs(t, err, diskFull)
}

func TestCommitOnlyDirtyAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountsDB(ctrl)
	rt := host.NewRuntime(accounts, zerolog.Nop())

	from, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	to := solana.NewWallet().PublicKey()

	accounts.EXPECT().GetAccount(gomock.Any(), from.PublicKey()).
		Return(host.Account{Key: from.PublicKey(), Lamports: 100, Owner: solana.SystemProgramID}, true, nil)
	accounts.EXPECT().GetAccount(gomock.Any(), to).Return(host.Account{}, false, nil)

	// a zero transfer leaves both accounts as they were
	ix := system.NewTransferInstruction(0, from.PublicKey(), to).Build()
	res, err := rt.Execute(context.Background(), host.Transaction{Instructions: []solana.Instruction{ix}, Signers: []solana.PrivateKey{from}})
	require.NoError(t, err)
	require.Empty(t, res.Committed)
}

func TestAirdropReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountsDB(ctrl)
	rt := host.NewRuntime(accounts, zerolog.Nop(), host.WithFaucet(true))
	key := solana.NewWallet().PublicKey()
	readErr := errors.New("read failed")

	accounts.EXPECT().GetAccount(gomock.Any(), key).Return(host.Account{}, false, readErr)
	require.ErrorIs(t, rt.Airdrop(context.Background(), key, 1), readErr)
}
