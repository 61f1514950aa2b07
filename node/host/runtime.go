// Package host is an in-process execution environment for account programs.
//
// A transaction is an ordered list of instructions plus the private keys of
// its signers. Instructions run against a transaction-local overlay of
// accounts; when every instruction succeeds the changed accounts are handed
// to the AccountsDB in a single commit, otherwise nothing is written.
package host

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// MaxAccountDataSize bounds a single allocation.
const MaxAccountDataSize = 10 * 1024 * 1024

// Program processes instructions addressed to its program id.
type Program interface {
	ProcessInstruction(ctx context.Context, host types.Host, accounts []*types.AccountInfo, data []byte) error
}

// Transaction is executed atomically by Runtime.Execute.
type Transaction struct {
	Instructions []solana.Instruction
	Signers      []solana.PrivateKey
}

// Result describes a committed transaction.
type Result struct {
	Instructions int
	Committed    []solana.PublicKey
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRent overrides the default rent parameters.
func WithRent(rent Rent) Option {
	return func(r *Runtime) { r.rent = rent }
}

// WithRegisterer registers the runtime metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Runtime) { r.metrics = NewMetrics(reg) }
}

// WithFaucet enables Airdrop.
func WithFaucet(enabled bool) Option {
	return func(r *Runtime) { r.faucet = enabled }
}

// Runtime executes transactions. Transactions are serialized: each one sees
// every account committed before it.
type Runtime struct {
	mu       sync.Mutex
	db       AccountsDB
	rent     Rent
	logger   zerolog.Logger
	metrics  *Metrics
	faucet   bool
	programs map[solana.PublicKey]Program
}

func NewRuntime(db AccountsDB, logger zerolog.Logger, opts ...Option) *Runtime {
	r := &Runtime{
		db:       db,
		rent:     DefaultRent(),
		logger:   logger.With().Str("component", "host").Logger(),
		programs: map[solana.PublicKey]Program{solana.SystemProgramID: systemProgram{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	return r
}

// RegisterProgram installs program under id, replacing any previous one.
func (r *Runtime) RegisterProgram(id solana.PublicKey, program Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[id] = program
	r.logger.Info().Str("program_id", id.String()).Msg("program registered")
}

func (r *Runtime) Rent() Rent {
	return r.rent
}

var _ types.AccountReader = (*Runtime)(nil)

// GetAccount returns the committed account at key.
func (r *Runtime) GetAccount(ctx context.Context, key solana.PublicKey) (types.AccountInfo, bool, error) {
	acc, found, err := r.db.GetAccount(ctx, key)
	if err != nil || !found {
		return types.AccountInfo{}, found, err
	}
	return acc.Info(), true, nil
}

// Airdrop credits lamports to key out of thin air. It is a development
// faucet and fails unless enabled.
func (r *Runtime) Airdrop(ctx context.Context, key solana.PublicKey, lamports uint64) error {
	if !r.faucet {
		return errorsmod.Wrap(types.ErrUnauthorized, "faucet disabled")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, found, err := r.db.GetAccount(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		acc = emptyAccount(key)
	}
	acc.Lamports += lamports
	if err := r.db.CommitAccounts(ctx, []Account{acc}); err != nil {
		return err
	}
	r.logger.Info().Str("account", key.String()).Uint64("lamports", lamports).Msg("airdrop")
	return nil
}

// Execute runs tx and commits its effects only if every instruction succeeds.
func (r *Runtime) Execute(ctx context.Context, tx Transaction) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.execute(ctx, tx)
	r.metrics.transactions.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		r.logger.Debug().Err(err).Int("instructions", len(tx.Instructions)).Msg("transaction rejected")
		return Result{}, err
	}
	r.metrics.accountsCommitted.Add(float64(len(res.Committed)))
	return res, nil
}

func (r *Runtime) execute(ctx context.Context, tx Transaction) (Result, error) {
	if len(tx.Instructions) == 0 {
		return Result{}, errorsmod.Wrap(types.ErrInvalidInstruction, "transaction has no instructions")
	}

	signers := make(map[solana.PublicKey]bool, len(tx.Signers))
	for _, key := range tx.Signers {
		signers[key.PublicKey()] = true
	}

	state := newOverlay(r.db)
	for i, ix := range tx.Instructions {
		if err := r.executeInstruction(ctx, state, signers, ix); err != nil {
			return Result{}, errorsmod.Wrapf(err, "instruction %d", i)
		}
	}

	dirty := state.dirty()
	if len(dirty) > 0 {
		if err := r.db.CommitAccounts(ctx, dirty); err != nil {
			return Result{}, err
		}
	}

	keys := make([]solana.PublicKey, 0, len(dirty))
	for _, acc := range dirty {
		keys = append(keys, acc.Key)
	}
	return Result{Instructions: len(tx.Instructions), Committed: keys}, nil
}

func (r *Runtime) executeInstruction(ctx context.Context, state *overlay, signers map[solana.PublicKey]bool, ix solana.Instruction) error {
	programID := ix.ProgramID()
	program, ok := r.programs[programID]
	if !ok {
		return errorsmod.Wrapf(types.ErrUnsupportedProgram, "%s", programID)
	}
	data, err := ix.Data()
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidInstruction, err.Error())
	}

	inv, err := newInvocation(ctx, r, state, programID, signers, ix.Accounts())
	if err != nil {
		return err
	}

	err = program.ProcessInstruction(ctx, inv, inv.accounts, data)
	if err == nil {
		err = inv.verify()
	}
	r.metrics.instructions.WithLabelValues(programID.String(), resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	inv.apply()
	return nil
}
