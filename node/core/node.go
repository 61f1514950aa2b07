// Package core assembles a ledger node: account store, execution runtime,
// the bridge program and the query server.
package core

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/allbridge-io/allbridge-master-contract/node/api"
	"github.com/allbridge-io/allbridge-master-contract/node/config"
	"github.com/allbridge-io/allbridge-master-contract/node/db"
	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/node/logger"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/client"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/keeper"
)

type Node struct {
	cfg       config.Config
	log       zerolog.Logger
	programID solana.PublicKey
	store     db.Store
	registry  *prometheus.Registry
	runtime   *host.Runtime
	keeper    keeper.Keeper
	builder   client.Builder
	querier   keeper.Querier
}

// NewNode opens the configured store and registers the bridge program.
func NewNode(cfg config.Config, log zerolog.Logger) (*Node, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	programID, err := cfg.ProgramKey()
	if err != nil {
		return nil, err
	}

	store, err := db.Open(cfg.StorageBackend, cfg.DatabaseDir, cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StorageBackend, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	runtime := host.NewRuntime(store, log,
		host.WithRent(host.Rent{
			LamportsPerByteYear: cfg.Rent.LamportsPerByteYear,
			ExemptionThreshold:  cfg.Rent.ExemptionThreshold,
		}),
		host.WithFaucet(cfg.FaucetEnabled),
		host.WithRegisterer(registry),
	)
	k := keeper.NewKeeper(programID, logger.Program(log))
	runtime.RegisterProgram(programID, k)

	return &Node{
		cfg:       cfg,
		log:       log,
		programID: programID,
		store:     store,
		registry:  registry,
		runtime:   runtime,
		keeper:    k,
		builder:   client.NewBuilder(programID),
		querier:   keeper.NewQuerier(programID, runtime),
	}, nil
}

func (n *Node) ProgramID() solana.PublicKey { return n.programID }
func (n *Node) Runtime() *host.Runtime      { return n.runtime }
func (n *Node) Builder() client.Builder     { return n.builder }
func (n *Node) Querier() keeper.Querier     { return n.querier }

// Resolver builds instructions against the node's committed state.
func (n *Node) Resolver() client.Resolver {
	return client.NewResolver(n.builder, n.runtime)
}

// Submit executes the instructions as one atomic transaction.
func (n *Node) Submit(ctx context.Context, signers []solana.PrivateKey, ixs ...solana.Instruction) (host.Result, error) {
	return n.runtime.Execute(ctx, host.Transaction{Instructions: ixs, Signers: signers})
}

// Serve runs the query server until ctx is cancelled.
func (n *Node) Serve(ctx context.Context) error {
	n.log.Info().
		Str("program_id", n.programID.String()).
		Str("storage", n.cfg.StorageBackend).
		Msg("Starting bridge ledger node")

	server := api.NewServer(n.log, n.cfg.QueryServerPort, n.querier, n.registry)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start query server: %w", err)
	}

	<-ctx.Done()

	n.log.Info().Msg("Shutting down bridge ledger node")
	return server.Stop()
}

// Close releases the account store.
func (n *Node) Close() error {
	return n.store.Close()
}
