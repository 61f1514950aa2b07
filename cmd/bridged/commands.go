package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbridge-io/allbridge-master-contract/node/config"
	"github.com/allbridge-io/allbridge-master-contract/node/core"
	"github.com/allbridge-io/allbridge-master-contract/node/logger"
)

// Set at build time with -ldflags "-X main.Version=... -X main.Commit=...".
var (
	Version = "dev"
	Commit  = ""
)

// env carries what every subcommand resolves from flags, environment and
// the config file.
type env struct {
	v *viper.Viper
}

func InitRootCmd(rootCmd *cobra.Command, v *viper.Viper) {
	e := env{v: v}
	rootCmd.AddCommand(initCmd(e))
	rootCmd.AddCommand(keysCmd(e))
	rootCmd.AddCommand(txCmd(e))
	rootCmd.AddCommand(queryCmd(e))
	rootCmd.AddCommand(startCmd(e))
	rootCmd.AddCommand(versionCmd())
}

func (e env) home() string {
	return e.v.GetString(flagHome)
}

// loadConfig reads <home>/config, falling back to the embedded defaults, and
// applies BRIDGED_* environment overrides.
func (e env) loadConfig() (config.Config, error) {
	cfg, err := config.Load(e.home())
	if err != nil {
		def, derr := config.LoadDefaultConfig()
		if derr != nil {
			return config.Config{}, derr
		}
		cfg = *def
		cfg.NodeHome = e.home()
	}

	if e.v.IsSet("program_id") {
		cfg.ProgramID = e.v.GetString("program_id")
	}
	if e.v.IsSet("storage_backend") {
		cfg.StorageBackend = e.v.GetString("storage_backend")
	}
	if e.v.IsSet("log_level") {
		cfg.LogLevel = e.v.GetInt("log_level")
	}
	if e.v.IsSet("log_format") {
		cfg.LogFormat = e.v.GetString("log_format")
	}
	if e.v.IsSet("query_server_port") {
		cfg.QueryServerPort = e.v.GetInt("query_server_port")
	}
	if e.v.IsSet("faucet_enabled") {
		cfg.FaucetEnabled = e.v.GetBool("faucet_enabled")
	}

	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openNode opens the local ledger; callers must Close it.
func (e env) openNode(quiet bool) (*core.Node, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.Init(cfg)
	if quiet {
		log = log.Level(zerolog.WarnLevel)
	}
	return core.NewNode(cfg, log)
}

func initCmd(e env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration under the node home",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(e.home()); err == nil && !force {
				return fmt.Errorf("config already exists in %s (use --force to overwrite)", e.home())
			}
			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.NodeHome = e.home()
			if err := config.Save(cfg, e.home()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized node home %s\n", e.home())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func startCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Serve the ledger query API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := e.openNode(false)
			if err != nil {
				return err
			}
			defer node.Close()
			return node.Serve(cmd.Context())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bridged version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Name:       %s\n", "bridged")
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", Commit)
		},
	}
}
