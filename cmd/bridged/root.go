package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "BRIDGED"
	flagHome    = "home"
	defaultHome = ".bridged"
)

func defaultNodeHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultHome
	}
	return filepath.Join(home, defaultHome)
}

func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "bridged",
		Short:         "Bridge settlement ledger node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(flagHome, defaultNodeHome(), "Node home directory")
	_ = v.BindPFlag(flagHome, rootCmd.PersistentFlags().Lookup(flagHome))

	InitRootCmd(rootCmd, v)

	return rootCmd
}
