package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	configSubdir   = "config"
	configFileName = "bridged_config.json"
	dataSubdir     = "data"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return errors.New("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return errors.New("log format must be 'json' or 'console'")
	}

	if cfg.ProgramID == "" {
		def, err := LoadDefaultConfig()
		if err != nil {
			return err
		}
		cfg.ProgramID = def.ProgramID
	}
	if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return errors.Wrapf(err, "program id %q is not a base58 public key", cfg.ProgramID)
	}

	// Set defaults for storage
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "sqlite"
	}
	switch cfg.StorageBackend {
	case "sqlite", "goleveldb", "memory":
	default:
		return errors.New("storage backend must be 'sqlite', 'goleveldb' or 'memory'")
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "accounts.db"
	}
	if cfg.DatabaseDir == "" && cfg.NodeHome != "" {
		cfg.DatabaseDir = filepath.Join(cfg.NodeHome, dataSubdir)
	}

	// Set defaults for query server
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}
	if cfg.QueryServerPort < 0 || cfg.QueryServerPort > 65535 {
		return errors.New("query server port must be between 1 and 65535")
	}

	// Set defaults for rent
	if cfg.Rent.LamportsPerByteYear == 0 {
		cfg.Rent.LamportsPerByteYear = 3480
	}
	if cfg.Rent.ExemptionThreshold == 0 {
		cfg.Rent.ExemptionThreshold = 2
	}
	if cfg.Rent.ExemptionThreshold < 0 {
		return errors.New("rent exemption threshold must be positive")
	}

	return nil
}

// Validate fills defaults into cfg and reports the first invalid field.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// ProgramKey returns the parsed program id.
func (c Config) ProgramKey() (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(c.ProgramID)
}

// Save writes the given config to <NodeDir>/config/bridged_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Load reads and returns the config from <BasePath>/config/bridged_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.NodeHome == "" {
		cfg.NodeHome = basePath
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal default config")
	}
	return &cfg, nil
}
