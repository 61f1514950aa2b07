package config

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome  string `json:"node_home"`  // Node home directory (default: ~/.bridged)
	ProgramID string `json:"program_id"` // base58 id the bridge program is registered under

	// Storage Config
	StorageBackend string `json:"storage_backend"` // "sqlite", "goleveldb" or "memory"
	DatabaseDir    string `json:"database_dir"`    // default: <node_home>/data
	DatabaseName   string `json:"database_name"`   // default: accounts.db

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for HTTP query server (default: 8080)

	Rent RentConfig `json:"rent"`

	// FaucetEnabled allows airdrops; development networks only.
	FaucetEnabled bool `json:"faucet_enabled"`
}

// RentConfig parameterizes the permanence model of allocated accounts.
type RentConfig struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"` // default: 3480
	ExemptionThreshold  float64 `json:"exemption_threshold"`    // years of rent required for exemption (default: 2)
}
