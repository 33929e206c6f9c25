// Package config loads and persists the wallet configuration: RPC endpoint,
// commitment level, and signing-key location. The file lives at
// ~/.soletta/config.toml; the SOLETTA_RPC_URL environment variable (or a
// .env file in the working directory) overrides the endpoint.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".soletta"
	configFileName = "config.toml"
	historyDBName  = "history.db"

	// DefaultRPCURL points at devnet so a fresh install can airdrop.
	DefaultRPCURL = "https://api.devnet.solana.com"

	envRPCURL = "SOLETTA_RPC_URL"
)

// Commitment is the durability guarantee requested when reading state or
// confirming submitted transactions.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// Valid reports whether c is one of the three ledger commitment levels.
func (c Commitment) Valid() bool {
	switch c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return true
	}
	return false
}

// Levels returns every commitment level, least to most durable.
func Levels() []Commitment {
	return []Commitment{CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized}
}

type Config struct {
	RPCURL      string     `mapstructure:"rpc_url"`
	Commitment  Commitment `mapstructure:"commitment"`
	KeypairPath string     `mapstructure:"keypair_path"`
	LogLevel    int        `mapstructure:"log_level"`
	LogFormat   string     `mapstructure:"log_format"`
}

// Dir returns the wallet's home directory (~/.soletta).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the configuration file path inside Dir.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// HistoryDBPath returns the local transaction-journal path inside Dir.
func HistoryDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyDBName), nil
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		RPCURL:      DefaultRPCURL,
		Commitment:  CommitmentConfirmed,
		KeypairPath: filepath.Join(home, ".config", "solana", "id.json"),
		LogLevel:    1, // info
		LogFormat:   "console",
	}
}

func validate(cfg *Config) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc_url must not be empty")
	}
	if !cfg.Commitment.Valid() {
		return fmt.Errorf("commitment must be one of processed, confirmed, finalized; got %q", cfg.Commitment)
	}
	if cfg.KeypairPath == "" {
		return fmt.Errorf("keypair_path must not be empty")
	}
	if cfg.LogLevel < -1 || cfg.LogLevel > 5 {
		return fmt.Errorf("log_level must be between -1 and 5")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}
	return nil
}

// Load reads the configuration from path, applying defaults for absent keys
// and environment overrides for the RPC endpoint. A missing file is an
// error; callers bootstrap one with Save(Default(), path) first.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s does not exist: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	def := Default()
	v.SetDefault("rpc_url", def.RPCURL)
	v.SetDefault("commitment", string(def.Commitment))
	v.SetDefault("keypair_path", def.KeypairPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()
	if url := os.Getenv(envRPCURL); url != "" {
		cfg.RPCURL = url
	}

	cfg.KeypairPath = expandTilde(cfg.KeypairPath)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save validates cfg and writes it to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("rpc_url", cfg.RPCURL)
	v.Set("commitment", string(cfg.Commitment))
	v.Set("keypair_path", cfg.KeypairPath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// TOML does not expand ~, so do it manually.
func expandTilde(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
