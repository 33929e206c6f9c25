package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)
	want := &Config{
		RPCURL:      "http://localhost:8899",
		Commitment:  CommitmentFinalized,
		KeypairPath: "/tmp/id.json",
		LogLevel:    0,
		LogFormat:   "json",
	}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(tempConfigPath(t))
	require.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("rpc_url = \"http://localhost:8899\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", cfg.RPCURL)
	assert.Equal(t, CommitmentConfirmed, cfg.Commitment)
	assert.NotEmpty(t, cfg.KeypairPath)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadEnvOverridesRPCURL(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, Save(Default(), path))
	t.Setenv("SOLETTA_RPC_URL", "http://override:8899")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:8899", cfg.RPCURL)
}

func TestLoadExpandsTilde(t *testing.T) {
	path := tempConfigPath(t)
	cfg := Default()
	cfg.KeypairPath = "~/keys/id.json"
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "keys", "id.json"), got.KeypairPath)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty rpc url", mutate: func(c *Config) { c.RPCURL = "" }},
		{name: "bad commitment", mutate: func(c *Config) { c.Commitment = "eventual" }},
		{name: "empty keypair path", mutate: func(c *Config) { c.KeypairPath = "" }},
		{name: "log level out of range", mutate: func(c *Config) { c.LogLevel = 9 }},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.Error(t, Save(cfg, tempConfigPath(t)))
		})
	}
}

func TestCommitmentLevels(t *testing.T) {
	for _, level := range Levels() {
		assert.True(t, level.Valid())
	}
	assert.False(t, Commitment("recent").Valid())
}
