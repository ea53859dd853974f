package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"secure server", func(c *Config) { c.server = "wss://cards.example/ws" }, ""},
		{"http server", func(c *Config) { c.server = "http://cards.example" }, "scheme must be ws or wss"},
		{"no host", func(c *Config) { c.server = "ws://" }, "missing host"},
		{"bad name", func(c *Config) { c.name = "Ann!" }, "invalid --name"},
		{"good name", func(c *Config) { c.name = "Ann B" }, ""},
		{"bad wild rank", func(c *Config) { c.wildRank = "1" }, "invalid --wild-rank"},
		{"other wild rank", func(c *Config) { c.wildRank = "J" }, ""},
		{"half tls", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"bad port with status", func(c *Config) { c.status, c.port = true, 0 }, "invalid port"},
		{"bad port without status", func(c *Config) { c.port = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("ws://localhost:8765")
			tt.mutate(cfg)

			err := cfg.validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvFileFromArgs(t *testing.T) {
	t.Setenv("CRAZYEIGHTS_ENV_FILE", "")

	path, explicit := envFileFromArgs([]string{"--verbose"})
	assert.Equal(t, ".env", path)
	assert.False(t, explicit)

	path, explicit = envFileFromArgs([]string{"--env-file", "table.env"})
	assert.Equal(t, "table.env", path)
	assert.True(t, explicit)

	path, explicit = envFileFromArgs([]string{"-v", "--env-file=other.env"})
	assert.Equal(t, "other.env", path)
	assert.True(t, explicit)

	t.Setenv("CRAZYEIGHTS_ENV_FILE", "from-env.env")
	path, explicit = envFileFromArgs(nil)
	assert.Equal(t, "from-env.env", path)
	assert.True(t, explicit)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, loadEnvFile(filepath.Join(dir, ".env"), false))
	assert.Error(t, loadEnvFile(filepath.Join(dir, "missing.env"), true))

	path := filepath.Join(dir, "table.env")
	require.NoError(t, os.WriteFile(path, []byte("CRAZYEIGHTS_TEST_WILD_RANK=J\n"), 0o600))
	t.Setenv("CRAZYEIGHTS_TEST_WILD_RANK", "")
	require.NoError(t, os.Unsetenv("CRAZYEIGHTS_TEST_WILD_RANK"))

	require.NoError(t, loadEnvFile(path, true))
	assert.Equal(t, "J", os.Getenv("CRAZYEIGHTS_TEST_WILD_RANK"))
}

func TestNewCmdReadsEnvironment(t *testing.T) {
	t.Setenv("CRAZYEIGHTS_WILD_RANK", "Q")
	t.Setenv("CRAZYEIGHTS_LEGACY_PLAY", "true")

	cfg := &Config{}
	cmd := newCmd(cfg)

	assert.Equal(t, "Q", cfg.wildRank)
	assert.True(t, cfg.legacyPlay)
	assert.Equal(t, "ws://localhost:8765", cfg.server)
	assert.Equal(t, "Q", cfg.rules().WildRank)
	assert.True(t, cfg.rules().RequiresDeclaration("Q"))
	assert.Equal(t, "crazyeights", cmd.Use)
}
