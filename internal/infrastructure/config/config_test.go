package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHTTPPort, EnvStorageDriver, EnvStoragePath, EnvDiscoveryEnabled, "LOG_LEVEL", "LOG_FORMAT", "ENV"} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()
	assert.Equal(t, ":19970", cfg.Server.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Empty(t, cfg.Storage.Path)
	assert.False(t, cfg.Discovery.Enabled)
	assert.NotEmpty(t, cfg.Discovery.InstanceName)
	assert.True(t, cfg.MCP.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNewConfig_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHTTPPort, ":29970")
	t.Setenv(EnvStorageDriver, DriverBadger)
	t.Setenv(EnvStoragePath, ":memory:")
	t.Setenv(EnvDiscoveryEnabled, "true")

	cfg := NewConfig()
	assert.Equal(t, ":29970", cfg.Server.HTTPPort)
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
	assert.True(t, cfg.Discovery.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "todod.yaml")
	content := `
server:
  http_port: ":18080"
storage:
  driver: file
  path: /tmp/todos.json
discovery:
  enabled: true
  instance_name: kitchen
mcp:
  enabled: false
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":18080", cfg.Server.HTTPPort)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/todos.json", cfg.Storage.Path)
	assert.True(t, cfg.Discovery.Enabled)
	assert.Equal(t, "kitchen", cfg.Discovery.InstanceName)
	assert.False(t, cfg.MCP.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "todod.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: \":18080\"\n"), 0o644))
	t.Setenv(EnvHTTPPort, ":18081")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":18081", cfg.Server.HTTPPort)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("storage:\n  driver: postgres\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "unknown storage driver")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [\n"), 0o644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestStorageConfig_ResolvedStoragePath(t *testing.T) {
	ResetDataDir()
	defer ResetDataDir()
	t.Setenv(EnvDataDir, "/data/todod")

	tests := []struct {
		driver string
		path   string
		want   string
	}{
		{DriverSQLite, "", "/data/todod/todod.db"},
		{DriverBadger, "", "/data/todod/badger"},
		{DriverFile, "", "/data/todod/todos.json"},
		{DriverFile, "/custom/todos.json", "/custom/todos.json"},
	}

	for _, tt := range tests {
		t.Run(tt.driver+tt.path, func(t *testing.T) {
			cfg := &StorageConfig{Driver: tt.driver, Path: tt.path}
			assert.Equal(t, tt.want, cfg.ResolvedStoragePath())
		})
	}
}
