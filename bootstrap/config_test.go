package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/centraunit/digo/bootstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := bootstrap.ParseConfig([]byte("{}"))
		require.NoError(t, err)
		assert.Equal(t, bootstrap.DefaultConfig(), cfg)
	})

	t.Run("Overrides", func(t *testing.T) {
		cfg, err := bootstrap.ParseConfig([]byte(`
auto_start: false
log_level: debug
metrics_namespace: shop
startable:
  - mock.Database
  - mock.Cache
`))
		require.NoError(t, err)
		assert.False(t, cfg.AutoStart)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "shop", cfg.MetricsNamespace)
		assert.Equal(t, []string{"mock.Database", "mock.Cache"}, cfg.Startable)
	})

	t.Run("BadLevel", func(t *testing.T) {
		_, err := bootstrap.ParseConfig([]byte("log_level: loud"))
		assert.ErrorContains(t, err, "invalid log_level")
	})

	t.Run("EmptyTypeName", func(t *testing.T) {
		_, err := bootstrap.ParseConfig([]byte("startable: ['']"))
		assert.Error(t, err)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := bootstrap.ParseConfig([]byte("startable: ["))
		assert.ErrorContains(t, err, "failed to unmarshal YAML")
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("startable: [mock.Alpha]\n"), 0o644))

	cfg, err := bootstrap.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.AutoStart)
	assert.Equal(t, []string{"mock.Alpha"}, cfg.Startable)

	_, err = bootstrap.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
