package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFirstRunWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	cfg, err := loadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, defaultDataDir, cfg.DataDir)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(defaultDataDir, "media"), cfg.MediaDir)

	_, err = os.Stat(filepath.Join(dir, configFileExt))
	assert.NoError(t, err, "default config.yaml is written on first run")
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(
		"listen_addr: 0.0.0.0:9000\ndata_dir: /tmp/garden-data\nlog_level: debug\n",
	), 0o644))

	cfg, err := loadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/garden-data", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/tmp/garden-data", "media"), cfg.MediaDir)
}

func TestLoadConfigFlagOverridesDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(
		"data_dir: from-config\n",
	), 0o644))

	flags.dataDir = "from-flag"
	t.Cleanup(func() { flags.dataDir = "" })

	cfg, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.DataDir)
	assert.Equal(t, filepath.Join("from-flag", "media"), cfg.MediaDir)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GARDEN_LISTEN_ADDR", "127.0.0.1:1234")

	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.ListenAddr)
}

func TestLoadConfigExistingFileNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	original := []byte("log_level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), original, 0o644))

	_, err := loadConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, original, data)
}
