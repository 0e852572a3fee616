package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config keys.
const (
	cfgKeyListenAddr = "listen_addr"
	cfgKeyDataDir    = "data_dir"
	cfgKeyMediaDir   = "media_dir"
	cfgKeyLogLevel   = "log_level"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	defaultListenAddr = "127.0.0.1:8420"
	defaultDataDir    = ".garden-db"
	defaultLogLevel   = "info"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# gardend configuration

# Address the HTTP API listens on
listen_addr: 127.0.0.1:8420

# Data directory holding the database (optional; overridable by --data-dir)
# data_dir:

# Media directory (default: <data_dir>/media)
# media_dir:

# Log level: debug, info, warn, error
log_level: info
`

// config is the resolved runtime configuration.
type config struct {
	ListenAddr string
	DataDir    string
	MediaDir   string
	LogLevel   string
}

// loadConfig reads config.yaml from the config directory, creating the
// directory and a default file on first run. A missing config.yaml is not an
// error. Resolution order for the data directory is flag, then config, then
// default; environment variables with the GARDEN_ prefix override config
// values.
func loadConfig(configDir string) (config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyDataDir, defaultDataDir)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("GARDEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config{
		ListenAddr: v.GetString(cfgKeyListenAddr),
		DataDir:    v.GetString(cfgKeyDataDir),
		MediaDir:   v.GetString(cfgKeyMediaDir),
		LogLevel:   v.GetString(cfgKeyLogLevel),
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = filepath.Join(cfg.DataDir, "media")
	}
	return cfg, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// databasePath returns the SQLite file location under the data directory,
// creating the directory if needed.
func databasePath(cfg config) (string, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(cfg.DataDir, "garden.db"), nil
}
