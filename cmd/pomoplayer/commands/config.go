package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pomoplayer/internal/httpserver"
)

const (
	storeYAML   = "yaml"
	storeSQLite = "sqlite"

	playerOff = "off"
)

// appConfig is the runtime configuration. User settings live in the store.
type appConfig struct {
	Store          string `mapstructure:"store"`
	SettingsPath   string `mapstructure:"settings-path"`
	DBPath         string `mapstructure:"db-path"`
	APIEnabled     bool   `mapstructure:"api-enabled"`
	APIAddr        string `mapstructure:"api-addr"`
	LogLevel       string `mapstructure:"log-level"`
	MPRISPlayer    string `mapstructure:"mpris-player"`
	SoundsDir      string `mapstructure:"sounds-dir"`
	HistoryEnabled bool   `mapstructure:"history-enabled"`
	ConfigPath     string `mapstructure:"-"`
}

// needsDatabase reports whether any component uses the SQLite file.
func (cfg appConfig) needsDatabase() bool {
	return cfg.Store == storeSQLite || cfg.HistoryEnabled
}

// loadConfig reads .env, the environment (POMOPLAYER_*), the config file and
// bound flags, in increasing priority.
func loadConfig(cmd *cobra.Command, configPath string) (appConfig, error) {
	var cfg appConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("POMOPLAYER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("store", storeYAML)
	v.SetDefault("settings-path", "")
	v.SetDefault("db-path", "")
	v.SetDefault("api-enabled", false)
	v.SetDefault("api-addr", httpserver.DefaultAddr)
	v.SetDefault("log-level", "info")
	v.SetDefault("mpris-player", "")
	v.SetDefault("sounds-dir", "")
	v.SetDefault("history-enabled", true)

	if flag := cmd.Flags().Lookup("log-level"); flag != nil {
		if err := v.BindPFlag("log-level", flag); err != nil {
			return cfg, fmt.Errorf("bind log-level flag: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve user config dir: %w", err)
		}
		v.SetConfigFile(filepath.Join(configDir, appName, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &configFileNotFound) || os.IsNotExist(err)
		if configPath != "" || !missing {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	switch cfg.Store {
	case storeYAML, storeSQLite:
	default:
		return cfg, fmt.Errorf("invalid store %q: want %s or %s", cfg.Store, storeYAML, storeSQLite)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.SettingsPath = expandHome(cfg.SettingsPath, home)
		cfg.DBPath = expandHome(cfg.DBPath, home)
		cfg.SoundsDir = expandHome(cfg.SoundsDir, home)
	}
	return cfg, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return level, fmt.Errorf("invalid log-level %q: %w", value, err)
	}
	return level, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
