package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const appName = "klinh-admin"

// EnvPrefix prefixes environment overrides, e.g. KLINH_FILTERS_DEBOUNCE_MS
const EnvPrefix = "klinh"

// Config holds all application configuration
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	UI       UIConfig       `mapstructure:"ui"`
	Filters  FiltersConfig  `mapstructure:"filters"`
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type GeneralConfig struct {
	DefaultLimit int  `mapstructure:"default_limit"`
	ConfirmReset bool `mapstructure:"confirm_reset"`
}

type UIConfig struct {
	Theme         string `mapstructure:"theme"`
	MouseEnabled  bool   `mapstructure:"mouse_enabled"`
	FilterMenuKey string `mapstructure:"filter_menu_key"`
	ShowHelpBar   bool   `mapstructure:"show_help_bar"`
}

// FiltersConfig controls how filter state is written to the location
type FiltersConfig struct {
	QueryKey     string `mapstructure:"query_key"`
	DebounceMs   int    `mapstructure:"debounce_ms"`
	ThrottleMs   int    `mapstructure:"throttle_ms"`
	Shallow      bool   `mapstructure:"shallow"`
	CloseDelayMs int    `mapstructure:"close_delay_ms"`
}

func (c FiltersConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func (c FiltersConfig) Throttle() time.Duration {
	return time.Duration(c.ThrottleMs) * time.Millisecond
}

func (c FiltersConfig) CloseDelay() time.Duration {
	return time.Duration(c.CloseDelayMs) * time.Millisecond
}

type DataConfig struct {
	// Source is "memory" for the sample catalog or "postgres"
	Source               string `mapstructure:"source"`
	PageSize             int    `mapstructure:"page_size"`
	MaxCellDisplayLength int    `mapstructure:"max_cell_display_length"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
	Table    string `mapstructure:"table"`
}

type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			DefaultLimit: 100,
			ConfirmReset: false,
		},
		UI: UIConfig{
			Theme:         "default",
			MouseEnabled:  true,
			FilterMenuKey: "ctrl+shift+f",
			ShowHelpBar:   true,
		},
		Filters: FiltersConfig{
			QueryKey:     "filters",
			DebounceMs:   300,
			ThrottleMs:   50,
			Shallow:      true,
			CloseDelayMs: 100,
		},
		Data: DataConfig{
			Source:               "memory",
			PageSize:             20,
			MaxCellDisplayLength: 40,
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "prefer",
			Table:   "products",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FlagKeys maps command line flag names to config keys
var FlagKeys = map[string]string{
	"theme":       "ui.theme",
	"source":      "data.source",
	"page-size":   "data.page_size",
	"query-key":   "filters.query_key",
	"shallow":     "filters.shallow",
	"debounce-ms": "filters.debounce_ms",
	"table":       "database.table",
	"history":     "history.enabled",
	"log-level":   "logging.level",
	"log-file":    "logging.file",
}

// Load loads configuration from path, or from the standard locations when
// path is empty. Flags present in flags override file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// User config directory first
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v, GetDefaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// A missing file is fine, the defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.History.Path == "" {
		if dir, err := GetConfigPath(); err == nil {
			cfg.History.Path = filepath.Join(dir, "history.db")
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("general.default_limit", d.General.DefaultLimit)
	v.SetDefault("general.confirm_reset", d.General.ConfirmReset)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.filter_menu_key", d.UI.FilterMenuKey)
	v.SetDefault("ui.show_help_bar", d.UI.ShowHelpBar)
	v.SetDefault("filters.query_key", d.Filters.QueryKey)
	v.SetDefault("filters.debounce_ms", d.Filters.DebounceMs)
	v.SetDefault("filters.throttle_ms", d.Filters.ThrottleMs)
	v.SetDefault("filters.shallow", d.Filters.Shallow)
	v.SetDefault("filters.close_delay_ms", d.Filters.CloseDelayMs)
	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.page_size", d.Data.PageSize)
	v.SetDefault("data.max_cell_display_length", d.Data.MaxCellDisplayLength)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.table", d.Database.Table)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}
