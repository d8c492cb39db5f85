package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. NPHDASH_API_BASE_URL.
const EnvPrefix = "NPHDASH"

// APIConfig holds the location of the REST backend.
type APIConfig struct {
	// BaseURL is the origin the fixed resource paths are appended to.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// Locale selects month names for displayed dates (es_ES, es, en).
	Locale string `mapstructure:"locale" yaml:"locale"`

	// EmptyDate is shown in place of an unset date.
	EmptyDate string `mapstructure:"empty_date" yaml:"empty_date"`

	// Timezone is the calendar dates are typed in. "Local" uses the
	// system zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// StoreConfig controls the local activity journal.
type StoreConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// Location resolves the configured timezone, falling back to the
// system zone when the name is unknown.
func (c *AppConfig) Location() *time.Location {
	name := strings.TrimSpace(c.Display.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigDir returns ~/.config/nphdash, or the working directory when
// the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "nphdash")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/nphdash/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	dir := ConfigDir()
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.locale", "es_ES")
	v.SetDefault("display.empty_date", "Sin fecha")
	v.SetDefault("display.timezone", "Local")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", filepath.Join(dir, "nphdash.log"))
	v.SetDefault("store.path", filepath.Join(dir, "activity.db"))
	v.SetDefault("store.retention_days", 90)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults and NPHDASH_* environment
// variables still apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("config %s: api.base_url must not be empty", path)
	}
	if cfg.Store.RetentionDays < 0 {
		cfg.Store.RetentionDays = 0
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("display.theme", cfg.Display.Theme)
	v.Set("display.locale", cfg.Display.Locale)
	v.Set("display.empty_date", cfg.Display.EmptyDate)
	v.Set("display.timezone", cfg.Display.Timezone)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.retention_days", cfg.Store.RetentionDays)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
