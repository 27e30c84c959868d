package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/kartoza/kartoza-qrgrab/internal/clipboard"
	"github.com/kartoza/kartoza-qrgrab/internal/decode"
	"github.com/kartoza/kartoza-qrgrab/internal/gesture"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".config/kartoza-qrgrab"
	// ConfigName is the configuration file name without extension
	ConfigName = "config"
	// ConfigType is the configuration file format
	ConfigType = "toml"
	// EnvPrefix prefixes environment overrides, e.g. QRGRAB_TIMEOUT
	EnvPrefix = "qrgrab"
)

// Config keys; flags with the same name (hyphens removed) are bound to them
const (
	KeyBackend       = "backend"
	KeyPollInterval  = "pollinterval"
	KeyTimeout       = "timeout"
	KeyMinSize       = "minsize"
	KeyParallel      = "parallel"
	KeyClipboardHold = "clipboardhold"
	KeyNotify        = "notify"
	KeyBeep          = "beep"
)

// Config holds the application configuration
type Config struct {
	Backend       string        `mapstructure:"backend"`
	PollInterval  time.Duration `mapstructure:"pollinterval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinSize       int           `mapstructure:"minsize"`
	Parallel      bool          `mapstructure:"parallel"`
	ClipboardHold time.Duration `mapstructure:"clipboardhold"`
	Notify        bool          `mapstructure:"notify"`
	Beep          bool          `mapstructure:"beep"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Backend:       "auto",
		PollInterval:  gesture.DefaultPollInterval,
		Timeout:       0,
		MinSize:       decode.DefaultMinSize,
		Parallel:      false,
		ClipboardHold: clipboard.DefaultHold,
		Notify:        true,
		Beep:          false,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigDir
	}
	return filepath.Join(home, DefaultConfigDir)
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigName+"."+ConfigType)
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyPollInterval, d.PollInterval)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyMinSize, d.MinSize)
	v.SetDefault(KeyParallel, d.Parallel)
	v.SetDefault(KeyClipboardHold, d.ClipboardHold)
	v.SetDefault(KeyNotify, d.Notify)
	v.SetDefault(KeyBeep, d.Beep)
}

// Init prepares v to read cfgFile, or the default location when empty,
// with environment overrides. A missing file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(GetConfigDir())
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile != "" && errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist: %w", cfgFile, err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

// Load decodes the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Backend {
	case "auto", "hyprland", "screenshot":
	default:
		return fmt.Errorf("invalid backend %q: expected auto, hyprland or screenshot", c.Backend)
	}

	if c.PollInterval < 0 || c.Timeout < 0 || c.ClipboardHold < 0 {
		return fmt.Errorf("durations must not be negative")
	}

	if c.MinSize < 0 {
		return fmt.Errorf("minsize must not be negative")
	}

	return nil
}

// Save writes cfg to path, creating its directory
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set(KeyBackend, cfg.Backend)
	v.Set(KeyPollInterval, cfg.PollInterval.String())
	v.Set(KeyTimeout, cfg.Timeout.String())
	v.Set(KeyMinSize, cfg.MinSize)
	v.Set(KeyParallel, cfg.Parallel)
	v.Set(KeyClipboardHold, cfg.ClipboardHold.String())
	v.Set(KeyNotify, cfg.Notify)
	v.Set(KeyBeep, cfg.Beep)

	v.SetConfigType(ConfigType)
	return v.WriteConfigAs(path)
}
