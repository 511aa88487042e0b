// Package config is the persisted-settings external collaborator: a typed
// Config struct backed by viper, loaded from
// $XDG_CONFIG_HOME/chabeau/config.yaml (or ~/.config/chabeau/config.yaml),
// mutated in memory, and saved back atomically via a Load/mutate/Save
// cycle, trimmed to the fields the core conversation/render pipeline
// actually consumes (providers, theme, default log/persona/preset
// selection). Sections for unrelated concerns like image generation,
// embeddings, search, agents, skills, and tools are out of scope and
// dropped (see DESIGN.md).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProviderConfig is per-provider configuration the user may override: the
// API key, default model, and (for openai_compatible-style providers) a
// base URL override. Mirrors internal/provider.Descriptor's shape minus
// the parts that are compiled into the static registry.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Config is Chabeau's persisted settings.
type Config struct {
	DefaultProvider string                    `mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `mapstructure:"providers"`

	Theme           string `mapstructure:"theme"`             // built-in preset name or a key into CustomThemes
	CustomThemesDir string `mapstructure:"custom_themes_dir"` // directory of *.toml theme files, see internal/theme

	LogDir      string `mapstructure:"log_dir"`      // default directory for --log when a bare filename is given
	DefaultPersona string `mapstructure:"default_persona"`
	DefaultPreset  string `mapstructure:"default_preset"`
}

// GetConfigDir returns the XDG config directory for chabeau: $XDG_CONFIG_HOME/chabeau,
// or ~/.config/chabeau if unset.
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "chabeau"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "chabeau"), nil
}

// GetConfigPath returns the path to config.yaml within the config directory.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaults() map[string]any {
	return map[string]any{
		"default_provider": "",
		"theme":            "mocha",
	}
}

// Load reads config.yaml (if present) over the built-in defaults.
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)

	for key, value := range defaults() {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return &cfg, nil
}

// ApplyOverrides applies CLI --provider/--model overrides on top of the
// loaded config: an empty override leaves the existing value untouched.
func (c *Config) ApplyOverrides(provider, model string) {
	if provider != "" {
		c.DefaultProvider = provider
	}
	if model != "" && c.DefaultProvider != "" {
		pc := c.Providers[c.DefaultProvider]
		pc.Model = model
		c.Providers[c.DefaultProvider] = pc
	}
}

// GetProviderConfig returns the stored override config for name, or a zero
// value if none is configured.
func (c *Config) GetProviderConfig(name string) ProviderConfig {
	return c.Providers[name]
}

// mutate loads the current on-disk config, applies f, and saves the result
// atomically. Used throughout this package's Set*/Clear* helpers so each
// one only has to express its own field change.
func mutate(f func(cfg *Config)) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	f(cfg)
	return Save(cfg)
}

// SetProvider persists a provider's api_key/model/base_url overrides.
func SetProvider(name string, pc ProviderConfig) error {
	return mutate(func(cfg *Config) {
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]ProviderConfig)
		}
		cfg.Providers[name] = pc
	})
}

// SetTheme persists the active theme name.
func SetTheme(name string) error {
	return mutate(func(cfg *Config) { cfg.Theme = name })
}

// Exists reports whether a config file is present.
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
