package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Save writes cfg to config.yaml atomically: build the document in memory,
// write it to a temp file in the same directory, then rename over the
// target, so a crash or concurrent reader never observes a half-written
// file. The YAML is built by hand with a strings.Builder rather than
// round-tripping through a marshaler, to keep key order stable across
// saves. Each save writes a fresh document, so comments in an existing
// config.yaml are not preserved.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "default_provider: %s\n", quoteIfNeeded(cfg.DefaultProvider))
	fmt.Fprintf(&b, "theme: %s\n", quoteIfNeeded(cfg.Theme))
	if cfg.CustomThemesDir != "" {
		fmt.Fprintf(&b, "custom_themes_dir: %s\n", quoteIfNeeded(cfg.CustomThemesDir))
	}
	if cfg.LogDir != "" {
		fmt.Fprintf(&b, "log_dir: %s\n", quoteIfNeeded(cfg.LogDir))
	}
	if cfg.DefaultPersona != "" {
		fmt.Fprintf(&b, "default_persona: %s\n", quoteIfNeeded(cfg.DefaultPersona))
	}
	if cfg.DefaultPreset != "" {
		fmt.Fprintf(&b, "default_preset: %s\n", quoteIfNeeded(cfg.DefaultPreset))
	}

	if len(cfg.Providers) > 0 {
		b.WriteString("providers:\n")
		names := make([]string, 0, len(cfg.Providers))
		for name := range cfg.Providers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pc := cfg.Providers[name]
			fmt.Fprintf(&b, "  %s:\n", name)
			if pc.APIKey != "" {
				fmt.Fprintf(&b, "    api_key: %s\n", quoteIfNeeded(pc.APIKey))
			}
			if pc.Model != "" {
				fmt.Fprintf(&b, "    model: %s\n", quoteIfNeeded(pc.Model))
			}
			if pc.BaseURL != "" {
				fmt.Fprintf(&b, "    base_url: %s\n", quoteIfNeeded(pc.BaseURL))
			}
		}
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config file into place: %w", err)
	}
	return nil
}

// quoteIfNeeded wraps a YAML scalar in double quotes when it contains
// characters that would otherwise change its parsed meaning.
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`") || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return s
}
