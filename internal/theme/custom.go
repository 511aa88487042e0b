package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadCustomThemes reads every *.toml file in dir as a Config, keyed by
// its filename without extension. A missing directory yields an empty
// registry rather than an error, since custom themes are optional.
func LoadCustomThemes(dir string) (map[string]Config, error) {
	out := make(map[string]Config)
	if dir == "" {
		return out, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read custom themes dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".toml")
		var cfg Config
		path := filepath.Join(dir, entry.Name())
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", entry.Name(), err)
		}
		out[name] = cfg
	}
	return out, nil
}
