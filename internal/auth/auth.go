// Package auth resolves the credentials and base URL for a provider:
// config override, then platform-keyring lookup, then environment
// variables, falling back to OPENAI_API_KEY/OPENAI_BASE_URL.
package auth

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Resolved is the outcome of credential resolution for one provider.
type Resolved struct {
	APIKey      string
	BaseURL     string
	ProviderID  string
	DisplayName string
	Source      string // human-readable, e.g. "config", "keyring", "OPENAI_API_KEY env"
}

// Override carries the config-level api_key/base_url for a provider, which
// takes precedence over every other source when non-empty.
type Override struct {
	APIKey  string
	BaseURL string

	// EnvOnly skips the config override and platform keyring, resolving
	// only from environment variables (the CLI's --env flag).
	EnvOnly bool
}

// Resolve resolves the API key and base URL for providerID, in precedence
// order: explicit config override, platform keyring entry (service name
// "chabeau-<providerID>"), then OPENAI_API_KEY/OPENAI_BASE_URL (or
// <PROVIDERID>_API_KEY for non-openai providers) environment variables.
// With override.EnvOnly set, the first two sources are skipped entirely.
func Resolve(providerID, displayName, defaultBaseURL string, override Override) (Resolved, error) {
	if !override.EnvOnly && override.APIKey != "" {
		baseURL := override.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		return Resolved{
			APIKey:      override.APIKey,
			BaseURL:     baseURL,
			ProviderID:  providerID,
			DisplayName: displayName,
			Source:      "config",
		}, nil
	}

	if !override.EnvOnly {
		if key, err := fromKeyring(providerID); err == nil && key != "" {
			baseURL := override.BaseURL
			if baseURL == "" {
				baseURL = defaultBaseURL
			}
			return Resolved{
				APIKey:      key,
				BaseURL:     baseURL,
				ProviderID:  providerID,
				DisplayName: displayName,
				Source:      "keyring",
			}, nil
		}
	}

	envVar := envKeyName(providerID)
	if key := os.Getenv(envVar); key != "" {
		baseURL := defaultBaseURL
		if !override.EnvOnly && override.BaseURL != "" {
			baseURL = override.BaseURL
		} else if providerID == "openai" {
			if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
				baseURL = v
			}
		}
		return Resolved{
			APIKey:      key,
			BaseURL:     baseURL,
			ProviderID:  providerID,
			DisplayName: displayName,
			Source:      envVar + " env",
		}, nil
	}

	return Resolved{}, fmt.Errorf("no credentials found for %s (set %s or configure an api_key)", displayName, envVar)
}

func envKeyName(providerID string) string {
	if providerID == "openai" {
		return "OPENAI_API_KEY"
	}
	upper := make([]byte, 0, len(providerID)+8)
	for _, r := range providerID {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r == '-' {
			r = '_'
		}
		upper = append(upper, byte(r))
	}
	return string(upper) + "_API_KEY"
}

// fromKeyring looks up a provider's credential in the platform keyring on
// macOS (via the `security` CLI), and
// falls back to a plain file under ~/.config/chabeau/credentials/ on other
// platforms.
func fromKeyring(providerID string) (string, error) {
	if runtime.GOOS == "darwin" {
		return fromMacKeychain(providerID)
	}
	return fromCredentialsFile(providerID)
}

func fromMacKeychain(providerID string) (string, error) {
	user := os.Getenv("USER")
	if user == "" {
		return "", fmt.Errorf("USER environment variable not set")
	}
	cmd := exec.Command("security", "find-generic-password",
		"-s", "chabeau-"+providerID,
		"-a", user,
		"-w")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("keychain lookup failed: %w", err)
	}
	return string(output), nil
}

func fromCredentialsFile(providerID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	path := filepath.Join(home, ".config", "chabeau", "credentials", providerID)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
