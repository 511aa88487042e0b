package auth

import "testing"

func TestResolvePrefersConfigOverride(t *testing.T) {
	r, err := Resolve("openai", "OpenAI", "https://api.openai.com/v1", Override{APIKey: "sk-config"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.APIKey != "sk-config" || r.Source != "config" {
		t.Fatalf("want config-sourced key, got %+v", r)
	}
}

func TestResolveFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	r, err := Resolve("openai", "OpenAI", "https://api.openai.com/v1", Override{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.APIKey != "sk-env" || r.Source != "OPENAI_API_KEY env" {
		t.Fatalf("want env-sourced key, got %+v", r)
	}
}

func TestResolveNoCredentialsReturnsError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	_, err := Resolve("openai", "OpenAI", "https://api.openai.com/v1", Override{})
	if err == nil {
		t.Fatalf("expected an error when no credential source is available")
	}
}

func TestEnvKeyNameForCustomProvider(t *testing.T) {
	if got := envKeyName("my-provider"); got != "MY_PROVIDER_API_KEY" {
		t.Fatalf("want %q, got %q", "MY_PROVIDER_API_KEY", got)
	}
}
