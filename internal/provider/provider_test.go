package provider

import "testing"

func TestNewRegistryIncludesBuiltins(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("openai"); !ok {
		t.Fatalf("want built-in openai descriptor present")
	}
	if len(r.All()) == 0 {
		t.Fatalf("want at least one descriptor")
	}
}

func TestNewRegistryExtraOverridesBuiltin(t *testing.T) {
	r := NewRegistry(Descriptor{ID: "openai", DisplayName: "Custom OpenAI Gateway", BaseURL: "https://gw.example.com/v1"})
	d, ok := r.Get("openai")
	if !ok || d.DisplayName != "Custom OpenAI Gateway" {
		t.Fatalf("want extra to override built-in openai entry, got %+v", d)
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry(Descriptor{ID: "custom", DisplayName: "Custom"})
	all := r.All()
	if all[len(all)-1].ID != "custom" {
		t.Fatalf("want custom entry appended last, got %+v", all)
	}
}
