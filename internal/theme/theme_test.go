package theme

import "testing"

func TestFromPresetFallsBackToMochaOnUnknownName(t *testing.T) {
	th := FromPreset("not-a-real-theme")
	if th.Name != "mocha" {
		t.Fatalf("want fallback to mocha, got %q", th.Name)
	}
}

func TestFromConfigOverridesOnTopOfBase(t *testing.T) {
	th := FromConfig(Config{Base: "latte", Link: "#ff00ff"})
	if string(th.Link) != "#ff00ff" {
		t.Fatalf("want overridden link color, got %q", th.Link)
	}
	if th.Text == "" {
		t.Fatalf("want base preset's text color carried through")
	}
}

func TestResolveUnknownThemeReturnsTypedError(t *testing.T) {
	_, err := Resolve("bogus", nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown theme name")
	}
	if _, ok := err.(*ErrUnknownTheme); !ok {
		t.Fatalf("want *ErrUnknownTheme, got %T", err)
	}
}

func TestResolveFindsCustomTheme(t *testing.T) {
	custom := map[string]Config{"mine": {Base: "mocha", Text: "#123456"}}
	th, err := Resolve("mine", custom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(th.Text) != "#123456" {
		t.Fatalf("want custom override applied, got %q", th.Text)
	}
}
