// Package theme resolves the active color palette: role colors, code-block
// background, and link color, drawn from built-in catppuccin-derived
// presets or a user-defined custom theme, and exposes a glamour-compatible
// style config for components that still want a StyleConfig.
package theme

import (
	"fmt"
	"os"

	"github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the resolved color palette for one session.
type Theme struct {
	Name string

	// Role colors, paralleling markdown.SpanKind.
	UserPrefix lipgloss.Color
	AppInfo    lipgloss.Color
	AppWarning lipgloss.Color
	AppError   lipgloss.Color
	Link       lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color

	// CodeBlockBg is the background used behind fenced code blocks.
	CodeBlockBg lipgloss.Color

	// Spinner colors the streaming indicator; Border colors the input-area
	// and overlay borders.
	Spinner lipgloss.Color
	Border  lipgloss.Color
}

// Config is the on-disk/TOML representation of a custom theme. Empty
// fields fall back to the base preset being customized.
type Config struct {
	Base       string `toml:"base"`
	UserPrefix string `toml:"user_prefix"`
	AppInfo    string `toml:"app_info"`
	AppWarning string `toml:"app_warning"`
	AppError   string `toml:"app_error"`
	Link       string `toml:"link"`
	Text       string `toml:"text"`
	Muted      string `toml:"muted"`
	CodeBlockBg string `toml:"code_block_bg"`
	Spinner    string `toml:"spinner"`
	Border     string `toml:"border"`
}

// builtins maps preset names to their catppuccin flavor.
var builtins = map[string]catppuccin.Flavor{
	"latte":     catppuccin.Latte,
	"frappe":    catppuccin.Frappe,
	"macchiato": catppuccin.Macchiato,
	"mocha":     catppuccin.Mocha,
}

// PresetNames lists built-in theme names in display order.
var PresetNames = []string{"mocha", "macchiato", "frappe", "latte"}

// FromPreset builds a Theme from a built-in catppuccin flavor name. Unknown
// names fall back to "mocha".
func FromPreset(name string) *Theme {
	flavor, ok := builtins[name]
	if !ok {
		name = "mocha"
		flavor = catppuccin.Mocha
	}
	return &Theme{
		Name:        name,
		UserPrefix:  hex(flavor.Blue()),
		AppInfo:     hex(flavor.Sky()),
		AppWarning:  hex(flavor.Yellow()),
		AppError:    hex(flavor.Red()),
		Link:        hex(flavor.Sapphire()),
		Text:        hex(flavor.Text()),
		Muted:       hex(flavor.Overlay0()),
		CodeBlockBg: hex(flavor.Mantle()),
		Spinner:     hex(flavor.Mauve()),
		Border:      hex(flavor.Surface1()),
	}
}

func hex(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

// FromConfig applies a custom theme's overrides on top of its base preset.
func FromConfig(cfg Config) *Theme {
	base := cfg.Base
	if base == "" {
		base = "mocha"
	}
	t := FromPreset(base)
	t.Name = "custom"

	override := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	override(&t.UserPrefix, cfg.UserPrefix)
	override(&t.AppInfo, cfg.AppInfo)
	override(&t.AppWarning, cfg.AppWarning)
	override(&t.AppError, cfg.AppError)
	override(&t.Link, cfg.Link)
	override(&t.Text, cfg.Text)
	override(&t.Muted, cfg.Muted)
	override(&t.CodeBlockBg, cfg.CodeBlockBg)
	override(&t.Spinner, cfg.Spinner)
	override(&t.Border, cfg.Border)
	return t
}

// ColorProfile detects the terminal's color capability, honoring the
// CHABEAU_COLOR override before falling back to COLORTERM/termenv
// auto-detection.
func ColorProfile() termenv.Profile {
	switch os.Getenv("CHABEAU_COLOR") {
	case "true", "256":
		return termenv.ANSI256
	case "16":
		return termenv.ANSI
	case "false", "none":
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Names returns every theme name known at resolution time: built-ins first
// (in PresetNames order), then registered custom theme names.
func Names(custom map[string]Config) []string {
	out := append([]string(nil), PresetNames...)
	for name := range custom {
		out = append(out, name)
	}
	return out
}

// ErrUnknownTheme is returned by Resolve for a name matching neither a
// built-in preset nor a registered custom theme.
type ErrUnknownTheme struct{ Name string }

func (e *ErrUnknownTheme) Error() string {
	return fmt.Sprintf("unknown theme %q", e.Name)
}

// Resolve looks up name among built-ins and the given custom registry.
func Resolve(name string, custom map[string]Config) (*Theme, error) {
	if _, ok := builtins[name]; ok {
		return FromPreset(name), nil
	}
	if cfg, ok := custom[name]; ok {
		t := FromConfig(cfg)
		t.Name = name
		return t, nil
	}
	return nil, &ErrUnknownTheme{Name: name}
}
