package theme

import "github.com/charmbracelet/glamour/ansi"

// GlamourStyle builds a glamour ansi.StyleConfig from the theme's colors,
// for components that want a glamour StyleConfig.
func (t *Theme) GlamourStyle() ansi.StyleConfig {
	text := string(t.Text)
	muted := string(t.Muted)
	link := string(t.Link)
	warn := string(t.AppWarning)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &text},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &muted, Italic: boolPtr(true)},
		},
		Emph: ansi.StylePrimitive{Color: &warn, Italic: boolPtr(true)},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: &text,
		},
		Link: ansi.StylePrimitive{
			Color:     &link,
			Underline: boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &text},
		},
	}
}

func boolPtr(b bool) *bool { return &b }
