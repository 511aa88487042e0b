// Package character defines the contract surface the core consumes for
// character cards, personas, and presets, without implementing their
// resolution: no character-card/persona/preset resolution logic lives
// here, only the shapes the core needs. Modeled as a small interface the
// controller depends on, implemented by an external collaborator —
// mirroring how conversation.LogRewriter is consumed.
package character

// Card is a resolved character: a system-prompt fragment plus display
// metadata for the title bar.
type Card struct {
	ID          string
	DisplayName string
	SystemPrompt string
}

// Persona is the user's own resolved identity fragment, composed into the
// system prompt alongside a Character.
type Persona struct {
	ID   string
	Bio  string
}

// Preset wraps pre/post text around the assembled system prompt (e.g. a
// "be concise" preset appending a style instruction).
type Preset struct {
	ID   string
	Pre  string
	Post string
}

// Resolver resolves character/persona/preset IDs into their content. The
// core depends only on this interface; an external collaborator (not part
// of this module) supplies cards from disk, a bundled set, or a network
// source.
type Resolver interface {
	ResolveCharacter(id string) (Card, bool)
	ResolvePersona(id string) (Persona, bool)
	ResolvePreset(id string) (Preset, bool)
}

// ComposeSystemPrompt assembles the final system message from a base
// prompt and the resolved character/persona/preset fragments, in the
// order: preset.Pre, character system prompt, persona bio, base prompt,
// preset.Post. Any empty fragment is omitted.
func ComposeSystemPrompt(base string, card *Card, persona *Persona, preset *Preset) string {
	var parts []string
	if preset != nil && preset.Pre != "" {
		parts = append(parts, preset.Pre)
	}
	if card != nil && card.SystemPrompt != "" {
		parts = append(parts, card.SystemPrompt)
	}
	if persona != nil && persona.Bio != "" {
		parts = append(parts, persona.Bio)
	}
	if base != "" {
		parts = append(parts, base)
	}
	if preset != nil && preset.Post != "" {
		parts = append(parts, preset.Post)
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}
