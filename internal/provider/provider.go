// Package provider is the provider/model descriptor discovery external
// collaborator: a static registry of OpenAI-compatible
// endpoints the Picker (internal/picker) can list, including per-provider
// header injection for Anthropic-style variants some OpenAI-compatible
// gateways require.
package provider

// Descriptor describes one configured provider.
type Descriptor struct {
	ID          string
	DisplayName string
	BaseURL     string
	Headers     map[string]string
	Models      []string
}

// builtins is the static registry of well-known OpenAI-compatible
// endpoints. Entries here are a starting point, not an exhaustive list —
// further descriptors can be passed to NewRegistry as extras.
var builtins = []Descriptor{
	{
		ID:          "openai",
		DisplayName: "OpenAI",
		BaseURL:     "https://api.openai.com/v1",
		Models:      []string{"gpt-5.2", "gpt-5.2-mini", "gpt-4o"},
	},
	{
		ID:          "openrouter",
		DisplayName: "OpenRouter",
		BaseURL:     "https://openrouter.ai/api/v1",
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/chabeau",
			"X-Title":      "chabeau",
		},
		Models: []string{"x-ai/grok-code-fast-1", "anthropic/claude-sonnet-4.5"},
	},
	{
		ID:          "xai",
		DisplayName: "xAI",
		BaseURL:     "https://api.x.ai/v1",
		Models:      []string{"grok-4-1-fast"},
	},
	{
		ID:          "groq",
		DisplayName: "Groq",
		BaseURL:     "https://api.groq.com/openai/v1",
		Models:      []string{"llama-3.3-70b-versatile"},
	},
}

// Registry holds the resolved set of known providers: built-ins plus any
// extras passed to NewRegistry. Nothing reads custom providers from
// config.
type Registry struct {
	byID map[string]Descriptor
	order []string
}

// NewRegistry builds a Registry from the built-in list plus extras,
// with extras overriding a built-in of the same ID.
func NewRegistry(extras ...Descriptor) *Registry {
	r := &Registry{byID: make(map[string]Descriptor)}
	for _, d := range builtins {
		r.add(d)
	}
	for _, d := range extras {
		r.add(d)
	}
	return r
}

func (r *Registry) add(d Descriptor) {
	if _, exists := r.byID[d.ID]; !exists {
		r.order = append(r.order, d.ID)
	}
	r.byID[d.ID] = d
}

// Get returns the descriptor for id, if known.
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns every descriptor in registration order, built-ins first.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
