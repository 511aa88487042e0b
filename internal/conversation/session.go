package conversation

// Session holds the provider/model configuration and resolved prompt
// fragments for one conversation. Character/persona/preset *resolution*
// is an external collaborator; Session only carries the already-resolved
// fragments the controller needs to build a request.
type Session struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Headers  map[string]string

	// SystemPrompt is the fully assembled system message: persona bio,
	// character card, and preset pre/post text composed around the
	// original system prompt by internal/app (character.ComposeSystemPrompt)
	// before being handed to the controller.
	SystemPrompt string
}
