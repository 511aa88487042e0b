package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines every keybinding the compose/edit-select/block-select/
// picker/file-prompt handlers dispatch on.
type KeyMap struct {
	Quit   key.Binding
	Send   key.Binding
	NewlineAlt key.Binding

	ComposeToggle key.Binding

	ProviderPicker key.Binding
	ModelPicker    key.Binding
	ThemePicker    key.Binding

	EditSelectUser      key.Binding
	EditSelectAssistant key.Binding
	BlockSelectEnter    key.Binding

	Up   key.Binding
	Down key.Binding

	InPlaceEdit key.Binding
	Delete      key.Binding
	Escape      key.Binding

	CopyBlock key.Binding
	SaveBlock key.Binding

	ClearLine  key.Binding
	DeleteWord key.Binding

	PageUp   key.Binding
	PageDown key.Binding
	Tab      key.Binding

	Retry       key.Binding
	SortToggle  key.Binding
	ApplyPersist key.Binding
	Inspect     key.Binding
	ClearStatus key.Binding
}

// DefaultKeyMap returns Chabeau's default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("ctrl+c")),
		Send: key.NewBinding(key.WithKeys("enter")),
		NewlineAlt: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j")),

		ComposeToggle: key.NewBinding(key.WithKeys("f4")),

		ProviderPicker: key.NewBinding(key.WithKeys("f2")),
		ModelPicker:    key.NewBinding(key.WithKeys("f3")),
		ThemePicker:    key.NewBinding(key.WithKeys("f5")),

		EditSelectUser:      key.NewBinding(key.WithKeys("ctrl+p")),
		EditSelectAssistant: key.NewBinding(key.WithKeys("ctrl+x")),
		BlockSelectEnter:    key.NewBinding(key.WithKeys("ctrl+b")),

		Up:   key.NewBinding(key.WithKeys("up", "k")),
		Down: key.NewBinding(key.WithKeys("down", "j")),

		InPlaceEdit: key.NewBinding(key.WithKeys("e")),
		Delete:      key.NewBinding(key.WithKeys("delete")),
		Escape:      key.NewBinding(key.WithKeys("esc")),

		CopyBlock: key.NewBinding(key.WithKeys("c")),
		SaveBlock: key.NewBinding(key.WithKeys("s")),

		ClearLine:  key.NewBinding(key.WithKeys("ctrl+u")),
		DeleteWord: key.NewBinding(key.WithKeys("ctrl+w")),

		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Tab:      key.NewBinding(key.WithKeys("tab")),

		Retry:        key.NewBinding(key.WithKeys("ctrl+r")),
		SortToggle:   key.NewBinding(key.WithKeys("f6")),
		ApplyPersist: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j")),
		Inspect:      key.NewBinding(key.WithKeys("ctrl+o")),
		ClearStatus:  key.NewBinding(key.WithKeys("ctrl+l")),
	}
}
