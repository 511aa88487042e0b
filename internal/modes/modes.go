// Package modes implements the app's mode state machines: Compose,
// EditSelect, BlockSelect, Picker, FilePrompt. A ToolPrompt mode is
// deliberately absent — tool/MCP calling is out of scope for this core.
package modes

import (
	"chabeau/internal/picker"
	"chabeau/internal/transcript"
)

// Kind identifies which mode is active. The zero value is Normal.
type Kind int

const (
	Normal Kind = iota
	Compose
	EditSelect
	BlockSelect
	Picker
	FilePrompt
)

func (k Kind) String() string {
	switch k {
	case Compose:
		return "compose"
	case EditSelect:
		return "edit-select"
	case BlockSelect:
		return "block-select"
	case Picker:
		return "picker"
	case FilePrompt:
		return "file-prompt"
	default:
		return "normal"
	}
}

// EditTarget selects which role EditSelect cycles through.
type EditTarget int

const (
	TargetUser EditTarget = iota
	TargetAssistant
)

// EditSelectState holds EditSelect's cursor: the transcript index of the
// currently-highlighted message of Target's role.
type EditSelectState struct {
	Target EditTarget
	Index  int
}

// BlockSelectState holds BlockSelect's cursor: the globally-unique code
// block index (PrewrapCache.renumber's BlockIndex), not a transcript
// index.
type BlockSelectState struct {
	BlockIndex int
}

// FilePromptState holds FilePrompt's pending save: a default filename,
// the raw payload to write, and whether a prior prompt discovered the
// name already exists (so the view can ask to overwrite/rename).
type FilePromptState struct {
	Kind     string // "dump" | "block"
	Name     string
	Payload  []byte
	Exists   bool
}

// State is the app's single active mode, a tagged union over Kind.
type State struct {
	Kind        Kind
	EditSelect  EditSelectState
	BlockSelect BlockSelectState
	Picker      *picker.Picker
	FilePrompt  FilePromptState
}

// New returns a State in Normal mode.
func New() *State {
	return &State{Kind: Normal}
}

// ToNormal exits whatever mode is active back to Normal (Esc from any
// mode).
func (s *State) ToNormal() {
	*s = State{Kind: Normal}
}

// EnterCompose toggles Compose mode, which flips Enter/NewLine semantics:
// from Compose it returns to Normal, from any other mode it enters
// Compose. The input buffer's contents and cursor are untouched.
func (s *State) EnterCompose() {
	if s.Kind == Compose {
		s.ToNormal()
		return
	}
	*s = State{Kind: Compose}
}

// roleOf maps an EditTarget to the transcript.Role it selects over.
func roleOf(target EditTarget) transcript.Role {
	if target == TargetAssistant {
		return transcript.RoleAssistant
	}
	return transcript.RoleUser
}

// EnterEditSelect enters EditSelect for target, starting at the most
// recent message of that role. Returns false (leaving s unchanged) if no
// message of that role exists.
func (s *State) EnterEditSelect(target EditTarget, messages []transcript.Message) bool {
	idx := lastIndexOfRole(messages, roleOf(target))
	if idx < 0 {
		return false
	}
	*s = State{Kind: EditSelect, EditSelect: EditSelectState{Target: target, Index: idx}}
	return true
}

func lastIndexOfRole(messages []transcript.Message, role transcript.Role) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == role {
			return i
		}
	}
	return -1
}

// CycleEditSelect moves the EditSelect cursor by delta (+1 down, -1 up)
// among messages of the active target's role, wrapping at the ends.
// No-op outside EditSelect or if no such messages exist.
func (s *State) CycleEditSelect(messages []transcript.Message, delta int) {
	if s.Kind != EditSelect {
		return
	}
	role := roleOf(s.EditSelect.Target)
	var indexes []int
	for i, m := range messages {
		if m.Role == role {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return
	}
	pos := 0
	for i, idx := range indexes {
		if idx == s.EditSelect.Index {
			pos = i
			break
		}
	}
	pos = ((pos+delta)%len(indexes) + len(indexes)) % len(indexes)
	s.EditSelect.Index = indexes[pos]
}

// EnterBlockSelect enters BlockSelect at the last (highest-indexed) code
// block. Returns false (leaving s unchanged) if totalBlocks is zero — the
// caller should then surface a "no code blocks" status.
func (s *State) EnterBlockSelect(totalBlocks int) bool {
	if totalBlocks <= 0 {
		return false
	}
	*s = State{Kind: BlockSelect, BlockSelect: BlockSelectState{BlockIndex: totalBlocks - 1}}
	return true
}

// CycleBlockSelect moves the BlockSelect cursor by delta, clamping at
// [0, totalBlocks-1]. No-op outside BlockSelect.
func (s *State) CycleBlockSelect(totalBlocks int, delta int) {
	if s.Kind != BlockSelect || totalBlocks <= 0 {
		return
	}
	next := s.BlockSelect.BlockIndex + delta
	if next < 0 {
		next = 0
	}
	if next >= totalBlocks {
		next = totalBlocks - 1
	}
	s.BlockSelect.BlockIndex = next
}

// EnterPicker enters Picker mode with the given engine (already
// constructed by the caller with its Items/ApplySessionFunc/etc set).
func (s *State) EnterPicker(p *picker.Picker) {
	*s = State{Kind: Picker, Picker: p}
}

// EnterFilePrompt enters FilePrompt for a pending save: text entry with
// a default name, prompting overwrite/rename if that name already
// exists. exists should be computed by the caller via os.Stat on
// defaultName before calling.
func (s *State) EnterFilePrompt(kind, defaultName string, payload []byte, exists bool) {
	*s = State{Kind: FilePrompt, FilePrompt: FilePromptState{
		Kind:    kind,
		Name:    defaultName,
		Payload: payload,
		Exists:  exists,
	}}
}

// RenameFilePrompt updates the pending filename (the user typed a new
// name after an overwrite conflict) and re-evaluates exists via the
// caller-supplied stat function.
func (s *State) RenameFilePrompt(name string, statExists func(string) bool) {
	if s.Kind != FilePrompt {
		return
	}
	s.FilePrompt.Name = name
	s.FilePrompt.Exists = statExists(name)
}
