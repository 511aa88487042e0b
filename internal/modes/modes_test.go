package modes

import (
	"testing"

	"chabeau/internal/transcript"
)

func sampleMessages() []transcript.Message {
	return []transcript.Message{
		{Role: transcript.RoleUser, Content: "U1"},
		{Role: transcript.RoleAssistant, Content: "A1"},
		{Role: transcript.RoleUser, Content: "U2"},
		{Role: transcript.RoleAssistant, Content: "A2"},
	}
}

func TestEnterComposeTogglesBackToNormal(t *testing.T) {
	s := New()
	s.EnterCompose()
	if s.Kind != Compose {
		t.Fatalf("want Compose, got %v", s.Kind)
	}
	s.EnterCompose()
	if s.Kind != Normal {
		t.Fatalf("want Normal after second EnterCompose, got %v", s.Kind)
	}
}

func TestEnterEditSelectStartsAtMostRecentOfTargetRole(t *testing.T) {
	s := New()
	if !s.EnterEditSelect(TargetUser, sampleMessages()) {
		t.Fatalf("want EnterEditSelect to succeed")
	}
	if s.EditSelect.Index != 2 {
		t.Fatalf("want index 2 (U2), got %d", s.EditSelect.Index)
	}
}

func TestEnterEditSelectFailsWhenNoMessageOfRole(t *testing.T) {
	s := New()
	if s.EnterEditSelect(TargetAssistant, nil) {
		t.Fatalf("want EnterEditSelect to fail on empty transcript")
	}
	if s.Kind != Normal {
		t.Fatalf("want mode unchanged on failure, got %v", s.Kind)
	}
}

func TestCycleEditSelectWrapsAtEnds(t *testing.T) {
	s := New()
	s.EnterEditSelect(TargetUser, sampleMessages())
	// cursor at index 2 (U2); cycling down should wrap to index 0 (U1).
	s.CycleEditSelect(sampleMessages(), 1)
	if s.EditSelect.Index != 0 {
		t.Fatalf("want wrap to index 0, got %d", s.EditSelect.Index)
	}
	// cycling up from index 0 should wrap back to index 2.
	s.CycleEditSelect(sampleMessages(), -1)
	if s.EditSelect.Index != 2 {
		t.Fatalf("want wrap to index 2, got %d", s.EditSelect.Index)
	}
}

func TestEnterBlockSelectFailsWithNoBlocks(t *testing.T) {
	s := New()
	if s.EnterBlockSelect(0) {
		t.Fatalf("want EnterBlockSelect to fail with zero blocks")
	}
}

func TestEnterBlockSelectStartsAtLastBlock(t *testing.T) {
	s := New()
	if !s.EnterBlockSelect(3) {
		t.Fatalf("want EnterBlockSelect to succeed")
	}
	if s.BlockSelect.BlockIndex != 2 {
		t.Fatalf("want last block index 2, got %d", s.BlockSelect.BlockIndex)
	}
}

func TestCycleBlockSelectClampsAtEnds(t *testing.T) {
	s := New()
	s.EnterBlockSelect(3)
	s.CycleBlockSelect(3, 1)
	if s.BlockSelect.BlockIndex != 2 {
		t.Fatalf("want clamp at 2, got %d", s.BlockSelect.BlockIndex)
	}
	s.CycleBlockSelect(3, -1)
	s.CycleBlockSelect(3, -1)
	s.CycleBlockSelect(3, -1)
	if s.BlockSelect.BlockIndex != 0 {
		t.Fatalf("want clamp at 0, got %d", s.BlockSelect.BlockIndex)
	}
}

func TestEnterFilePromptRecordsExists(t *testing.T) {
	s := New()
	s.EnterFilePrompt("block", "chabeau-block-2026-07-30.go", []byte("package main"), true)
	if s.Kind != FilePrompt {
		t.Fatalf("want FilePrompt, got %v", s.Kind)
	}
	if !s.FilePrompt.Exists {
		t.Fatalf("want Exists true")
	}
}

func TestRenameFilePromptReevaluatesExists(t *testing.T) {
	s := New()
	s.EnterFilePrompt("block", "a.go", []byte("x"), true)
	s.RenameFilePrompt("b.go", func(name string) bool { return name == "taken.go" })
	if s.FilePrompt.Exists {
		t.Fatalf("want Exists false for renamed file")
	}
	if s.FilePrompt.Name != "b.go" {
		t.Fatalf("want name updated, got %q", s.FilePrompt.Name)
	}
}

func TestToNormalResetsState(t *testing.T) {
	s := New()
	s.EnterEditSelect(TargetUser, sampleMessages())
	s.ToNormal()
	if s.Kind != Normal {
		t.Fatalf("want Normal, got %v", s.Kind)
	}
}
