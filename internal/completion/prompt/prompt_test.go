package prompt

import (
	"testing"

	"aichat/internal/domain/models"
)

func TestFlatten_WithInstructionAndHistory(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
	}

	got := Flatten(history, "how are you?", "Be brief.")
	want := "Be brief.\nhello\nhi there\nhow are you?"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFlatten_EmptyInstruction(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
	}

	got := Flatten(history, "again", "")
	want := "hello\nagain"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFlatten_EmptyHistory(t *testing.T) {
	// The history join contributes nothing but the separating newline remains.
	got := Flatten(nil, "first message", "")
	want := "\nfirst message"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
