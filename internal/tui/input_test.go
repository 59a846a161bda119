package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "Cai", "r", "Cair"},
		{"append digit", "010", "0", "0100"},
		{"append space", "12 Nile", " ", "12 Nile "},
		{"space by name", "12", "space", "12 "},
		{"append at sign", "ahmed", "@", "ahmed@"},
		{"ignore enter", "abc", "enter", "abc"},
		{"ignore arrows", "abc", "left", "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"single char", "a", ""},
		{"longer string", "hello", "hell"},
		{"empty does nothing", "", ""},
		{"multi-byte rune", "كشري", "كشر"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, backspace) = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("expected input clamped at %d runes", maxInputLen)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight(2) = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("short input should be unchanged, got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("non-positive height should be unchanged, got %q", got)
	}
}

func TestRenderFieldMasksSecrets(t *testing.T) {
	out := renderField(field{label: "Password", value: "hunter2", secret: true}, false)
	if strings.Contains(out, "hunter2") {
		t.Error("secret value rendered in clear")
	}
	if !strings.Contains(out, "•••••••") {
		t.Errorf("expected mask, got %q", out)
	}
}

func TestRenderFieldMarksRequired(t *testing.T) {
	out := renderField(field{label: "Street", required: true}, true)
	if !strings.Contains(out, "Street*") {
		t.Errorf("expected required marker, got %q", out)
	}
	if !strings.Contains(out, "█") {
		t.Errorf("focused field should show a cursor, got %q", out)
	}
}
