package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// field is one labelled text input in a form.
type field struct {
	label    string
	value    string
	secret   bool
	required bool
}

// renderField draws a form row. Focused rows show a block cursor.
func renderField(f field, focused bool) string {
	label := f.label
	if f.required {
		label += "*"
	}
	shown := f.value
	if f.secret {
		shown = strings.Repeat("•", utf8.RuneCountInString(f.value))
	}
	prefix := "   "
	labelStyle := dimStyle
	if focused {
		prefix = " " + inputPromptStyle.Render(">") + " "
		labelStyle = selectedStyle
	}
	row := prefix + labelStyle.Render(padRight(label, 10)) + " "
	switch {
	case focused:
		row += normalStyle.Render(shown) + accentStyle.Render("█")
	case shown == "":
		row += inputPlaceholderStyle.Render("…")
	default:
		row += normalStyle.Render(shown)
	}
	return row
}

func padRight(s string, n int) string {
	if w := utf8.RuneCountInString(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
