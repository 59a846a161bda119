package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// formatPrice renders an amount the way the storefront does: grouped
// thousands, no decimals unless there are some, then the currency.
func formatPrice(v float64) string {
	cents := int64(math.Round(v * 100))
	s := groupThousands(cents / 100)
	if frac := cents % 100; frac != 0 {
		if frac < 0 {
			frac = -frac
		}
		s += fmt.Sprintf(".%02d", frac)
	}
	return s + " EGP"
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatDate renders a calendar date, or "-" when unknown.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("Mon, Jan 2 2006")
}

// formatTime renders a relative timestamp for list displays.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// titleCase upper-cases the first letter: "weekly" -> "Weekly".
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

// cycle returns the element after cur in opts, wrapping around. An unknown
// cur yields the first option.
func cycle[T comparable](opts []T, cur T) T {
	for i, o := range opts {
		if o == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// separator renders a dim horizontal rule sized to the body width.
func separator(width int) string {
	w := width - 2
	if w < 4 {
		w = 4
	}
	return " " + metaStyle.Render(strings.Repeat("─", w))
}

// cycleBack is cycle in reverse.
func cycleBack[T comparable](opts []T, cur T) T {
	for i, o := range opts {
		if o == cur {
			return opts[(i-1+len(opts))%len(opts)]
		}
	}
	return opts[len(opts)-1]
}
