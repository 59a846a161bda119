package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

// Shimmer animation for the BOXIFY logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "BOXIFY" as a slow wave running from deep
// olive to fresh leaf green.
func renderShimmerLogo(frame int) string {
	const text = "BOXIFY"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep: (45, 74, 30) #2d4a1e   Bright: (132, 204, 22) #84cc16
		r := clampByte(45 + b*(132-45))
		g := clampByte(74 + b*(204-74))
		bl := clampByte(30 + b*(22-30))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#84cc16")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#65a30d"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#84cc16")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	borderColor  = lipgloss.Color("#1e1e2a")
	surfaceColor = lipgloss.Color("#111118")

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Toasts
	toastSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#84cc16")).
				Bold(true)

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	toastInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0"))

	// Status colors, mirroring the storefront badges
	orderStatusColors = map[domain.OrderStatus]lipgloss.Color{
		domain.OrderPending:        lipgloss.Color("#facc15"),
		domain.OrderPreparing:      lipgloss.Color("#60a5fa"),
		domain.OrderOutForDelivery: lipgloss.Color("#c084e0"),
		domain.OrderDelivered:      lipgloss.Color("#34d474"),
		domain.OrderPaid:           lipgloss.Color("#3ecce4"),
		domain.OrderCancelled:      lipgloss.Color("#e06060"),
	}

	subscriptionStatusColors = map[domain.SubscriptionStatus]lipgloss.Color{
		domain.SubscriptionActive:    lipgloss.Color("#34d474"),
		domain.SubscriptionPaused:    lipgloss.Color("#facc15"),
		domain.SubscriptionCancelled: lipgloss.Color("#e06060"),
	}

	tagColors = map[string]lipgloss.Color{
		"vegetarian":   lipgloss.Color("#34d474"),
		"vegan":        lipgloss.Color("#84cc16"),
		"gluten-free":  lipgloss.Color("#f0944a"),
		"high-protein": lipgloss.Color("#e06060"),
	}
)

// OrderStatusStyle returns the badge style for an order status.
func OrderStatusStyle(s domain.OrderStatus) lipgloss.Style {
	if c, ok := orderStatusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// SubscriptionStatusStyle returns the badge style for a subscription status.
func SubscriptionStatusStyle(s domain.SubscriptionStatus) lipgloss.Style {
	if c, ok := subscriptionStatusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// TagStyle returns a style colored for a dietary tag.
func TagStyle(tag string) lipgloss.Style {
	if c, ok := tagColors[tag]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

func toastStyle(l notify.Level) lipgloss.Style {
	switch l {
	case notify.Success:
		return toastSuccessStyle
	case notify.Error:
		return toastErrorStyle
	default:
		return toastInfoStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard spacing.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	path  string
}

var helpItems = []helpItem{
	{"Storefront", "/"},
	{"Browse boxes", "/boxes"},
	{"Build a box", "/build-box"},
	{"My orders", "/dashboard/orders"},
	{"My subscriptions", "/dashboard/subscriptions"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int, webURL string) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#84cc16")).
		Bold(true).
		Render("B O X I F Y")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Fresh meal kits, delivered.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#84cc16"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"boxify", "Open the storefront (interactive TUI)"},
		{"boxify login", "Sign in with email and password"},
		{"boxify register", "Create an account"},
		{"boxify whoami", "Show the signed-in profile"},
		{"boxify cart", "Print your cart"},
		{"boxify logout", "Clear your session"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-18s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Web (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-18s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-18s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(webURL+item.path))
	}
	return b.String()
}
