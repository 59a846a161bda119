package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var taglines = [...]string{
	"Fresh ingredients, pre-portioned, at your door.",
	"Pick six meals. We do the shopping.",
	"Dinner is a box away.",
	"Skip the market. Keep the cooking.",
	"Your week of meals, sorted before Sunday.",
	"Pause any week. Cancel any time.",
	"Cash on delivery, straight to your kitchen.",
}

var (
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#84cc16")).Bold(true)
	bannerQuote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	bannerCmd   = lipgloss.NewStyle().Bold(true)
	bannerDesc  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// helpLines flattens the command tree into "boxify cart rm <line>" style
// rows, parents first.
func helpLines(root *cobra.Command) []struct{ cmd, desc string } {
	lines := []struct{ cmd, desc string }{{"boxify", "Open the shop (interactive TUI)"}}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			lines = append(lines, struct{ cmd, desc string }{sub.CommandPath() + argsHint(sub), sub.Short})
			walk(sub)
		}
	}
	walk(root)
	return lines
}

func argsHint(c *cobra.Command) string {
	if i := strings.IndexByte(c.Use, ' '); i >= 0 {
		return c.Use[i:]
	}
	return ""
}

func printHelp(w io.Writer, root *cobra.Command) {
	title := bannerTitle.Render("B O X I F Y")
	quote := bannerQuote.Render(taglines[rand.Intn(len(taglines))])

	fmt.Fprintf(w, "\n  %s\n  %s\n\n  Commands:\n", title, quote) //nolint:errcheck
	for _, c := range helpLines(root) {
		fmt.Fprintf(w, "    %s  %s\n", bannerCmd.Render(fmt.Sprintf("%-24s", c.cmd)), bannerDesc.Render(c.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  %s\n\n", bannerDesc.Render("Flags: --api-url, --web-url. Settings also come from BOXIFY_* variables or .env.")) //nolint:errcheck
}
