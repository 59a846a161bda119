package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

type subscribedMsg struct{ err error }

// subscribeForm collects the cadence of a new subscription. The box and
// servings come from whichever view opened it.
type subscribeForm struct {
	open      bool
	frequency string
	day       string
}

func newSubscribeForm() subscribeForm {
	return subscribeForm{frequency: domain.Frequencies[0], day: domain.DeliveryDays[0]}
}

// handle processes a key while the form is open and reports whether the
// user confirmed.
func (f subscribeForm) handle(key string) (subscribeForm, bool) {
	switch key {
	case "f":
		f.frequency = cycle(domain.Frequencies, f.frequency)
	case "d":
		f.day = cycle(domain.DeliveryDays, f.day)
	case "esc":
		f.open = false
	case "enter":
		f.open = false
		return f, true
	}
	return f, false
}

func (f subscribeForm) View(what string, servings int) string {
	var sb strings.Builder
	sb.WriteString(" " + searchStyle.Render("Subscribe") + "  " + normalStyle.Render(what) + "\n\n")
	fmt.Fprintf(&sb, "   %s %s\n", dimStyle.Render(padRight("Servings", 12)), normalStyle.Render(fmt.Sprintf("%d per meal", servings)))
	fmt.Fprintf(&sb, "   %s %s  %s\n", dimStyle.Render(padRight("Frequency", 12)), selectedStyle.Render(titleCase(f.frequency)), helpKeyStyle.Render("f"))
	fmt.Fprintf(&sb, "   %s %s  %s\n", dimStyle.Render(padRight("Delivery day", 12)), selectedStyle.Render(titleCase(f.day)), helpKeyStyle.Render("d"))
	sb.WriteString("\n   " + metaStyle.Render("Cash on delivery. Your first order is generated right away.") + "\n")
	return sb.String()
}

func (f subscribeForm) helpKeys() string {
	return helpEntry("f", "frequency") + "  " + helpEntry("d", "day") + "  " + helpEntry("enter", "subscribe") + "  " + helpEntry("esc", "cancel")
}

func createSubscription(e *env, req domain.CreateSubscriptionRequest) tea.Cmd {
	if e.client == nil {
		return nil
	}
	c := e.client
	return func() tea.Msg {
		_, err := c.CreateSubscription(context.Background(), req)
		return subscribedMsg{err: err}
	}
}

// subscribed toasts the outcome and, on success, moves to the
// subscriptions tab.
func subscribed(e *env, msg subscribedMsg) tea.Cmd {
	if msg.err != nil {
		e.log.Warn("create subscription", zap.Error(msg.err))
		notify.Errorf(e.notes, "%s", client.UserMessage(msg.err, "Failed to subscribe"))
		return nil
	}
	notify.Successf(e.notes, "Subscription created! First order generated.")
	return gotoView(viewSubs)
}
