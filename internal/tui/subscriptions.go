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

type subsLoadedMsg struct {
	subs []domain.Subscription
	err  error
}

type subActionMsg struct {
	success string
	err     error
}

type subsModel struct {
	env        *env
	subs       []domain.Subscription
	cursor     int
	loading    bool
	busy       bool
	confirming bool // waiting for y/n on cancel
	err        error
	width      int
	height     int
}

func newSubsModel(e *env) subsModel {
	return subsModel{env: e, loading: true}
}

func (m subsModel) Init() tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	return func() tea.Msg {
		subs, err := c.ListSubscriptions(context.Background())
		return subsLoadedMsg{subs: subs, err: err}
	}
}

// act runs one subscription action against id.
func (m subsModel) act(success string, fn func(context.Context, string) error, id string) tea.Cmd {
	return func() tea.Msg {
		return subActionMsg{success: success, err: fn(context.Background(), id)}
	}
}

func (m subsModel) Update(msg tea.Msg) (subsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case subsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.env.log.Warn("list subscriptions", zap.Error(msg.err))
			return m, nil
		}
		m.subs = msg.subs
		if m.cursor >= len(m.subs) {
			m.cursor = max(len(m.subs)-1, 0)
		}
		return m, nil

	case subActionMsg:
		m.busy = false
		if msg.err != nil {
			m.env.log.Warn("subscription action", zap.Error(msg.err))
			notify.Errorf(m.env.notes, "%s", client.UserMessage(msg.err, "Failed"))
			return m, nil
		}
		notify.Successf(m.env.notes, "%s", msg.success)
		return m, m.Init()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" && m.cursor < len(m.subs) && m.env.client != nil {
				m.busy = true
				return m, m.act("Subscription cancelled", m.env.client.CancelSubscription, m.subs[m.cursor].ID)
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m subsModel) updateList(msg tea.KeyMsg) (subsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.subs)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "r":
		m.loading = true
		return m, m.Init()
	case "o":
		m.env.openWeb("/dashboard/subscriptions")
		return m, nil
	case "b":
		return m, gotoView(viewBoxes)
	}

	if m.busy || m.cursor >= len(m.subs) || m.env.client == nil {
		return m, nil
	}
	sub := m.subs[m.cursor]
	c := m.env.client
	switch msg.String() {
	case "p":
		if sub.Status == domain.SubscriptionActive {
			m.busy = true
			return m, m.act("Subscription paused", c.PauseSubscription, sub.ID)
		}
	case "s":
		if sub.Status == domain.SubscriptionPaused {
			m.busy = true
			return m, m.act("Subscription resumed", c.ResumeSubscription, sub.ID)
		}
	case "c":
		if sub.Status != domain.SubscriptionCancelled {
			m.confirming = true
		}
	}
	return m, nil
}

func (m subsModel) helpKeys() string {
	if m.confirming {
		return helpEntry("y", "cancel subscription") + "  " + helpEntry("n", "keep it")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("p", "pause") + "  " + helpEntry("s", "resume") + "  " + helpEntry("c", "cancel") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("o", "web")
}

func (m subsModel) View() string {
	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("MY SUBSCRIPTIONS") + "\n")
	b.WriteString(separator(m.width) + "\n")

	switch {
	case m.loading && m.subs == nil:
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != nil && m.subs == nil:
		b.WriteString(" " + errorStyle.Render("could not load subscriptions"))
		return b.String()
	case len(m.subs) == 0:
		b.WriteString(" " + dimStyle.Render("No subscriptions yet. Open a box and press ") + helpKeyStyle.Render("u") + dimStyle.Render(" to subscribe."))
		return b.String()
	}

	nameW := max(m.width-60, 16)
	for i, sub := range m.subs {
		row := fmt.Sprintf("%s  %s  %s  %s  %s",
			padRight(truncStr(sub.DisplayName(), nameW), nameW),
			SubscriptionStatusStyle(sub.Status).Render(padRight(titleCase(string(sub.Status)), 9)),
			dimStyle.Render(padRight(titleCase(sub.Frequency)+" · "+titleCase(sub.DeliveryDay), 20)),
			metaStyle.Render(fmt.Sprintf("%d srv", sub.ServingsPerMeal)),
			priceStyle.Render(formatPrice(sub.FixedPricePerDelivery)),
		)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + selectedStyle.Render(row)))
		} else {
			b.WriteString("   " + normalStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.subs) {
		sub := m.subs[m.cursor]
		b.WriteString(separator(m.width) + "\n")
		b.WriteString(" " + dimStyle.Render("Next delivery ") + normalStyle.Render(formatDate(sub.NextDeliveryDate)))
		if sub.TotalDeliveries > 0 {
			b.WriteString("   " + dimStyle.Render("Delivered ") + normalStyle.Render(fmt.Sprintf("%d", sub.TotalDeliveries)))
		}
		b.WriteString("\n")
	}
	if m.confirming {
		b.WriteString("\n " + errorStyle.Render("Cancel this subscription?") + "  " + helpEntry("y", "yes") + "  " + helpEntry("n", "no"))
	} else if m.busy {
		b.WriteString("\n " + dimStyle.Render("working..."))
	}
	return b.String()
}
