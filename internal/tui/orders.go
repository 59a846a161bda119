package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

type ordersLoadedMsg struct {
	orders []domain.Order
	err    error
}

type copiedMsg struct {
	what string
	err  error
}

// copyText writes text to the system clipboard.
func copyText(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func copied(e *env, msg copiedMsg) tea.Cmd {
	if msg.err != nil {
		e.log.Warn("clipboard", zap.Error(msg.err))
		notify.Errorf(e.notes, "Clipboard unavailable")
		return nil
	}
	notify.Successf(e.notes, "%s copied", msg.what)
	return nil
}

type ordersModel struct {
	env     *env
	orders  []domain.Order
	cursor  int
	detail  bool
	loading bool
	err     error
	width   int
	height  int
}

func newOrdersModel(e *env) ordersModel {
	return ordersModel{env: e, loading: true}
}

func (m ordersModel) Init() tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	return func() tea.Msg {
		orders, err := c.ListOrders(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func (m ordersModel) Update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.env.log.Warn("list orders", zap.Error(msg.err))
			return m, nil
		}
		m.orders = msg.orders
		if m.cursor >= len(m.orders) {
			m.cursor = 0
			m.detail = false
		}
		return m, nil

	case copiedMsg:
		return m, copied(m.env, msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if !m.detail && m.cursor < len(m.orders)-1 {
				m.cursor++
			}
		case "k", "up":
			if !m.detail && m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.orders) {
				m.detail = !m.detail
			}
		case "esc":
			m.detail = false
		case "y":
			if m.cursor < len(m.orders) {
				return m, copyText("Order number", m.orders[m.cursor].OrderNumber)
			}
		case "o":
			m.env.openWeb("/dashboard/orders")
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m ordersModel) View() string {
	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("MY ORDERS"))
	if len(m.orders) > 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d orders", len(m.orders))))
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	switch {
	case m.loading && m.orders == nil:
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != nil && m.orders == nil:
		b.WriteString(" " + errorStyle.Render("could not load orders"))
		return b.String()
	case len(m.orders) == 0:
		b.WriteString(" " + dimStyle.Render("No orders yet. Your first box is a few keys away."))
		return b.String()
	}

	if m.detail {
		return b.String() + m.viewDetail(m.orders[m.cursor])
	}

	for i, o := range m.orders {
		row := fmt.Sprintf("%s  %s  %s  %s",
			padRight("#"+o.OrderNumber, 16),
			dimStyle.Render(padRight(formatTime(o.CreatedAt), 12)),
			OrderStatusStyle(o.Status).Render(padRight(o.Status.Label(), 17)),
			priceStyle.Render(formatPrice(o.TotalPrice)),
		)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + selectedStyle.Render(row)))
		} else {
			b.WriteString("   " + normalStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ordersModel) viewDetail(o domain.Order) string {
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render("Order #"+o.OrderNumber) + "  " + OrderStatusStyle(o.Status).Render(o.Status.Label()) + "\n\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "   %s  %s  %s\n",
			normalStyle.Render(padRight(truncStr(item.DisplayName(), 28), 28)),
			dimStyle.Render(fmt.Sprintf("%d meals × %d  x%d", item.MealsCount, item.ServingsPerMeal, item.EffectiveQuantity())),
			priceStyle.Render(formatPrice(item.TotalPrice)),
		)
	}
	b.WriteString("\n   " + dimStyle.Render(padRight("Total", 10)) + " " + priceStyle.Render(formatPrice(o.TotalPrice)) + "\n")
	a := o.DeliveryAddress
	b.WriteString("   " + dimStyle.Render(padRight("Address", 10)) + " " + normalStyle.Render(strings.Trim(a.Street+", "+a.City, ", ")) + "\n")
	if a.Phone != "" {
		b.WriteString("   " + dimStyle.Render(padRight("Phone", 10)) + " " + normalStyle.Render(a.Phone) + "\n")
	}
	b.WriteString("   " + dimStyle.Render(padRight("Placed", 10)) + " " + normalStyle.Render(formatTime(o.CreatedAt)) + "\n")
	b.WriteString("   " + dimStyle.Render(padRight("Delivery", 10)) + " " + normalStyle.Render(formatDate(o.DeliveryDate)) + "\n")
	return b.String()
}
