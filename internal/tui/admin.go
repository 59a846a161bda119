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

type adminSection int

const (
	adminStats adminSection = iota
	adminOrders
	adminSubs
	adminUsers
	adminSections
)

var adminSectionNames = [...]string{"Overview", "Orders", "Subscriptions", "Users"}

type adminStatsMsg struct {
	stats *domain.AdminStats
	err   error
}

type adminOrdersMsg struct {
	orders []domain.AdminOrder
	err    error
}

type adminSubsMsg struct {
	subs []domain.AdminSubscription
	err  error
}

type adminUsersMsg struct {
	users []domain.Profile
	err   error
}

// adminActionMsg reports a write. backendMessage selects whether the
// server's error text is shown instead of the fallback.
type adminActionMsg struct {
	success        string
	fallback       string
	backendMessage bool
	reload         adminSection
	err            error
}

type adminModel struct {
	env     *env
	section adminSection
	cursor  int
	busy    bool

	stats  *domain.AdminStats
	orders []domain.AdminOrder
	subs   []domain.AdminSubscription
	users  []domain.Profile
	loaded [adminSections]bool
	err    error

	width  int
	height int
}

func newAdminModel(e *env) adminModel {
	return adminModel{env: e}
}

func (m adminModel) Init() tea.Cmd {
	return m.load(m.section)
}

func (m adminModel) load(section adminSection) tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	ctx := context.Background()
	switch section {
	case adminOrders:
		return func() tea.Msg {
			orders, err := c.AdminOrders(ctx)
			return adminOrdersMsg{orders: orders, err: err}
		}
	case adminSubs:
		return func() tea.Msg {
			subs, err := c.AdminSubscriptions(ctx)
			return adminSubsMsg{subs: subs, err: err}
		}
	case adminUsers:
		return func() tea.Msg {
			users, err := c.AdminUsers(ctx)
			return adminUsersMsg{users: users, err: err}
		}
	}
	return func() tea.Msg {
		stats, err := c.AdminStats(ctx)
		return adminStatsMsg{stats: stats, err: err}
	}
}

func (m adminModel) rows() int {
	switch m.section {
	case adminOrders:
		return len(m.orders)
	case adminSubs:
		return len(m.subs)
	case adminUsers:
		return len(m.users)
	}
	return 0
}

func (m adminModel) loadedMsg(section adminSection, err error) adminModel {
	m.err = err
	if err != nil {
		m.env.log.Warn("admin load", zap.String("section", adminSectionNames[section]), zap.Error(err))
		return m
	}
	m.loaded[section] = true
	if m.section == section && m.cursor >= m.rows() {
		m.cursor = max(m.rows()-1, 0)
	}
	return m
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminStatsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m.loadedMsg(adminStats, msg.err), nil
	case adminOrdersMsg:
		if msg.err == nil {
			m.orders = msg.orders
		}
		return m.loadedMsg(adminOrders, msg.err), nil
	case adminSubsMsg:
		if msg.err == nil {
			m.subs = msg.subs
		}
		return m.loadedMsg(adminSubs, msg.err), nil
	case adminUsersMsg:
		if msg.err == nil {
			m.users = msg.users
		}
		return m.loadedMsg(adminUsers, msg.err), nil

	case adminActionMsg:
		m.busy = false
		if msg.err != nil {
			m.env.log.Warn("admin action", zap.Error(msg.err))
			text := msg.fallback
			if msg.backendMessage {
				text = client.UserMessage(msg.err, msg.fallback)
			}
			notify.Errorf(m.env.notes, "%s", text)
			return m, nil
		}
		notify.Successf(m.env.notes, "%s", msg.success)
		return m, m.load(msg.reload)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m adminModel) updateKeys(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "l", "right":
		return m.show((m.section + 1) % adminSections)
	case "shift+tab", "h", "left":
		return m.show((m.section - 1 + adminSections) % adminSections)
	case "j", "down":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m, m.load(m.section)
	case "o":
		m.env.openWeb("/admin")
	case "s":
		if m.section != adminOrders || m.busy || m.cursor >= len(m.orders) || m.env.client == nil {
			return m, nil
		}
		o := m.orders[m.cursor]
		next := o.Status.Next()
		c := m.env.client
		m.busy = true
		return m, func() tea.Msg {
			err := c.UpdateOrderStatus(context.Background(), o.ID, next)
			return adminActionMsg{success: "Order status updated", fallback: "Failed", reload: adminOrders, err: err}
		}
	case "g":
		if m.section != adminSubs || m.busy || m.cursor >= len(m.subs) || m.env.client == nil {
			return m, nil
		}
		id := m.subs[m.cursor].ID
		c := m.env.client
		m.busy = true
		return m, func() tea.Msg {
			err := c.GenerateSubscriptionOrder(context.Background(), id)
			return adminActionMsg{success: "Order generated!", fallback: "Failed", backendMessage: true, reload: adminSubs, err: err}
		}
	}
	return m, nil
}

// show switches section, loading it the first time it is opened.
func (m adminModel) show(section adminSection) (adminModel, tea.Cmd) {
	m.section = section
	m.cursor = 0
	if m.loaded[section] {
		return m, nil
	}
	return m, m.load(section)
}

func (m adminModel) helpKeys() string {
	keys := helpEntry("tab", "section") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("r", "refresh")
	switch m.section {
	case adminOrders:
		keys += "  " + helpEntry("s", "next status")
	case adminSubs:
		keys += "  " + helpEntry("g", "generate order")
	}
	return keys + "  " + helpEntry("o", "web")
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("ADMIN") + " ")
	for i, name := range adminSectionNames {
		if adminSection(i) == m.section {
			b.WriteString(" " + selectedStyle.Underline(true).Render(name))
		} else {
			b.WriteString(" " + dimStyle.Render(name))
		}
	}
	if m.busy {
		b.WriteString("  " + dimStyle.Render("working..."))
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	if !m.loaded[m.section] {
		if m.err != nil {
			b.WriteString(" " + errorStyle.Render(client.UserMessage(m.err, "could not load")))
		} else {
			b.WriteString(" " + dimStyle.Render("loading..."))
		}
		return b.String()
	}

	switch m.section {
	case adminStats:
		m.viewStats(&b)
	case adminOrders:
		m.viewOrders(&b)
	case adminSubs:
		m.viewSubs(&b)
	case adminUsers:
		m.viewUsers(&b)
	}
	return b.String()
}

func (m adminModel) viewStats(b *strings.Builder) {
	if m.stats == nil {
		return
	}
	stat := func(label, value string) {
		b.WriteString("   " + dimStyle.Render(padRight(label, 22)) + " " + selectedStyle.Render(value) + "\n")
	}
	stat("Total orders", groupThousands(int64(m.stats.TotalOrders)))
	stat("Revenue", formatPrice(m.stats.TotalRevenue))
	stat("Active subscriptions", groupThousands(int64(m.stats.ActiveSubscriptions)))
	stat("Customers", groupThousands(int64(m.stats.TotalUsers)))
}

func customerName(u *domain.UserRef) string {
	if u == nil {
		return "-"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (m adminModel) row(b *strings.Builder, i int, row string) {
	if i == m.cursor {
		b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + selectedStyle.Render(row)))
	} else {
		b.WriteString("   " + normalStyle.Render(row))
	}
	b.WriteString("\n")
}

func (m adminModel) viewOrders(b *strings.Builder) {
	if len(m.orders) == 0 {
		b.WriteString(" " + dimStyle.Render("No orders yet."))
		return
	}
	for i, o := range m.orders {
		m.row(b, i, fmt.Sprintf("%s  %s  %s  %s",
			padRight("#"+o.OrderNumber, 16),
			padRight(truncStr(customerName(o.Customer), 18), 18),
			OrderStatusStyle(o.Status).Render(padRight(o.Status.Label(), 17)),
			priceStyle.Render(formatPrice(o.TotalPrice)),
		))
	}
}

func (m adminModel) viewSubs(b *strings.Builder) {
	if len(m.subs) == 0 {
		b.WriteString(" " + dimStyle.Render("No subscriptions yet."))
		return
	}
	for i, s := range m.subs {
		m.row(b, i, fmt.Sprintf("%s  %s  %s  %s  %s",
			padRight(truncStr(s.DisplayName(), 22), 22),
			padRight(truncStr(customerName(s.Customer), 18), 18),
			SubscriptionStatusStyle(s.Status).Render(padRight(titleCase(string(s.Status)), 9)),
			dimStyle.Render(padRight(titleCase(s.Frequency), 8)),
			priceStyle.Render(formatPrice(s.FixedPricePerDelivery)),
		))
	}
}

func (m adminModel) viewUsers(b *strings.Builder) {
	if len(m.users) == 0 {
		b.WriteString(" " + dimStyle.Render("No users."))
		return
	}
	for i, u := range m.users {
		m.row(b, i, fmt.Sprintf("%s  %s  %s",
			padRight(truncStr(u.Name, 22), 22),
			padRight(truncStr(u.Email, 30), 30),
			metaStyle.Render(string(u.Role)),
		))
	}
}
