package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

type orderPlacedMsg struct {
	order *domain.Order
	err   error
}

// Checkout focus positions. City is a selector, the rest are text.
const (
	focusStreet = iota
	focusCity
	focusZip
	focusPhone
	checkoutFields
)

type checkoutModel struct {
	env    *env
	street field
	city   string
	zip    field
	phone  field
	focus  int
	busy   bool
	placed *domain.Order
	width  int
	height int
}

// newCheckoutModel builds the form, prefilled from the profile's default
// address when one is saved.
func newCheckoutModel(e *env) checkoutModel {
	m := checkoutModel{
		env:    e,
		street: field{label: "Street", required: true},
		city:   domain.DeliveryCities[0],
		zip:    field{label: "Zip"},
		phone:  field{label: "Phone", required: true},
	}
	if p, ok := e.profile(); ok {
		if addr, ok := p.DefaultAddress(); ok {
			m.street.value = addr.Street
			m.zip.value = addr.Zip
			m.phone.value = addr.Phone
			for _, c := range domain.DeliveryCities {
				if strings.EqualFold(c, addr.City) {
					m.city = c
				}
			}
		}
	}
	return m
}

func (m checkoutModel) address() domain.DeliveryAddress {
	return domain.DeliveryAddress{
		Street: strings.TrimSpace(m.street.value),
		City:   m.city,
		Zip:    strings.TrimSpace(m.zip.value),
		Phone:  strings.TrimSpace(m.phone.value),
	}
}

func (m checkoutModel) placeOrder(addr domain.DeliveryAddress) tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	carts := m.env.cart
	log := m.env.log
	return func() tea.Msg {
		ctx := context.Background()
		order, err := c.CreateOrder(ctx, domain.CreateOrderRequest{
			DeliveryAddress: addr,
			PaymentMethod:   domain.PaymentCashOnDelivery,
		})
		if err != nil {
			return orderPlacedMsg{err: err}
		}
		if carts != nil {
			if err := carts.ClearCart(ctx); err != nil {
				log.Warn("clear cart after order", zap.Error(err))
			}
		}
		return orderPlacedMsg{order: order}
	}
}

func (m checkoutModel) Update(msg tea.Msg) (checkoutModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case orderPlacedMsg:
		m.busy = false
		if msg.err != nil {
			m.env.log.Warn("create order", zap.Error(msg.err))
			notify.Errorf(m.env.notes, "%s", client.UserMessage(msg.err, "Order failed"))
			return m, nil
		}
		m.placed = msg.order
		return m, nil

	case copiedMsg:
		return m, copied(m.env, msg)

	case tea.KeyMsg:
		if m.placed != nil {
			return m.updatePlaced(msg)
		}
		if m.busy {
			return m, nil
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m checkoutModel) updatePlaced(msg tea.KeyMsg) (checkoutModel, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m, copyText("Order number", m.placed.OrderNumber)
	case "o":
		m.env.openWeb("/dashboard/orders")
	case "esc", "enter":
		return m, gotoView(viewOrders)
	case "b":
		return m, gotoView(viewBoxes)
	}
	return m, nil
}

func (m checkoutModel) updateForm(msg tea.KeyMsg) (checkoutModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, gotoView(viewCart)
	case "tab", "down":
		m.focus = (m.focus + 1) % checkoutFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + checkoutFields) % checkoutFields
	case "enter":
		if m.focus < checkoutFields-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	default:
		if m.focus == focusCity {
			switch msg.String() {
			case "right", "l", " ":
				m.city = cycle(domain.DeliveryCities, m.city)
			case "left", "h":
				m.city = cycleBack(domain.DeliveryCities, m.city)
			}
			return m, nil
		}
		if f := m.textField(); f != nil {
			f.value = editRune(f.value, msg.String())
		}
	}
	return m, nil
}

func (m *checkoutModel) textField() *field {
	switch m.focus {
	case focusStreet:
		return &m.street
	case focusZip:
		return &m.zip
	case focusPhone:
		return &m.phone
	}
	return nil
}

func (m checkoutModel) submit() (checkoutModel, tea.Cmd) {
	if m.env.cartSnapshot().IsEmpty() {
		notify.Errorf(m.env.notes, "Your cart is empty")
		return m, gotoView(viewCart)
	}
	addr := m.address()
	if len(addr.Missing()) > 0 {
		notify.Errorf(m.env.notes, "Please fill all required fields")
		return m, nil
	}
	cmd := m.placeOrder(addr)
	if cmd != nil {
		m.busy = true
	}
	return m, cmd
}

func (m checkoutModel) helpKeys() string {
	if m.placed != nil {
		return helpBar(helpEntry("y", "copy #"), helpEntry("o", "web"), helpEntry("enter", "my orders"), helpEntry("b", "keep shopping"))
	}
	if m.focus == focusCity {
		return helpBar(helpEntry("←/→", "city"), helpEntry("tab", "next"), helpEntry("esc", "back to cart"))
	}
	return helpBar(helpEntry("tab", "next"), helpEntry("enter", "next/place order"), helpEntry("ctrl+s", "place order"), helpEntry("esc", "back to cart"))
}

func (m checkoutModel) View() string {
	if m.placed != nil {
		return m.viewPlaced()
	}
	snap := m.env.cartSnapshot()

	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("CHECKOUT") + "\n")
	b.WriteString(separator(m.width) + "\n")
	b.WriteString(" " + sectionHeaderStyle.Render("── DELIVERY ADDRESS ──") + "\n")
	b.WriteString(renderField(m.street, m.focus == focusStreet) + "\n")

	cityRow := "   " + dimStyle.Render(padRight("City*", 10)) + " "
	if m.focus == focusCity {
		cityRow = " " + inputPromptStyle.Render(">") + " " + selectedStyle.Render(padRight("City*", 10)) + " " + accentStyle.Render("‹ ") + normalStyle.Render(m.city) + accentStyle.Render(" ›")
	} else {
		cityRow += normalStyle.Render(m.city)
	}
	b.WriteString(cityRow + "\n")
	b.WriteString(renderField(m.zip, m.focus == focusZip) + "\n")
	b.WriteString(renderField(m.phone, m.focus == focusPhone) + "\n\n")

	b.WriteString(" " + sectionHeaderStyle.Render("── ORDER SUMMARY ──") + "\n")
	for _, item := range snap.Items {
		fmt.Fprintf(&b, "   %s  %s  %s\n",
			normalStyle.Render(padRight(truncStr(item.DisplayName(), 28), 28)),
			dimStyle.Render(fmt.Sprintf("x%d", item.EffectiveQuantity())),
			priceStyle.Render(formatPrice(item.TotalPrice)),
		)
	}
	b.WriteString("   " + dimStyle.Render("Payment ") + normalStyle.Render("Cash on delivery") + "\n")
	b.WriteString("   " + selectedStyle.Render("Total ") + priceStyle.Bold(true).Render(formatPrice(snap.CartTotal)))
	if m.busy {
		b.WriteString("   " + dimStyle.Render("placing order..."))
	}
	return b.String()
}

func (m checkoutModel) viewPlaced() string {
	o := m.placed
	var sb strings.Builder
	sb.WriteString(accentStyle.Render("✓ Order confirmed") + "\n\n")
	sb.WriteString(dimStyle.Render(padRight("Order", 10)) + " " + selectedStyle.Render("#"+o.OrderNumber) + "\n")
	sb.WriteString(dimStyle.Render(padRight("Status", 10)) + " " + OrderStatusStyle(o.Status).Render(o.Status.Label()) + "\n")
	sb.WriteString(dimStyle.Render(padRight("Total", 10)) + " " + priceStyle.Render(formatPrice(o.TotalPrice)) + "\n")
	sb.WriteString(dimStyle.Render(padRight("Deliver to", 10)) + " " + normalStyle.Render(o.DeliveryAddress.Street+", "+o.DeliveryAddress.City) + "\n")
	if o.DeliveryDate != nil {
		sb.WriteString(dimStyle.Render(padRight("Arrives", 10)) + " " + normalStyle.Render(formatDate(o.DeliveryDate)) + "\n")
	}
	sb.WriteString("\n" + metaStyle.Render("Pay in cash when your box arrives."))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card.Render(sb.String()))
}
