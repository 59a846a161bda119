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

type cartFetchedMsg struct{ err error }

// cartMutatedMsg reports a cart write. The snapshot itself lives in the
// cart store, so only the outcome travels through the message.
type cartMutatedMsg struct {
	op       string
	err      error
	success  string
	fallback string
}

type cartModel struct {
	env     *env
	cursor  int
	loading bool
	busy    bool
	confirm bool // asked to clear the whole cart
	width   int
	height  int
}

func newCartModel(e *env) cartModel {
	return cartModel{env: e}
}

func (m cartModel) Init() tea.Cmd {
	if m.env.cart == nil {
		return nil
	}
	carts := m.env.cart
	return func() tea.Msg {
		return cartFetchedMsg{err: carts.FetchCart(context.Background())}
	}
}

func (m cartModel) mutate(op, success, fallback string, fn func(context.Context) error) tea.Cmd {
	if m.env.cart == nil {
		return nil
	}
	return func() tea.Msg {
		err := fn(context.Background())
		return cartMutatedMsg{op: op, err: err, success: success, fallback: fallback}
	}
}

func (m cartModel) Update(msg tea.Msg) (cartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cartFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.env.log.Warn("fetch cart", zap.Error(msg.err))
		}
		m.cursor = m.clamp(m.cursor)
		return m, nil

	case cartMutatedMsg:
		m.busy = false
		m.cursor = m.clamp(m.cursor)
		if msg.err != nil {
			m.env.log.Warn("cart "+msg.op, zap.Error(msg.err))
			if msg.fallback != "" {
				notify.Errorf(m.env.notes, "%s", client.UserMessage(msg.err, msg.fallback))
			}
			return m, nil
		}
		if msg.success != "" {
			notify.Successf(m.env.notes, "%s", msg.success)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirm {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m cartModel) updateConfirm(msg tea.KeyMsg) (cartModel, tea.Cmd) {
	m.confirm = false
	if msg.String() != "y" || m.env.cart == nil {
		return m, nil
	}
	m.busy = true
	carts := m.env.cart
	return m, m.mutate("clear", "Cart cleared", "Failed to clear cart", carts.ClearCart)
}

func (m cartModel) updateList(msg tea.KeyMsg) (cartModel, tea.Cmd) {
	snap := m.env.cartSnapshot()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(snap.Items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "+", "=", "-":
		if m.busy || m.cursor >= len(snap.Items) {
			return m, nil
		}
		item := snap.Items[m.cursor]
		qty := item.EffectiveQuantity() + 1
		if msg.String() == "-" {
			qty = item.EffectiveQuantity() - 1
		}
		m.busy = true
		carts := m.env.cart
		if qty < 1 {
			return m, m.mutate("remove", "Item removed", "Failed to update", func(ctx context.Context) error {
				return carts.RemoveItem(ctx, item.ID)
			})
		}
		return m, m.mutate("update", "", "Failed to update", func(ctx context.Context) error {
			return carts.UpdateItem(ctx, item.ID, domain.SetQuantity(qty))
		})
	case "d", "x":
		if m.busy || m.cursor >= len(snap.Items) {
			return m, nil
		}
		id := snap.Items[m.cursor].ID
		m.busy = true
		carts := m.env.cart
		return m, m.mutate("remove", "Removed from cart", "Failed to remove", func(ctx context.Context) error {
			return carts.RemoveItem(ctx, id)
		})
	case "D":
		if !snap.IsEmpty() {
			m.confirm = true
		}
	case "c", "enter":
		if snap.IsEmpty() {
			notify.Errorf(m.env.notes, "Your cart is empty")
			return m, nil
		}
		return m, gotoView(viewCheckout)
	case "r":
		m.loading = true
		return m, m.Init()
	case "o":
		m.env.openWeb("/cart")
	}
	return m, nil
}

func (m cartModel) clamp(cursor int) int {
	n := len(m.env.cartSnapshot().Items)
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (m cartModel) View() string {
	snap := m.env.cartSnapshot()
	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("YOUR CART"))
	if n := snap.ItemCount(); n > 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d items", n)))
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	if snap.IsEmpty() {
		if m.loading || (m.env.cart != nil && m.env.cart.Loading()) {
			b.WriteString(" " + dimStyle.Render("loading..."))
			return b.String()
		}
		b.WriteString("\n " + normalStyle.Render("Your cart is empty") + "\n")
		b.WriteString(" " + dimStyle.Render("Browse boxes with ") + helpKeyStyle.Render("1") + dimStyle.Render(" or build your own with ") + helpKeyStyle.Render("2"))
		return b.String()
	}

	nameW := max(m.width-46, 16)
	for i, item := range snap.Items {
		kind := "pre-made"
		if item.Type == domain.ItemCustomBox {
			kind = "custom"
		}
		row := fmt.Sprintf("%s  %s  %s  %s  %s",
			padRight(truncStr(item.DisplayName(), nameW), nameW),
			metaStyle.Render(padRight(kind, 8)),
			dimStyle.Render(fmt.Sprintf("%d meals × %d", item.MealsCount, item.ServingsPerMeal)),
			normalStyle.Render(fmt.Sprintf("x%d", item.EffectiveQuantity())),
			priceStyle.Render(formatPrice(item.TotalPrice)),
		)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + selectedStyle.Render(row)))
		} else {
			b.WriteString("   " + normalStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString(separator(m.width) + "\n")
	b.WriteString(" " + dimStyle.Render("Subtotal ") + priceStyle.Render(formatPrice(snap.CartTotal)))
	b.WriteString("   " + dimStyle.Render("Delivery ") + accentStyle.Render("Free") + "\n")
	b.WriteString(" " + selectedStyle.Render("Total ") + priceStyle.Bold(true).Render(formatPrice(snap.CartTotal)))
	if m.busy {
		b.WriteString("   " + dimStyle.Render("updating..."))
	}
	if m.confirm {
		b.WriteString("\n\n " + errorStyle.Render("Clear the whole cart?") + "  " + helpEntry("y", "yes") + "  " + helpEntry("n", "no"))
	}
	return b.String()
}
