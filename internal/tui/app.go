package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
)

type view int

const (
	viewLogin view = iota
	viewBoxes
	viewBuild
	viewCart
	viewCheckout
	viewOrders
	viewSubs
	viewProfile
	viewAdmin
)

// requiresAuth reports whether v is only reachable with a session.
func (v view) requiresAuth() bool {
	switch v {
	case viewCart, viewCheckout, viewOrders, viewSubs, viewProfile, viewAdmin:
		return true
	}
	return false
}

// toastDuration is how long a toast stays in the footer.
const toastDuration = 4 * time.Second

type toastMsg notify.Notification

type toastExpiredMsg struct{ seq int }

type sessionInvalidatedMsg client.SessionInvalidated

// needLoginMsg sends the user to the login form; after a successful login
// the app continues to the given view.
type needLoginMsg struct{ after view }

// gotoViewMsg switches views from inside a sub-model.
type gotoViewMsg struct{ to view }

func needLogin(after view) tea.Cmd {
	return func() tea.Msg { return needLoginMsg{after: after} }
}

func gotoView(v view) tea.Cmd {
	return func() tea.Msg { return gotoViewMsg{to: v} }
}

// App is the root Bubbletea model.
type App struct {
	env         *env
	toasts      *notify.Queue
	invalidated chan client.SessionInvalidated
	version     string

	view  view
	after view

	login    loginModel
	boxes    boxesModel
	build    buildModel
	cart     cartModel
	checkout checkoutModel
	orders   ordersModel
	subs     subsModel
	profile  profileModel
	admin    adminModel

	helpOpen   bool
	helpCursor int

	toast    *notify.Notification
	toastSeq int

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(d Deps) App {
	e := newEnv(d)
	a := App{
		env:         e,
		toasts:      d.Toasts,
		invalidated: make(chan client.SessionInvalidated, 1),
		version:     d.Version,
		view:        viewBoxes,
		after:       viewBoxes,
		login:       newLoginModel(e),
		boxes:       newBoxesModel(e),
		build:       newBuildModel(e),
		cart:        newCartModel(e),
		checkout:    newCheckoutModel(e),
		orders:      newOrdersModel(e),
		subs:        newSubsModel(e),
		profile:     newProfileModel(e),
		admin:       newAdminModel(e),
	}
	if d.Session != nil {
		ch := a.invalidated
		d.Session.OnInvalidated(func(ev client.SessionInvalidated) {
			select {
			case ch <- ev:
			default:
			}
		})
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.boxes.Init(), shimmerTickCmd(), a.waitToast(), a.waitInvalidated())
}

func (a App) waitToast() tea.Cmd {
	if a.toasts == nil {
		return nil
	}
	ch := a.toasts.C()
	return func() tea.Msg {
		return toastMsg(<-ch)
	}
}

func (a App) waitInvalidated() tea.Cmd {
	ch := a.invalidated
	return func() tea.Msg {
		return sessionInvalidatedMsg(<-ch)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + toast(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.login, _ = a.login.Update(bodyMsg)
		a.boxes, _ = a.boxes.Update(bodyMsg)
		a.build, _ = a.build.Update(bodyMsg)
		a.cart, _ = a.cart.Update(bodyMsg)
		a.checkout, _ = a.checkout.Update(bodyMsg)
		a.orders, _ = a.orders.Update(bodyMsg)
		a.subs, _ = a.subs.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case toastMsg:
		n := notify.Notification(msg)
		a.toast = &n
		a.toastSeq++
		seq := a.toastSeq
		expire := tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
		return a, tea.Batch(a.waitToast(), expire)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case sessionInvalidatedMsg:
		if a.view != viewLogin {
			a.after = a.view
		}
		a.view = viewLogin
		a.login = newLoginModel(a.env)
		notify.Errorf(a.env.notes, "Your session has expired. Please sign in again.")
		return a, a.waitInvalidated()

	case needLoginMsg:
		a.after = msg.after
		a.view = viewLogin
		return a, nil

	case gotoViewMsg:
		return a.switchTo(msg.to)

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			a.login = newLoginModel(a.env)
			next := a.after
			a.after = viewBoxes
			if next == viewBoxes && msg.profile.IsAdmin() {
				next = viewAdmin
			}
			return a.switchTo(next)
		}
		return a, cmd

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				a.env.openWeb(helpItems[a.helpCursor].path)
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewBoxes)
			case "2":
				return a.switchTo(viewBuild)
			case "3":
				return a.switchTo(viewCart)
			case "4":
				return a.switchTo(viewOrders)
			case "5":
				return a.switchTo(viewSubs)
			case "6":
				return a.switchTo(viewProfile)
			case "7":
				return a.switchTo(viewAdmin)
			case "L":
				if !a.env.authed() {
					a.after = a.view
					a.view = viewLogin
					return a, nil
				}
			case "X":
				if a.env.authed() {
					a.env.session.Logout(context.Background())
					a.view = viewBoxes
					return a, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewBoxes:
		a.boxes, cmd = a.boxes.Update(msg)
	case viewBuild:
		a.build, cmd = a.build.Update(msg)
	case viewCart:
		a.cart, cmd = a.cart.Update(msg)
	case viewCheckout:
		a.checkout, cmd = a.checkout.Update(msg)
	case viewOrders:
		a.orders, cmd = a.orders.Update(msg)
	case viewSubs:
		a.subs, cmd = a.subs.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

// switchTo changes the active view, detouring through login when the view
// needs a session.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if v.requiresAuth() && !a.env.authed() {
		a.after = v
		a.view = viewLogin
		return a, nil
	}
	if v == viewAdmin && !a.env.isAdmin() {
		return a, nil
	}
	if v == a.view {
		return a, nil
	}
	a.view = v
	switch v {
	case viewBoxes:
		return a, a.boxes.Init()
	case viewBuild:
		return a, a.build.Init()
	case viewCart:
		return a, a.cart.Init()
	case viewCheckout:
		a.checkout = newCheckoutModel(a.env)
		a.checkout.width, a.checkout.height = a.width, a.height-5
		return a, nil
	case viewOrders:
		return a, a.orders.Init()
	case viewSubs:
		return a, a.subs.Init()
	case viewProfile:
		a.profile = a.profile.reset()
		return a, nil
	case viewAdmin:
		w, h := a.admin.width, a.admin.height
		a.admin = newAdminModel(a.env)
		a.admin.width, a.admin.height = w, h
		return a, a.admin.Init()
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewCheckout:
		return true
	case viewBoxes:
		return a.boxes.editing || a.boxes.subscribe.open
	case viewBuild:
		return a.build.editing != buildEditNone || a.build.subscribe.open
	case viewCart:
		return a.cart.confirm
	case viewSubs:
		return a.subs.confirming
	case viewProfile:
		return a.profile.state != profileNormal
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	var status string
	if p, ok := a.env.profile(); ok {
		parts := []string{selectedStyle.Render(p.Name), string(p.Role)}
		if n := a.env.itemCount(); n > 0 {
			parts = append(parts, fmt.Sprintf("cart %d", n))
		}
		status = metaStyle.Render(strings.Join(parts, " · "))
	} else {
		status = metaStyle.Render("not signed in · ") + helpEntry("L", "sign in")
	}

	header := center(logo, a.width) + "\n" + center(status, a.width)

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Boxes", viewBoxes},
		{"2", "Build", viewBuild},
		{"3", "Cart", viewCart},
		{"4", "Orders", viewOrders},
		{"5", "Subs", viewSubs},
		{"6", "Profile", viewProfile},
	}
	if a.env.isAdmin() {
		tabs = append(tabs, tabEntry{"7", "Admin", viewAdmin})
	}
	active := a.view
	if active == viewCheckout {
		active = viewCart
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewCart {
			if n := a.env.itemCount(); n > 0 {
				label += " " + priceStyle.Render(fmt.Sprintf("%d", n))
			}
		}
		tabBar.WriteString(padCenter(label, colWidth))
	}

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = helpBar(helpEntry("tab", "next"), helpEntry("ctrl+r", "login/register"), helpEntry("enter", "submit"), helpEntry("esc", "back"))
	case viewBoxes:
		body = a.boxes.View()
		help = helpBar(helpEntry("1-7", "tabs")) + "  " + a.boxes.helpKeys()
	case viewBuild:
		body = a.build.View()
		help = helpBar(helpEntry("1-7", "tabs")) + "  " + a.build.helpKeys()
	case viewCart:
		body = a.cart.View()
		help = helpBar(helpEntry("1-7", "tabs"), helpEntry("j/k", "nav"), helpEntry("+/-", "qty"), helpEntry("d", "remove"), helpEntry("D", "clear"), helpEntry("c", "checkout"), helpEntry("?", "help"))
	case viewCheckout:
		body = a.checkout.View()
		help = a.checkout.helpKeys()
	case viewOrders:
		body = a.orders.View()
		help = helpBar(helpEntry("1-7", "tabs"), helpEntry("j/k", "nav"), helpEntry("enter", "details"), helpEntry("y", "copy #"), helpEntry("o", "web"), helpEntry("r", "refresh"))
	case viewSubs:
		body = a.subs.View()
		help = helpBar(helpEntry("1-7", "tabs")) + "  " + a.subs.helpKeys()
	case viewProfile:
		body = a.profile.View()
		help = helpBar(helpEntry("1-7", "tabs")) + "  " + a.profile.helpKeys()
	case viewAdmin:
		body = a.admin.View()
		help = helpBar(helpEntry("1-7", "tabs")) + "  " + a.admin.helpKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpCursor, a.env.webURL)
		if a.version != "" {
			body += "\n  " + metaStyle.Render("boxify "+a.version)
		}
		help = helpBar(helpEntry("j/k", "nav"), helpEntry("enter", "open"), helpEntry("esc", "close"))
	}

	var toastLine string
	if a.toast != nil {
		toastLine = " " + toastStyle(a.toast.Level).Render(a.toast.Message)
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, toastLine, help)
}

// center pads s on the left so it sits in the middle of width.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// padCenter centers s within a column of width cells.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	left := (width - w) / 2
	if left < 0 {
		left = 0
	}
	right := width - w - left
	if right < 0 {
		right = 0
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
