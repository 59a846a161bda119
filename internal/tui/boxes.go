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

type boxesLoadedMsg struct {
	boxes []domain.Box
	err   error
}

type boxLoadedMsg struct {
	box *domain.Box
	err error
}

type addedToCartMsg struct {
	err      error
	fallback string
	success  string
}

// boxCategories is the category filter cycle; "" means all.
var boxCategories = append([]string{""}, domain.Categories...)

type boxesModel struct {
	env      *env
	boxes    []domain.Box
	cursor   int
	search   string
	editing  bool // typing in search
	category string
	featured bool
	loading  bool
	err      error

	detail    *domain.Box
	servings  int
	adding    bool
	subscribe subscribeForm

	width  int
	height int
}

func newBoxesModel(e *env) boxesModel {
	return boxesModel{env: e, loading: true, servings: 2, subscribe: newSubscribeForm()}
}

func (m boxesModel) Init() tea.Cmd {
	return m.load()
}

func (m boxesModel) load() tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	q := domain.BoxQuery{Search: m.search, Category: m.category, Featured: m.featured}
	return func() tea.Msg {
		boxes, err := c.ListBoxes(context.Background(), q)
		return boxesLoadedMsg{boxes: boxes, err: err}
	}
}

func (m boxesModel) loadBox(id string) tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	return func() tea.Msg {
		box, err := c.GetBox(context.Background(), id)
		return boxLoadedMsg{box: box, err: err}
	}
}

// addToCart is shared with the box builder.
func addToCart(e *env, req domain.AddToCartRequest, success, fallback string) tea.Cmd {
	if e.cart == nil {
		return nil
	}
	carts := e.cart
	return func() tea.Msg {
		_, err := carts.AddToCart(context.Background(), req)
		return addedToCartMsg{err: err, success: success, fallback: fallback}
	}
}

func (m boxesModel) Update(msg tea.Msg) (boxesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case boxesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.boxes = msg.boxes
		} else {
			m.env.log.Warn("list boxes", zap.Error(msg.err))
		}
		if m.cursor >= len(m.boxes) {
			m.cursor = 0
		}
		return m, nil

	case boxLoadedMsg:
		if msg.err != nil {
			m.env.log.Warn("get box", zap.Error(msg.err))
			return m, nil
		}
		if m.detail != nil && msg.box != nil && msg.box.ID == m.detail.ID {
			m.detail = msg.box
			if !m.detail.Serves(m.servings) {
				m.servings = m.nextServings()
			}
		}
		return m, nil

	case addedToCartMsg:
		m.adding = false
		if msg.err != nil {
			notify.Errorf(m.env.notes, "%s", client.UserMessage(msg.err, msg.fallback))
			return m, nil
		}
		notify.Successf(m.env.notes, "%s", msg.success)
		return m, nil

	case subscribedMsg:
		return m, subscribed(m.env, msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		if m.subscribe.open {
			var ok bool
			m.subscribe, ok = m.subscribe.handle(msg.String())
			if ok && m.detail != nil {
				req := domain.NewPreMadeSubscription(m.detail.ID, m.servings, m.subscribe.frequency, m.subscribe.day)
				return m, createSubscription(m.env, req)
			}
			return m, nil
		}
		if m.detail != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m boxesModel) updateSearch(msg tea.KeyMsg) (boxesModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.loading = true
		return m, m.load()
	case "esc":
		m.editing = false
		m.search = ""
		m.loading = true
		return m, m.load()
	default:
		m.search = editRune(m.search, msg.String())
	}
	return m, nil
}

func (m boxesModel) updateList(msg tea.KeyMsg) (boxesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.boxes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.boxes) {
			box := m.boxes[m.cursor]
			m.detail = &box
			m.servings = 2
			if !box.Serves(m.servings) {
				m.servings = m.nextServings()
			}
			return m, m.loadBox(box.ID)
		}
	case "/":
		m.editing = true
		m.search = ""
	case "c":
		m.category = cycle(boxCategories, m.category)
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "f":
		m.featured = !m.featured
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	case "o":
		m.env.openWeb("/boxes")
	}
	return m, nil
}

func (m boxesModel) updateDetail(msg tea.KeyMsg) (boxesModel, tea.Cmd) {
	box := m.detail
	switch msg.String() {
	case "esc":
		m.detail = nil
	case "s":
		m.servings = m.nextServings()
	case "a":
		if !m.env.authed() {
			return m, needLogin(viewBoxes)
		}
		if m.adding {
			return m, nil
		}
		m.adding = true
		return m, addToCart(m.env, domain.PreMadeBox(box.ID, m.servings), "Added to cart!", "Failed to add to cart")
	case "u":
		if !m.env.authed() {
			return m, needLogin(viewBoxes)
		}
		m.subscribe = newSubscribeForm()
		m.subscribe.open = true
	case "o":
		m.env.openWeb("/boxes/" + box.ID)
	}
	return m, nil
}

// nextServings returns the next serving size the open box supports.
func (m boxesModel) nextServings() int {
	cur := m.servings
	for range domain.ServingOptions {
		cur = cycle(domain.ServingOptions, cur)
		if m.detail == nil || m.detail.Serves(cur) {
			return cur
		}
	}
	return m.servings
}

func (m boxesModel) helpKeys() string {
	switch {
	case m.editing:
		return helpEntry("enter", "search") + "  " + helpEntry("esc", "clear")
	case m.subscribe.open:
		return m.subscribe.helpKeys()
	case m.detail != nil:
		return helpEntry("s", "servings") + "  " + helpEntry("a", "add to cart") + "  " + helpEntry("u", "subscribe") + "  " + helpEntry("o", "web") + "  " + helpEntry("esc", "back")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("/", "search") + "  " + helpEntry("c", "category") + "  " + helpEntry("f", "featured") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}

func (m boxesModel) View() string {
	if m.subscribe.open && m.detail != nil {
		return "\n" + m.subscribe.View(m.detail.Name, m.servings)
	}
	if m.detail != nil {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("MEAL BOXES"))
	if m.width >= 60 {
		b.WriteString("  " + dimStyle.Render("Curated collections of fresh, pre-portioned ingredients"))
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	cat := m.category
	if cat == "" {
		cat = "All"
	}
	b.WriteString("   " + dimStyle.Render("category ") + selectedStyle.Render(cat))
	if m.featured {
		b.WriteString("   " + priceStyle.Render("★ featured"))
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	switch {
	case m.loading && len(m.boxes) == 0:
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != nil && len(m.boxes) == 0:
		b.WriteString(" " + errorStyle.Render("could not load boxes: "+client.UserMessage(m.err, m.err.Error())))
		return b.String()
	case len(m.boxes) == 0:
		b.WriteString(" " + dimStyle.Render("No boxes match your filters."))
		return b.String()
	}

	nameW := max(m.width-44, 16)
	for i, box := range m.boxes {
		star := "  "
		if box.Featured {
			star = priceStyle.Render("★ ")
		}
		name := truncStr(box.Name, nameW)
		row := fmt.Sprintf("%s%s  %s  %s",
			star,
			padRight(name, nameW),
			metaStyle.Render(padRight(box.Category, 13)),
			dimStyle.Render(fmt.Sprintf("%d meals", box.MealsCount)),
		)
		if box.StartingPrice > 0 {
			row += "  " + priceStyle.Render("from "+formatPrice(box.StartingPrice))
		}
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + selectedStyle.Render(row)))
		} else {
			b.WriteString("   " + normalStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m boxesModel) viewDetail() string {
	box := m.detail
	var b strings.Builder
	b.WriteString("\n " + searchStyle.Render(box.Name))
	if box.Featured {
		b.WriteString("  " + priceStyle.Render("★ featured"))
	}
	b.WriteString("\n")
	if box.Category != "" {
		b.WriteString(" " + metaStyle.Render(box.Category+" · "+fmt.Sprintf("%d meals", box.MealsCount)) + "\n")
	}
	if box.Description != "" {
		b.WriteString("\n " + normalStyle.Render(truncStr(box.Description, max(m.width-4, 20))) + "\n")
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("── SERVINGS ──") + "\n ")
	for _, s := range domain.ServingOptions {
		label := fmt.Sprintf("%d", s)
		switch {
		case !box.Serves(s):
			b.WriteString(" " + metaStyle.Strikethrough(true).Render(label) + " ")
		case s == m.servings:
			b.WriteString(searchStyle.Render("["+label+"]"))
		default:
			b.WriteString(" " + dimStyle.Render(label) + " ")
		}
	}
	b.WriteString("  " + dimStyle.Render("people per meal") + "\n")

	if p, ok := box.Pricing(m.servings); ok {
		b.WriteString("\n " + priceStyle.Render(formatPrice(p.TotalPrice)))
		b.WriteString("  " + dimStyle.Render(formatPrice(p.PricePerServing)+" per serving") + "\n")
		if len(p.MealDetails) > 0 {
			b.WriteString("\n " + sectionHeaderStyle.Render("── MEALS ──") + "\n")
			for _, meal := range p.MealDetails {
				b.WriteString("   " + normalStyle.Render(meal.Name))
				if meal.Cuisine != "" {
					b.WriteString("  " + metaStyle.Render(meal.Cuisine))
				}
				for _, tag := range meal.DietaryTags {
					b.WriteString(" " + TagStyle(tag).Render(tag))
				}
				b.WriteString("\n")
			}
		}
	} else {
		b.WriteString("\n " + dimStyle.Render("pricing loading...") + "\n")
	}

	if m.adding {
		b.WriteString("\n " + dimStyle.Render("adding to cart..."))
	}
	return b.String()
}
