package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

// quoteDelay debounces price quotes while the selection is changing.
const quoteDelay = 400 * time.Millisecond

const defaultBoxName = "My Custom Box"

type buildEdit int

const (
	buildEditNone buildEdit = iota
	buildEditSearch
	buildEditName
)

type mealsLoadedMsg struct {
	meals []domain.Meal
	err   error
}

type quoteTickMsg struct{ seq int }

type quoteMsg struct {
	seq   int
	quote *domain.PriceQuote
	err   error
}

// mealTags is the dietary filter cycle; "" means all.
var mealTags = append([]string{""}, domain.DietaryTags...)

type buildModel struct {
	env     *env
	meals   []domain.Meal
	loading bool
	err     error

	cursor   int
	search   string
	tag      string
	editing  buildEdit
	selected []string
	servings int
	name     string

	quote    *domain.PriceQuote
	quoteSeq int
	quoting  bool

	adding    bool
	subscribe subscribeForm

	width  int
	height int
}

func newBuildModel(e *env) buildModel {
	return buildModel{
		env:       e,
		loading:   true,
		servings:  2,
		name:      defaultBoxName,
		subscribe: newSubscribeForm(),
	}
}

func (m buildModel) Init() tea.Cmd {
	if m.meals != nil || m.env.client == nil {
		return nil
	}
	c := m.env.client
	return func() tea.Msg {
		meals, err := c.ListMeals(context.Background())
		return mealsLoadedMsg{meals: meals, err: err}
	}
}

func (m buildModel) filtered() []domain.Meal {
	return domain.FilterMeals(m.meals, m.search, m.tag)
}

func (m buildModel) isSelected(id string) bool {
	for _, s := range m.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (m buildModel) toggle(id string) buildModel {
	out := make([]string, 0, len(m.selected)+1)
	found := false
	for _, s := range m.selected {
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, id)
	}
	m.selected = out
	return m
}

// scheduleQuote invalidates any quote in flight and, when meals are
// selected, asks for a new one after quoteDelay.
func (m buildModel) scheduleQuote() (buildModel, tea.Cmd) {
	m.quoteSeq++
	if len(m.selected) == 0 {
		m.quote = nil
		m.quoting = false
		return m, nil
	}
	seq := m.quoteSeq
	return m, tea.Tick(quoteDelay, func(time.Time) tea.Msg { return quoteTickMsg{seq: seq} })
}

func (m buildModel) fetchQuote(seq int) tea.Cmd {
	if m.env.client == nil {
		return nil
	}
	c := m.env.client
	req := domain.PriceQuoteRequest{MealIDs: append([]string(nil), m.selected...), ServingsPerMeal: m.servings}
	return func() tea.Msg {
		q, err := c.QuoteCustomBox(context.Background(), req)
		return quoteMsg{seq: seq, quote: q, err: err}
	}
}

func (m buildModel) Update(msg tea.Msg) (buildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mealsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.meals = msg.meals
		} else {
			m.env.log.Warn("list meals", zap.Error(msg.err))
		}
		return m, nil

	case quoteTickMsg:
		if msg.seq != m.quoteSeq {
			return m, nil
		}
		m.quoting = true
		return m, m.fetchQuote(msg.seq)

	case quoteMsg:
		if msg.seq != m.quoteSeq {
			return m, nil
		}
		m.quoting = false
		if msg.err != nil {
			m.env.log.Warn("quote custom box", zap.Error(msg.err))
			return m, nil
		}
		m.quote = msg.quote
		return m, nil

	case addedToCartMsg:
		m.adding = false
		if msg.err != nil {
			notify.Errorf(m.env.notes, "%s", client.UserMessage(msg.err, msg.fallback))
			return m, nil
		}
		notify.Successf(m.env.notes, "%s", msg.success)
		return m, gotoView(viewCart)

	case subscribedMsg:
		return m, subscribed(m.env, msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.editing == buildEditSearch:
			return m.updateSearch(msg)
		case m.editing == buildEditName:
			return m.updateName(msg)
		case m.subscribe.open:
			var ok bool
			m.subscribe, ok = m.subscribe.handle(msg.String())
			if ok {
				req := domain.NewCustomSubscription(m.boxName(), m.selected, m.servings, m.subscribe.frequency, m.subscribe.day)
				return m, createSubscription(m.env, req)
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m buildModel) updateSearch(msg tea.KeyMsg) (buildModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = buildEditNone
	case "esc":
		m.editing = buildEditNone
		m.search = ""
	default:
		m.search = editRune(m.search, msg.String())
	}
	m.cursor = 0
	return m, nil
}

func (m buildModel) updateName(msg tea.KeyMsg) (buildModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.editing = buildEditNone
	default:
		m.name = editRune(m.name, msg.String())
	}
	return m, nil
}

func (m buildModel) updateList(msg tea.KeyMsg) (buildModel, tea.Cmd) {
	visible := m.filtered()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter":
		if m.cursor < len(visible) {
			m = m.toggle(visible[m.cursor].ID)
			return m.scheduleQuote()
		}
	case "c":
		if len(m.selected) > 0 {
			m.selected = nil
			return m.scheduleQuote()
		}
	case "/":
		m.editing = buildEditSearch
		m.search = ""
	case "t":
		m.tag = cycle(mealTags, m.tag)
		m.cursor = 0
	case "s":
		m.servings = cycle(domain.ServingOptions, m.servings)
		return m.scheduleQuote()
	case "n":
		m.editing = buildEditName
	case "a":
		if !m.env.authed() {
			return m, needLogin(viewBuild)
		}
		if len(m.selected) == 0 {
			notify.Errorf(m.env.notes, "Select at least one meal")
			return m, nil
		}
		if m.adding {
			return m, nil
		}
		m.adding = true
		req := domain.CustomBox(m.boxName(), m.selected, m.servings)
		return m, addToCart(m.env, req, "Custom box added to cart!", "Failed")
	case "u":
		if !m.env.authed() {
			return m, needLogin(viewBuild)
		}
		if len(m.selected) == 0 {
			notify.Errorf(m.env.notes, "Select at least one meal")
			return m, nil
		}
		m.subscribe = newSubscribeForm()
		m.subscribe.open = true
	case "o":
		m.env.openWeb("/build-box")
	}
	return m, nil
}

func (m buildModel) boxName() string {
	if n := strings.TrimSpace(m.name); n != "" {
		return n
	}
	return defaultBoxName
}

func (m buildModel) helpKeys() string {
	switch {
	case m.editing == buildEditSearch:
		return helpEntry("enter", "done") + "  " + helpEntry("esc", "clear")
	case m.editing == buildEditName:
		return helpEntry("enter", "done")
	case m.subscribe.open:
		return m.subscribe.helpKeys()
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("space", "pick") + "  " + helpEntry("/", "search") + "  " + helpEntry("t", "diet") + "  " + helpEntry("s", "servings") + "  " + helpEntry("n", "name") + "  " + helpEntry("a", "add") + "  " + helpEntry("u", "subscribe")
}

func (m buildModel) View() string {
	if m.subscribe.open {
		return "\n" + m.subscribe.View(m.boxName()+fmt.Sprintf(" (%d meals)", len(m.selected)), m.servings)
	}

	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("BUILD YOUR BOX"))
	if m.width >= 60 {
		b.WriteString("  " + dimStyle.Render("Pick any meals you love. We'll portion everything fresh."))
	}
	b.WriteString("\n")

	if m.editing == buildEditSearch {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	b.WriteString("  ")
	for _, tag := range mealTags {
		label := tag
		if label == "" {
			label = "all"
		}
		if tag == m.tag {
			b.WriteString(" " + searchStyle.Render(label))
		} else {
			b.WriteString(" " + dimStyle.Render(label))
		}
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	visible := m.filtered()
	switch {
	case m.loading && m.meals == nil:
		b.WriteString(" " + dimStyle.Render("loading meals...") + "\n")
	case m.err != nil && m.meals == nil:
		b.WriteString(" " + errorStyle.Render("could not load meals") + "\n")
	case len(visible) == 0:
		b.WriteString(" " + dimStyle.Render("No meals match.") + "\n")
	}

	nameW := max(m.width-40, 16)
	for i, meal := range visible {
		check := metaStyle.Render("[ ]")
		if m.isSelected(meal.ID) {
			check = accentStyle.Render("[x]")
		}
		row := fmt.Sprintf("%s %s  %s  %s",
			check,
			normalStyle.Render(padRight(truncStr(meal.Name, nameW), nameW)),
			metaStyle.Render(padRight(meal.Cuisine, 14)),
			priceStyle.Render(formatPrice(meal.PricePerServing*float64(m.servings))),
		)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + row))
		} else {
			b.WriteString("   " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString(separator(m.width) + "\n")
	nameLabel := normalStyle.Render(m.name)
	if m.editing == buildEditName {
		nameLabel = normalStyle.Render(m.name) + accentStyle.Render("█")
	}
	b.WriteString(" " + selectedStyle.Render("Your box") + "  " + nameLabel + "\n")
	b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%d meals · %d servings each", len(m.selected), m.servings)))
	switch {
	case len(m.selected) == 0:
		b.WriteString("  " + metaStyle.Render("select meals to see a price"))
	case m.quoting:
		b.WriteString("  " + dimStyle.Render("..."))
	case m.quote != nil:
		b.WriteString("  " + priceStyle.Render(formatPrice(m.quote.TotalPrice)))
		if m.quote.TotalCalories > 0 {
			b.WriteString("  " + metaStyle.Render(fmt.Sprintf("%s cal", groupThousands(int64(m.quote.TotalCalories)))))
		}
	}
	if m.adding {
		b.WriteString("  " + dimStyle.Render("adding..."))
	}
	return b.String()
}
