package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

type profileState int

const (
	profileNormal profileState = iota
	profileEditName
	profileAddAddress
)

type profileSavedMsg struct{ err error }

type profileRefreshedMsg struct{ err error }

// profileModel edits a draft of the profile. Nothing reaches the backend
// until the draft is saved.
type profileModel struct {
	env       *env
	state     profileState
	name      string
	addresses []domain.Address
	cursor    int
	dirty     bool
	saving    bool

	addr      []field // label, street, city, phone
	addrFocus int

	width  int
	height int
}

func newProfileModel(e *env) profileModel {
	return profileModel{env: e}.reset()
}

// reset discards the draft and reloads it from the session.
func (m profileModel) reset() profileModel {
	m.state = profileNormal
	m.dirty = false
	m.cursor = 0
	m.name = ""
	m.addresses = nil
	if p, ok := m.env.profile(); ok {
		m.name = p.Name
		m.addresses = p.Addresses
	}
	return m
}

func newAddressFields() []field {
	return []field{
		{label: "Label", value: "Home"},
		{label: "Street", required: true},
		{label: "City", value: domain.DeliveryCities[0]},
		{label: "Phone", required: true},
	}
}

func (m profileModel) save() tea.Cmd {
	if m.env.session == nil {
		return nil
	}
	s := m.env.session
	req := domain.UpdateProfileRequest{
		Name:      strings.TrimSpace(m.name),
		Addresses: append([]domain.Address{}, m.addresses...),
	}
	return func() tea.Msg {
		return profileSavedMsg{err: s.SaveProfile(context.Background(), req)}
	}
}

func (m profileModel) refresh() tea.Cmd {
	if m.env.session == nil {
		return nil
	}
	s := m.env.session
	return func() tea.Msg {
		return profileRefreshedMsg{err: s.RefreshUser(context.Background())}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.saving = false
		if msg.err == nil {
			m = m.reset()
		}
		return m, nil

	case profileRefreshedMsg:
		if msg.err != nil {
			m.env.log.Warn("refresh profile", zap.Error(msg.err))
			return m, nil
		}
		if !m.dirty {
			m = m.reset()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case profileEditName:
			return m.updateName(msg)
		case profileAddAddress:
			return m.updateAddress(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m profileModel) updateNormal(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.addresses)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "e":
		m.state = profileEditName
	case "a":
		m.state = profileAddAddress
		m.addr = newAddressFields()
		m.addrFocus = 1
	case "d":
		if m.cursor < len(m.addresses) {
			out := make([]domain.Address, 0, len(m.addresses)-1)
			out = append(out, m.addresses[:m.cursor]...)
			m.addresses = append(out, m.addresses[m.cursor+1:]...)
			m.dirty = true
			if m.cursor >= len(m.addresses) && m.cursor > 0 {
				m.cursor--
			}
		}
	case "s":
		if m.saving {
			return m, nil
		}
		cmd := m.save()
		if cmd != nil {
			m.saving = true
		}
		return m, cmd
	case "u":
		m = m.reset()
	case "r":
		return m, m.refresh()
	}
	return m, nil
}

func (m profileModel) updateName(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = profileNormal
	default:
		m.name = editRune(m.name, msg.String())
		m.dirty = true
	}
	return m, nil
}

func (m profileModel) updateAddress(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = profileNormal
	case "tab", "down":
		m.addrFocus = (m.addrFocus + 1) % len(m.addr)
	case "shift+tab", "up":
		m.addrFocus = (m.addrFocus - 1 + len(m.addr)) % len(m.addr)
	case "enter":
		if m.addrFocus < len(m.addr)-1 {
			m.addrFocus++
			return m, nil
		}
		a := domain.Address{
			Label:  strings.TrimSpace(m.addr[0].value),
			Street: strings.TrimSpace(m.addr[1].value),
			City:   strings.TrimSpace(m.addr[2].value),
			Phone:  strings.TrimSpace(m.addr[3].value),
		}
		if a.Street == "" || a.Phone == "" {
			notify.Errorf(m.env.notes, "Street and phone required")
			return m, nil
		}
		m.addresses = append(append([]domain.Address{}, m.addresses...), a)
		m.cursor = len(m.addresses) - 1
		m.dirty = true
		m.state = profileNormal
		notify.Successf(m.env.notes, "Address added, save your profile to keep it")
	default:
		m.addr[m.addrFocus].value = editRune(m.addr[m.addrFocus].value, msg.String())
	}
	return m, nil
}

func (m profileModel) helpKeys() string {
	switch m.state {
	case profileEditName:
		return helpEntry("enter", "done")
	case profileAddAddress:
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "add") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("e", "name") + "  " + helpEntry("a", "add address") + "  " + helpEntry("d", "delete") + "  " + helpEntry("s", "save") + "  " + helpEntry("u", "undo") + "  " + helpEntry("r", "refresh")
}

func (m profileModel) View() string {
	p, _ := m.env.profile()

	var b strings.Builder
	b.WriteString(" " + searchStyle.Render("MY PROFILE"))
	if m.dirty {
		b.WriteString("  " + priceStyle.Render("unsaved changes"))
	}
	if m.saving {
		b.WriteString("  " + dimStyle.Render("saving..."))
	}
	b.WriteString("\n" + separator(m.width) + "\n")

	b.WriteString(" " + sectionHeaderStyle.Render("── PERSONAL INFO ──") + "\n")
	b.WriteString(renderField(field{label: "Name", value: m.name}, m.state == profileEditName) + "\n")
	b.WriteString("   " + dimStyle.Render(padRight("Email", 10)) + " " + metaStyle.Render(p.Email+" (read-only)") + "\n")
	if p.Role != "" {
		b.WriteString("   " + dimStyle.Render(padRight("Role", 10)) + " " + normalStyle.Render(string(p.Role)) + "\n")
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("── DELIVERY ADDRESSES ──") + "\n")
	if len(m.addresses) == 0 {
		b.WriteString("   " + dimStyle.Render("No addresses saved yet") + "\n")
	}
	for i, a := range m.addresses {
		label := a.Label
		if label == "" {
			label = "Address"
		}
		row := fmt.Sprintf("%s  %s  %s", selectedStyle.Render(padRight(label, 8)), normalStyle.Render(a.Street+", "+a.City), metaStyle.Render(a.Phone))
		if a.IsDefault {
			row += "  " + accentStyle.Render("default")
		}
		if i == m.cursor && m.state == profileNormal {
			b.WriteString(selectedRowBg.Render(" " + accentStyle.Render("›") + " " + row))
		} else {
			b.WriteString("   " + row)
		}
		b.WriteString("\n")
	}

	if m.state == profileAddAddress {
		b.WriteString("\n " + sectionHeaderStyle.Render("── NEW ADDRESS ──") + "\n")
		for i, f := range m.addr {
			b.WriteString(renderField(f, i == m.addrFocus) + "\n")
		}
	}
	return b.String()
}
