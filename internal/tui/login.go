package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

type loginDoneMsg struct {
	profile domain.Profile
	err     error
}

type loginModel struct {
	env    *env
	mode   loginMode
	name   field
	email  field
	pass   field
	focus  int
	busy   bool
	width  int
	height int
}

func newLoginModel(e *env) loginModel {
	return loginModel{
		env:   e,
		name:  field{label: "Name", required: true},
		email: field{label: "Email", required: true},
		pass:  field{label: "Password", secret: true, required: true},
	}
}

// fields returns pointers to the visible inputs in tab order.
func (m *loginModel) fields() []*field {
	if m.mode == modeRegister {
		return []*field{&m.name, &m.email, &m.pass}
	}
	return []*field{&m.email, &m.pass}
}

func (m loginModel) submit() tea.Cmd {
	if m.env.session == nil {
		return nil
	}
	s := m.env.session
	mode := m.mode
	name := strings.TrimSpace(m.name.value)
	email := strings.TrimSpace(m.email.value)
	pass := m.pass.value
	return func() tea.Msg {
		var (
			p   domain.Profile
			err error
		)
		if mode == modeRegister {
			p, err = s.Register(context.Background(), name, email, pass)
		} else {
			p, err = s.Login(context.Background(), email, pass)
		}
		return loginDoneMsg{profile: p, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.pass.value = ""
			m.focus = len(m.fields()) - 1
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		fields := m.fields()
		switch msg.String() {
		case "esc":
			return m, gotoView(viewBoxes)
		case "ctrl+r":
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.focus = 0
		case "tab", "down":
			m.focus = (m.focus + 1) % len(fields)
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(fields)) % len(fields)
		case "enter":
			if m.focus < len(fields)-1 {
				m.focus++
				return m, nil
			}
			for _, f := range fields {
				if strings.TrimSpace(f.value) == "" {
					notify.Errorf(m.env.notes, "Please fill all required fields")
					return m, nil
				}
			}
			cmd := m.submit()
			if cmd != nil {
				m.busy = true
			}
			return m, cmd
		default:
			f := fields[m.focus]
			if msg.String() == " " && !f.secret && f != &m.name {
				return m, nil
			}
			f.value = editRune(f.value, msg.String())
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	title := "Welcome back"
	sub := "Sign in to manage your boxes and orders."
	if m.mode == modeRegister {
		title = "Create your account"
		sub = "Join Boxify and start cooking."
	}

	var sb strings.Builder
	sb.WriteString(searchStyle.Render(title) + "\n")
	sb.WriteString(dimStyle.Render(sub) + "\n\n")
	for i, f := range m.fields() {
		sb.WriteString(renderField(*f, i == m.focus) + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.busy || (m.env.session != nil && m.env.session.Loading()):
		sb.WriteString(dimStyle.Render("   signing in..."))
	case m.mode == modeLogin:
		sb.WriteString(metaStyle.Render("   No account? ") + helpEntry("ctrl+r", "register"))
	default:
		sb.WriteString(metaStyle.Render("   Have an account? ") + helpEntry("ctrl+r", "sign in"))
	}

	cardWidth := min(56, m.width-4)
	if cardWidth < 36 {
		cardWidth = 36
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card.Render(sb.String()))
}
