package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/domain"
)

func typeInto(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func TestLoginRequiresAllFields(t *testing.T) {
	e, notes := offlineEnv()
	m := newLoginModel(e)
	m = typeInto(m, "ahmed@example.com")
	m, _ = m.Update(keyMsg("tab"))
	_, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("blank password must not submit")
	}
	if n := lastNote(t, notes); n.Message != "Please fill all required fields" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestLoginEnterAdvancesFocus(t *testing.T) {
	e, _ := offlineEnv()
	m := newLoginModel(e)
	m, _ = m.Update(keyMsg("enter"))
	if m.focus != 1 {
		t.Errorf("expected focus=1, got %d", m.focus)
	}
}

func TestLoginToggleRegister(t *testing.T) {
	e, _ := offlineEnv()
	m := newLoginModel(e)
	m.width = 80
	m, _ = m.Update(keyMsg("ctrl+r"))
	if m.mode != modeRegister || len(m.fields()) != 3 {
		t.Fatal("expected register mode with three fields")
	}
	if !strings.Contains(m.View(), "Create your account") {
		t.Error("expected register title")
	}
}

func TestLoginNameAllowsSpaces(t *testing.T) {
	e, _ := offlineEnv()
	m := newLoginModel(e)
	m, _ = m.Update(keyMsg("ctrl+r"))
	m = typeInto(m, "Mona Adel")
	m, _ = m.Update(keyMsg("tab"))
	m = typeInto(m, "mona @x")
	if m.name.value != "Mona Adel" {
		t.Errorf("name = %q", m.name.value)
	}
	if m.email.value != "mona@x" {
		t.Errorf("email should reject spaces, got %q", m.email.value)
	}
}

func TestLoginSuccess(t *testing.T) {
	te := newTestEnv(t)
	te.shop.handle("POST /api/auth/login", reply(domain.AuthResponse{Token: "tok", Profile: customer}))

	m := newLoginModel(te.env)
	m = typeInto(m, "ahmed@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeInto(m, "customer123")
	m, cmd := m.Update(keyMsg("enter"))
	if !m.busy {
		t.Fatal("expected busy while signing in")
	}
	msg, ok := run(cmd).(loginDoneMsg)
	if !ok || msg.err != nil || msg.profile.Name != "Ahmed" {
		t.Fatalf("unexpected result %#v", msg)
	}
	if n := lastNote(t, te.notes); n.Message != "Welcome back, Ahmed!" {
		t.Errorf("unexpected toast %q", n.Message)
	}
	if !te.authed() {
		t.Error("expected a session")
	}
}

func TestLoginFailureClearsPassword(t *testing.T) {
	te := newTestEnv(t)
	te.shop.handle("POST /api/auth/login", fail(http.StatusBadRequest, "Invalid credentials"))

	m := newLoginModel(te.env)
	m = typeInto(m, "ahmed@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeInto(m, "wrong")
	m, cmd := m.Update(keyMsg("enter"))
	m, _ = m.Update(run(cmd))

	if m.busy || m.pass.value != "" {
		t.Errorf("expected idle form with cleared password, busy=%v pass=%q", m.busy, m.pass.value)
	}
	if m.email.value != "ahmed@example.com" {
		t.Error("email should be kept")
	}
	if n := lastNote(t, te.notes); n.Level != notify.Error || n.Message != "Invalid credentials" {
		t.Errorf("unexpected toast %+v", n)
	}
}

func TestLoginRegister(t *testing.T) {
	te := newTestEnv(t)
	var got map[string]string
	te.shop.handle("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeJSON(w, http.StatusCreated, domain.AuthResponse{Token: "tok", Profile: domain.Profile{ID: "u3", Name: got["name"], Email: got["email"], Role: domain.RoleCustomer}})
	})

	m := newLoginModel(te.env)
	m, _ = m.Update(keyMsg("ctrl+r"))
	m = typeInto(m, "Mona")
	m, _ = m.Update(keyMsg("tab"))
	m = typeInto(m, "mona@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeInto(m, "pw123456")
	_, cmd := m.Update(keyMsg("enter"))
	if msg, ok := run(cmd).(loginDoneMsg); !ok || msg.err != nil {
		t.Fatalf("unexpected result %#v", msg)
	}
	if got["name"] != "Mona" || got["password"] != "pw123456" {
		t.Errorf("unexpected register body %v", got)
	}
	if n := lastNote(t, te.notes); n.Message != "Welcome to Boxify, Mona!" {
		t.Errorf("unexpected toast %q", n.Message)
	}
}

func TestLoginEscGoesBack(t *testing.T) {
	e, _ := offlineEnv()
	_, cmd := newLoginModel(e).Update(keyMsg("esc"))
	if msg, ok := run(cmd).(gotoViewMsg); !ok || msg.to != viewBoxes {
		t.Errorf("expected gotoView(viewBoxes), got %#v", msg)
	}
}
