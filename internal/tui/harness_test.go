package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/cart"
	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/internal/session"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

// shop is an in-memory storefront backend. Routes are keyed "METHOD /path".
// GET /api/cart serves the current cart unless a test overrides it.
type shop struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	cart   domain.Cart
	hits   map[string]int
}

func newShop() *shop {
	return &shop{
		routes: map[string]http.HandlerFunc{},
		cart:   domain.EmptyCart(),
		hits:   map[string]int{},
	}
}

func (s *shop) handle(pattern string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[pattern] = h
}

func (s *shop) hitCount(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[pattern]
}

func (s *shop) setCart(c domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c
}

// cartHandler mutates the stored cart and answers with the result.
func (s *shop) cartHandler(mutate func(*domain.Cart)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		mutate(&s.cart)
		c := s.cart.Clone()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *shop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	s.mu.Lock()
	s.hits[key]++
	h := s.routes[key]
	c := s.cart.Clone()
	s.mu.Unlock()

	switch {
	case h != nil:
		h(w, r)
	case key == "GET /api/cart":
		writeJSON(w, http.StatusOK, c)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func fail(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]string{"message": message})
	}
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, v)
	}
}

var (
	customer = domain.Profile{
		ID:    "u1",
		Name:  "Ahmed",
		Email: "ahmed@example.com",
		Role:  domain.RoleCustomer,
		Addresses: []domain.Address{
			{ID: "a1", Label: "Home", Street: "12 Nile St", City: "Giza", Zip: "12511", Phone: "0100"},
		},
	}
	adminUser = domain.Profile{ID: "u9", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
)

// testEnv wires a real client, session and cart store to a shop.
type testEnv struct {
	*env
	shop   *shop
	notes  *notify.Recorder
	opened []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sh := newShop()
	srv := httptest.NewServer(sh)
	t.Cleanup(srv.Close)

	notes := &notify.Recorder{}
	c := client.New(srv.URL + "/api")
	sess := session.New(c, session.WithNotifier(notes))
	sess.Attach(c)
	carts := cart.New(c, sess)

	te := &testEnv{shop: sh, notes: notes}
	te.env = &env{
		client:  c,
		session: sess,
		cart:    carts,
		notes:   notes,
		log:     zap.NewNop(),
		webURL:  "https://boxify.test",
		open: func(url string) error {
			te.opened = append(te.opened, url)
			return nil
		},
	}
	return te
}

// offlineEnv has no backend at all; load commands come back nil.
func offlineEnv() (*env, *notify.Recorder) {
	notes := &notify.Recorder{}
	return &env{notes: notes, log: zap.NewNop()}, notes
}

func (te *testEnv) login(t *testing.T, p domain.Profile) {
	t.Helper()
	te.shop.handle("POST /api/auth/login", reply(domain.AuthResponse{Token: "tok-" + p.ID, Profile: p}))
	if _, err := te.session.Login(context.Background(), p.Email, "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// run executes cmd synchronously and returns its message.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func lastNote(t *testing.T, notes *notify.Recorder) notify.Notification {
	t.Helper()
	n, ok := notes.Last()
	if !ok {
		t.Fatal("expected a notification, got none")
	}
	return n
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Errorf("decode request body: %v", err)
	}
}
