package tui

import (
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/browser"
	"github.com/boxify/boxify/internal/cart"
	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/internal/session"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

// Deps are the long-lived collaborators the TUI renders and drives.
type Deps struct {
	Client  *client.Client
	Session *session.Store
	Cart    *cart.Store
	Toasts  *notify.Queue
	Log     *zap.Logger
	WebURL  string
	Version string
}

// env is shared by every sub-model. Accessors tolerate missing stores so
// models can be exercised in isolation.
type env struct {
	client  *client.Client
	session *session.Store
	cart    *cart.Store
	notes   notify.Notifier
	log     *zap.Logger
	webURL  string
	open    func(url string) error
}

func newEnv(d Deps) *env {
	e := &env{
		client:  d.Client,
		session: d.Session,
		cart:    d.Cart,
		notes:   notify.Discard,
		log:     d.Log,
		webURL:  d.WebURL,
		open:    browser.Open,
	}
	if d.Toasts != nil {
		e.notes = d.Toasts
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

func (e *env) authed() bool {
	return e.session != nil && e.session.Authenticated()
}

func (e *env) isAdmin() bool {
	return e.session != nil && e.session.IsAdmin()
}

func (e *env) profile() (domain.Profile, bool) {
	if e.session == nil {
		return domain.Profile{}, false
	}
	return e.session.Profile()
}

func (e *env) cartSnapshot() domain.Cart {
	if e.cart == nil {
		return domain.EmptyCart()
	}
	return e.cart.Snapshot()
}

func (e *env) itemCount() int {
	if e.cart == nil {
		return 0
	}
	return e.cart.ItemCount()
}

// openWeb opens a storefront page in the browser, logging failures.
func (e *env) openWeb(path string) {
	if e.open == nil {
		return
	}
	url := e.webURL + path
	if err := e.open(url); err != nil {
		e.log.Warn("open browser", zap.String("url", url), zap.Error(err))
		notify.Infof(e.notes, "Open %s in your browser", url)
	}
}
