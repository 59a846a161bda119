// Package cart mirrors the server-side cart of the current session.
//
// The server computes every total; the store only replaces its snapshot
// with whatever the server returned. Each request takes a sequence number
// when dispatched and its response is applied only if no later response
// has been applied since, so an old response can never overwrite a newer
// one. A later request that fails leaves the floor where it was.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/session"
	"github.com/boxify/boxify/pkg/domain"
)

// ErrNoSession is returned by mutations attempted without a session.
var ErrNoSession = errors.New("cart: no session")

// API is the cart slice of the backend.
type API interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, req domain.AddToCartRequest) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, itemID string, req domain.UpdateItemRequest) (*domain.Cart, error)
	RemoveCartItem(ctx context.Context, itemID string) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
}

// Identity is the session the cart belongs to.
type Identity interface {
	Authenticated() bool
	OnIdentityChange(session.IdentityFunc)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store holds the last accepted cart snapshot.
type Store struct {
	api API
	id  Identity
	log *zap.Logger

	mu       sync.RWMutex
	snapshot domain.Cart
	issued   uint64
	applied  uint64
	adding   int
}

// New creates a store bound to id. The store resyncs itself whenever the
// identity changes.
func New(api API, id Identity, opts ...Option) *Store {
	s := &Store{
		api:      api,
		id:       id,
		log:      zap.NewNop(),
		snapshot: domain.EmptyCart(),
	}
	for _, opt := range opts {
		opt(s)
	}
	id.OnIdentityChange(s.Sync)
	return s
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// ItemCount sums quantities of the current snapshot.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ItemCount()
}

// Loading reports whether an add is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adding > 0
}

// Sync reacts to an identity change: a new session gets exactly one fetch,
// no session gets the empty cart and no request at all.
func (s *Store) Sync(ctx context.Context, authenticated bool) {
	s.Reset()
	if !authenticated {
		return
	}
	if err := s.FetchCart(ctx); err != nil {
		s.log.Warn("cart sync failed", zap.Error(err))
	}
}

// Reset drops the snapshot and orphans every in-flight response.
func (s *Store) Reset() {
	s.mu.Lock()
	s.issued++
	s.applied = s.issued
	s.snapshot = domain.EmptyCart()
	s.mu.Unlock()
}

// FetchCart replaces the snapshot with the server cart. Without a session
// it does nothing. On failure the previous snapshot stays.
func (s *Store) FetchCart(ctx context.Context) error {
	if !s.id.Authenticated() {
		return nil
	}
	seq := s.dispatch()
	c, err := s.api.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("cart.FetchCart: %w", err)
	}
	s.apply(seq, *c)
	return nil
}

// AddToCart adds a pre-made or custom box and returns the server's cart.
func (s *Store) AddToCart(ctx context.Context, req domain.AddToCartRequest) (domain.Cart, error) {
	if !s.id.Authenticated() {
		return domain.Cart{}, ErrNoSession
	}
	s.mu.Lock()
	s.adding++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.adding--
		s.mu.Unlock()
	}()

	seq := s.dispatch()
	c, err := s.api.AddToCart(ctx, req)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart.AddToCart: %w", err)
	}
	s.apply(seq, *c)
	return c.Clone(), nil
}

// UpdateItem applies a partial update to one line.
func (s *Store) UpdateItem(ctx context.Context, itemID string, req domain.UpdateItemRequest) error {
	if !s.id.Authenticated() {
		return ErrNoSession
	}
	seq := s.dispatch()
	c, err := s.api.UpdateCartItem(ctx, itemID, req)
	if err != nil {
		return fmt.Errorf("cart.UpdateItem: %w", err)
	}
	s.apply(seq, *c)
	return nil
}

// RemoveItem deletes one line.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	if !s.id.Authenticated() {
		return ErrNoSession
	}
	seq := s.dispatch()
	c, err := s.api.RemoveCartItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("cart.RemoveItem: %w", err)
	}
	s.apply(seq, *c)
	return nil
}

// ClearCart empties the cart on the server, then locally without a refetch.
func (s *Store) ClearCart(ctx context.Context) error {
	if !s.id.Authenticated() {
		return ErrNoSession
	}
	seq := s.dispatch()
	if err := s.api.ClearCart(ctx); err != nil {
		return fmt.Errorf("cart.ClearCart: %w", err)
	}
	s.apply(seq, domain.EmptyCart())
	return nil
}

func (s *Store) dispatch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

func (s *Store) apply(seq uint64, c domain.Cart) {
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		s.log.Debug("dropping stale cart response", zap.Uint64("seq", seq), zap.Uint64("applied", s.applied))
		return
	}
	s.applied = seq
	s.snapshot = c.Clone()
}
