// Package storage persists the session credential and profile across runs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/boxify/boxify/pkg/domain"
)

// Keys of the two persisted entries. They are always written and removed
// together in a single transaction.
const (
	KeyToken = "boxify_token"
	KeyUser  = "boxify_user"
)

const defaultBucket = "session"

// ErrNotFound is returned by LoadSession when no complete session is stored.
var ErrNotFound = errors.New("storage: session not found")

// Store wraps BoltDB as the client's durable key-value store.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage.Open: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage.Open: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(defaultBucket))
		return err
	}); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("storage.Open: create bucket: %w", err)
	}

	return &Store{
		db:     db,
		bucket: []byte(defaultBucket),
	}, nil
}

// SaveSession writes the token and profile atomically.
func (s *Store) SaveSession(token string, profile domain.Profile) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if token == "" {
		return errors.New("storage.SaveSession: empty token")
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("storage.SaveSession: marshal profile: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if err := b.Put([]byte(KeyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(KeyUser), payload)
	})
}

// SaveProfile rewrites the stored profile, leaving the token untouched.
// It fails with ErrNotFound when no token is stored, so a profile can never
// be persisted on its own.
func (s *Store) SaveProfile(profile domain.Profile) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("storage.SaveProfile: marshal profile: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if len(b.Get([]byte(KeyToken))) == 0 {
			return ErrNotFound
		}
		return b.Put([]byte(KeyUser), payload)
	})
}

// LoadSession returns the stored token and profile. A half-written pair
// (token without profile or the reverse, or an unreadable profile) is
// treated as no session and removed.
func (s *Store) LoadSession() (string, domain.Profile, error) {
	if s == nil || s.db == nil {
		return "", domain.Profile{}, bolt.ErrDatabaseNotOpen
	}
	var (
		token   string
		profile domain.Profile
		broken  bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		tok := b.Get([]byte(KeyToken))
		raw := b.Get([]byte(KeyUser))
		if len(tok) == 0 && len(raw) == 0 {
			return ErrNotFound
		}
		if len(tok) == 0 || len(raw) == 0 || json.Unmarshal(raw, &profile) != nil {
			broken = true
			return ErrNotFound
		}
		token = string(tok)
		return nil
	})
	if broken {
		if clearErr := s.ClearSession(); clearErr != nil {
			return "", domain.Profile{}, fmt.Errorf("storage.LoadSession: clear broken session: %w", clearErr)
		}
	}
	if err != nil {
		return "", domain.Profile{}, err
	}
	return token, profile, nil
}

// ClearSession removes both entries atomically.
func (s *Store) ClearSession() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if err := b.Delete([]byte(KeyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(KeyUser))
	})
}

// HasToken and HasProfile report presence of each entry independently,
// without the repair LoadSession performs on a half-written pair. Nothing
// in the client needs them; they are test support so the storage and
// session tests can assert both entries are written and removed together.
func (s *Store) HasToken() bool   { return s.has(KeyToken) }
func (s *Store) HasProfile() bool { return s.has(KeyUser) }

func (s *Store) has(key string) bool {
	if s == nil || s.db == nil {
		return false
	}
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error { //nolint:errcheck
		found = len(tx.Bucket(s.bucket).Get([]byte(key))) > 0
		return nil
	})
	return found
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
