// Package user provides the in-memory credential store.
//
// Accounts are keyed by email. Passwords are hashed with bcrypt before
// storage and verified with bcrypt's constant-time comparison. The store is
// safe for concurrent use; records never leave the store by reference.
package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chimerakang/authgate"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("user already exists")

// DefaultBcryptCost is the bcrypt work factor for new passwords.
const DefaultBcryptCost = 10

// Store implements authgate.CredentialStore with a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	byEmail map[string]*authgate.User
	cost    int
	now     func() time.Time
}

var _ authgate.CredentialStore = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithBcryptCost sets the bcrypt work factor. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock sets the time source used for id allocation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty credential store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byEmail: make(map[string]*authgate.User),
		cost:    DefaultBcryptCost,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateUser registers a new account with the "user" role. The password is
// bcrypt-hashed before storage.
func (s *Store) CreateUser(ctx context.Context, email, password string) (*authgate.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("authgate/user: hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, fmt.Errorf("authgate/user: %w", ErrDuplicateEmail)
	}

	u := &authgate.User{
		ID:           s.now().UnixMilli(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         authgate.RoleUser,
	}
	s.byEmail[email] = u

	out := *u
	return &out, nil
}

// FindUserByEmail looks up an account. The returned record is a copy.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*authgate.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}
	out := *u
	return &out, true
}

// ValidatePassword checks a password against the stored hash.
func (s *Store) ValidatePassword(ctx context.Context, u *authgate.User, password string) bool {
	if u == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CacheRefreshToken stores the latest refresh token on the user record.
// Returns false if the user is unknown.
func (s *Store) CacheRefreshToken(ctx context.Context, email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return false
	}
	u.RefreshToken = token
	return true
}

// RevokeSession clears the cached refresh token. Returns false if the user
// is unknown.
func (s *Store) RevokeSession(ctx context.Context, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return false
	}
	u.RefreshToken = ""
	return true
}
