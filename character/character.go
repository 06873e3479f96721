// Package character provides the in-memory store behind the /characters
// routes.
//
// Ids are allocated from the current Unix-millisecond clock and bumped past
// collisions under the store lock, so two creates in the same millisecond
// still get distinct ids.
package character

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chimerakang/authgate"
)

// Store implements authgate.CharacterStore with a mutex-guarded map.
type Store struct {
	mu     sync.RWMutex
	byID   map[int64]authgate.Character
	lastID int64
	now    func() time.Time
}

var _ authgate.CharacterStore = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for id allocation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty character store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID: make(map[int64]authgate.Character),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns all characters ordered by id.
func (s *Store) List(ctx context.Context) []authgate.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]authgate.Character, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a character by id.
func (s *Store) Get(ctx context.Context, id int64) (authgate.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	return c, ok
}

// Add stores a new character under a freshly allocated id.
func (s *Store) Add(ctx context.Context, c authgate.Character) authgate.Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	s.byID[c.ID] = c
	return c
}

// Update replaces a character's fields, keeping the given id. Returns false
// if the id is unknown.
func (s *Store) Update(ctx context.Context, id int64, c authgate.Character) (authgate.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return authgate.Character{}, false
	}
	c.ID = id
	s.byID[id] = c
	return c, true
}

// Delete removes a character by id. Returns false if the id is unknown.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

// nextID allocates a monotonically increasing id. Callers must hold the lock.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
