// Package revocation tracks tokens invalidated before their natural expiry.
//
// The registry is a process-lifetime set: entries are never removed, so a
// long-running process accumulates one entry per logout. No eviction policy
// is applied.
package revocation

import (
	"context"
	"sync"

	"github.com/chimerakang/authgate"
)

// Registry implements authgate.RevocationRegistry with a mutex-guarded set.
type Registry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

var _ authgate.RevocationRegistry = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{revoked: make(map[string]struct{})}
}

// Revoke marks a token as unusable. Idempotent.
func (r *Registry) Revoke(ctx context.Context, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = struct{}{}
}

// IsRevoked reports whether a token has been revoked.
func (r *Registry) IsRevoked(ctx context.Context, token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[token]
	return ok
}

// Len returns the number of revoked tokens. Feeds the revoked-token gauge.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
