// Package authgate implements a minimal HTTP API gateway that authenticates
// requests with bearer tokens, authorizes them by role, and dispatches them
// to in-memory resource handlers.
//
// The root package defines the domain types and the service interfaces;
// concrete implementations live in subpackages (token/, user/, revocation/,
// character/) and are injected into a Gateway via Option functions.
//
// Example:
//
//	gw, err := authgate.New(
//	    authgate.WithTokenService(svc),
//	    authgate.WithCredentialStore(users),
//	    authgate.WithRevocationRegistry(revoked),
//	    authgate.WithCharacterStore(characters),
//	)
package authgate

import (
	"fmt"
	"io"
	"log/slog"
)

// Gateway is the composition root: it aggregates the stores and token
// services the HTTP layer depends on. Constructed once at process start and
// passed into middleware and handlers; no package-level singletons.
type Gateway struct {
	logger     *slog.Logger
	issuer     TokenIssuer
	verifier   TokenVerifier
	users      CredentialStore
	revoked    RevocationRegistry
	characters CharacterStore
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets a structured logger for the gateway.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithTokenIssuer sets the token issuing implementation.
func WithTokenIssuer(i TokenIssuer) Option {
	return func(g *Gateway) { g.issuer = i }
}

// WithTokenVerifier sets the token verification implementation.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(g *Gateway) { g.verifier = v }
}

// WithTokenService sets a combined issuer/verifier in one call.
func WithTokenService(s interface {
	TokenIssuer
	TokenVerifier
}) Option {
	return func(g *Gateway) {
		g.issuer = s
		g.verifier = s
	}
}

// WithCredentialStore sets the user credential store.
func WithCredentialStore(s CredentialStore) Option {
	return func(g *Gateway) { g.users = s }
}

// WithRevocationRegistry sets the revoked-token registry.
func WithRevocationRegistry(r RevocationRegistry) Option {
	return func(g *Gateway) { g.revoked = r }
}

// WithCharacterStore sets the character resource store.
func WithCharacterStore(s CharacterStore) Option {
	return func(g *Gateway) { g.characters = s }
}

// New creates a Gateway from the given options. The token services, the
// credential store, and the revocation registry are mandatory; the
// authentication gate cannot run without them.
func New(opts ...Option) (*Gateway, error) {
	g := &Gateway{logger: slog.Default()}
	for _, o := range opts {
		o(g)
	}

	if g.issuer == nil || g.verifier == nil {
		return nil, fmt.Errorf("authgate: a token issuer and verifier are required")
	}
	if g.users == nil {
		return nil, fmt.Errorf("authgate: a credential store is required")
	}
	if g.revoked == nil {
		return nil, fmt.Errorf("authgate: a revocation registry is required")
	}
	return g, nil
}

// Logger returns the gateway's structured logger.
func (g *Gateway) Logger() *slog.Logger { return g.logger }

// Issuer returns the token issuer.
func (g *Gateway) Issuer() TokenIssuer { return g.issuer }

// Verifier returns the token verifier.
func (g *Gateway) Verifier() TokenVerifier { return g.verifier }

// Users returns the credential store.
func (g *Gateway) Users() CredentialStore { return g.users }

// Revocations returns the revoked-token registry.
func (g *Gateway) Revocations() RevocationRegistry { return g.revoked }

// Characters returns the character store, or nil if not configured.
func (g *Gateway) Characters() CharacterStore { return g.characters }

// Close releases resources held by any injected component that implements
// io.Closer.
func (g *Gateway) Close() error {
	closers := []interface{}{
		g.issuer, g.verifier, g.users, g.revoked, g.characters,
	}
	var firstErr error
	seen := map[io.Closer]bool{}
	for _, svc := range closers {
		if cl, ok := svc.(io.Closer); ok && cl != nil && !seen[cl] {
			seen[cl] = true
			if err := cl.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
