// Package token issues and verifies HS256-signed JWTs carrying identity
// claims.
//
// Two kinds of token are issued with the same process-wide secret: access
// tokens (short-lived, full claims) and refresh tokens (longer-lived, subject
// id only). Verification distinguishes expiry, bad signature, and malformed
// input as separate error values so callers can branch on the failure kind.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chimerakang/authgate"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Matched with errors.Is.
var (
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformed        = errors.New("malformed token")
)

const (
	// DefaultAccessTTL is the access token lifetime.
	DefaultAccessTTL = 15 * time.Minute

	// DefaultRefreshTTL is the refresh token lifetime.
	DefaultRefreshTTL = 30 * time.Minute
)

// Service signs and verifies tokens with a shared secret loaded once at
// process start.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// compile-time checks
var (
	_ authgate.TokenIssuer   = (*Service)(nil)
	_ authgate.TokenVerifier = (*Service)(nil)
)

// Option configures the Service.
type Option func(*Service)

// WithAccessTTL sets the access token lifetime. Default: 15 minutes.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Service) { s.accessTTL = d }
}

// WithRefreshTTL sets the refresh token lifetime. Default: 30 minutes.
func WithRefreshTTL(d time.Duration) Option {
	return func(s *Service) { s.refreshTTL = d }
}

// WithClock sets the time source used for issuance timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token service. The secret must be non-empty; there is
// no fallback secret.
func NewService(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("authgate/token: signing secret is required")
	}

	s := &Service{
		secret:     secret,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// tokenClaims is the wire shape of both token kinds. Refresh tokens leave
// Email and Role empty.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// IssueAccessToken signs a short-lived token embedding the full claims.
func (s *Service) IssueAccessToken(claims authgate.Claims) (string, error) {
	now := s.now()
	return s.sign(tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   string(claims.Role),
	})
}

// IssueRefreshToken signs a longer-lived token carrying only the subject id.
func (s *Service) IssueRefreshToken(userID int64) (string, error) {
	now := s.now()
	return s.sign(tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
		UserID: userID,
	})
}

func (s *Service) sign(claims tokenClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("authgate/token: sign: %w", err)
	}
	return signed, nil
}

// Verify validates the token signature and expiry and returns the embedded
// claims. Expiry is strict; no clock skew is tolerated. The role is carried
// as-is: membership checks belong to the authorization gate.
func (s *Service) Verify(ctx context.Context, tokenString string) (*authgate.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	claims := &tokenClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("authgate/token: %w", classify(err))
	}
	if !tok.Valid {
		return nil, fmt.Errorf("authgate/token: %w", ErrMalformed)
	}

	out := &authgate.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   authgate.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// classify maps jwt/v5 parse errors onto the package's failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
