package authgate

import "context"

// TokenIssuer creates signed, time-bounded tokens.
// Implementations: token/ (HS256 JWT).
type TokenIssuer interface {
	// IssueAccessToken signs a short-lived token carrying the full claims.
	IssueAccessToken(claims Claims) (string, error)

	// IssueRefreshToken signs a longer-lived token carrying only the subject id.
	IssueRefreshToken(userID int64) (string, error)
}

// TokenVerifier verifies tokens and extracts claims.
// Implementations: token/ (HS256 JWT).
type TokenVerifier interface {
	// Verify validates the token signature and expiry and returns the claims.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// CredentialStore holds user records keyed by email and owns password
// hashing and verification.
type CredentialStore interface {
	// CreateUser registers a new account. The password is hashed before
	// storage. Fails with user.ErrDuplicateEmail if the email is taken.
	CreateUser(ctx context.Context, email, password string) (*User, error)

	// FindUserByEmail looks up an account.
	FindUserByEmail(ctx context.Context, email string) (*User, bool)

	// ValidatePassword checks a password against the stored hash.
	ValidatePassword(ctx context.Context, u *User, password string) bool

	// CacheRefreshToken stores the latest refresh token on the user record.
	CacheRefreshToken(ctx context.Context, email, token string) bool

	// RevokeSession clears the cached refresh token. Returns false if the
	// user is unknown.
	RevokeSession(ctx context.Context, email string) bool
}

// RevocationRegistry is the set of tokens invalidated before their natural
// expiry. Entries accumulate for the process lifetime.
type RevocationRegistry interface {
	// Revoke marks a token as unusable. Idempotent.
	Revoke(ctx context.Context, token string)

	// IsRevoked reports whether a token has been revoked.
	IsRevoked(ctx context.Context, token string) bool
}

// CharacterStore is the in-memory resource store behind the /characters routes.
type CharacterStore interface {
	// List returns all characters in insertion order.
	List(ctx context.Context) []Character

	// Get returns a character by id.
	Get(ctx context.Context, id int64) (Character, bool)

	// Add stores a new character and returns it with its assigned id.
	Add(ctx context.Context, c Character) Character

	// Update replaces a character's fields, keeping the given id.
	Update(ctx context.Context, id int64, c Character) (Character, bool)

	// Delete removes a character by id.
	Delete(ctx context.Context, id int64) bool
}
