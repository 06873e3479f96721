package authgate

import "time"

// Role is the closed set of roles a user can hold. Route descriptors
// hold sets of Role values rather than raw strings.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Claims represents the identity payload embedded in a signed token.
// Immutable once issued; refresh tokens carry only the UserID.
type Claims struct {
	UserID    int64
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// User is a registered account keyed by email. The password hash and the
// cached refresh token never leave the process.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	RefreshToken string `json:"-"`
}

// Character is an in-memory resource served by the gateway's CRUD routes.
type Character struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
