// Package authz provides the role-gating predicate used by the
// authorization gate.
package authz

import "github.com/chimerakang/authgate"

// Checker holds the fixed set of roles allowed on a route. It is built once
// at route-registration time and read-only afterwards.
type Checker struct {
	allowed map[authgate.Role]struct{}
}

// NewChecker creates a checker for the given allowed roles.
func NewChecker(roles ...authgate.Role) *Checker {
	allowed := make(map[authgate.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &Checker{allowed: allowed}
}

// Allowed reports whether the role is in the allowed set. Comparison is
// case-sensitive exact match; an empty role never matches.
func (c *Checker) Allowed(r authgate.Role) bool {
	if r == "" {
		return false
	}
	_, ok := c.allowed[r]
	return ok
}
