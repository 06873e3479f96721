// Package ginmw provides the Gin middleware implementing the gateway's
// authentication and authorization gates.
//
// Auth runs the per-request checks in a fixed order: token existence,
// revocation, then cryptographic verification. Revocation is checked before
// verification so a revoked-but-still-valid token is rejected uniformly,
// independent of verification cost.
package ginmw

import (
	"net/http"
	"strings"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/audit"
	"github.com/chimerakang/authgate/authz"
	"github.com/chimerakang/authgate/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for storing gate results in gin.Context.
const (
	KeyClaims    = "authgate_claims"
	KeyUserID    = "authgate_user_id"
	KeyEmail     = "authgate_email"
	KeyRole      = "authgate_role"
	KeyRequestID = "authgate_request_id"
)

// AuthOption configures Auth middleware behavior.
type AuthOption func(*authConfig)

type authConfig struct {
	metrics *metrics.Metrics
}

// WithMetrics records auth outcomes on the given metrics instance.
func WithMetrics(m *metrics.Metrics) AuthOption {
	return func(cfg *authConfig) { cfg.metrics = m }
}

// Auth returns the authentication gate. It extracts a bearer token from the
// Authorization header and checks it against the revocation registry and the
// verifier. On success, the claims are stored in the gin context and in the
// request context (retrievable via GetClaims / authgate.ClaimsFromContext).
//
// Responds 401 if the token is missing, 403 if it is revoked or fails
// verification.
func Auth(verifier authgate.TokenVerifier, registry authgate.RevocationRegistry, opts ...AuthOption) gin.HandlerFunc {
	cfg := &authConfig{}
	for _, o := range opts {
		o(cfg)
	}

	return func(c *gin.Context) {
		cfg.metrics.RecordAuthRequest()

		tokenStr := extractBearerToken(c.Request)
		if tokenStr == "" {
			cfg.metrics.RecordAuthFailure(metrics.ReasonMissingToken)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		if registry.IsRevoked(c.Request.Context(), tokenStr) {
			cfg.metrics.RecordAuthFailure(metrics.ReasonRevoked)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), tokenStr)
		if err != nil {
			cfg.metrics.RecordAuthFailure(metrics.ReasonInvalidToken)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		c.Request = c.Request.WithContext(authgate.WithClaims(c.Request.Context(), claims))

		c.Next()
	}
}

// RequireRoles returns the authorization gate for a route with a fixed
// allowed-role set. Requires Auth to run first. A missing claim or a role
// outside the set responds 403.
func RequireRoles(checker *authz.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !checker.Allowed(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

// RequestID assigns a request id to each request, echoes it in the
// X-Request-ID response header, and stores it in the request context for the
// audit trail.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(KeyRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Request = c.Request.WithContext(audit.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// --- Context helpers ---

// GetClaims returns the verified claims from the Gin context, or nil if the
// request did not pass the authentication gate.
func GetClaims(c *gin.Context) *authgate.Claims {
	v, _ := c.Get(KeyClaims)
	cl, _ := v.(*authgate.Claims)
	return cl
}

// GetUserID returns the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) int64 {
	v, _ := c.Get(KeyUserID)
	id, _ := v.(int64)
	return id
}

// GetEmail returns the authenticated user's email from the Gin context.
func GetEmail(c *gin.Context) string {
	v, _ := c.Get(KeyEmail)
	s, _ := v.(string)
	return s
}

// GetRole returns the authenticated user's role from the Gin context.
func GetRole(c *gin.Context) authgate.Role {
	v, _ := c.Get(KeyRole)
	r, _ := v.(authgate.Role)
	return r
}

// GetRequestID returns the request id from the Gin context.
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(KeyRequestID)
	s, _ := v.(string)
	return s
}

// --- internal helpers ---

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// ExtractBearerToken exposes the header parsing for handlers that read the
// token outside the gate (logout).
func ExtractBearerToken(r *http.Request) string {
	return extractBearerToken(r)
}
