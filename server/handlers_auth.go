package server

import (
	"errors"
	"net/http"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/audit"
	"github.com/chimerakang/authgate/metrics"
	"github.com/chimerakang/authgate/middleware/ginmw"
	"github.com/chimerakang/authgate/user"
	"github.com/gin-gonic/gin"
)

// credentialsRequest is the body shape shared by register and login.
type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) handleRegister(c *gin.Context) {
	ctx := c.Request.Context()

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	u, err := s.gw.Users().CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			s.auditor.Log(audit.Event{
				RequestID: audit.RequestID(ctx),
				Email:     req.Email,
				Action:    audit.ActionRegister,
				Result:    audit.ResultFailure,
				Details:   user.ErrDuplicateEmail.Error(),
				IP:        c.ClientIP(),
			})
			c.JSON(http.StatusConflict, gin.H{"message": user.ErrDuplicateEmail.Error()})
			return
		}
		s.logger.Error("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	s.auditor.Log(audit.Event{
		RequestID: audit.RequestID(ctx),
		UserID:    u.ID,
		Email:     u.Email,
		Action:    audit.ActionRegister,
		Result:    audit.ResultSuccess,
		IP:        c.ClientIP(),
	})
	c.JSON(http.StatusCreated, u)
}

func (s *Server) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	u, ok := s.gw.Users().FindUserByEmail(ctx, req.Email)
	if !ok || !s.gw.Users().ValidatePassword(ctx, u, req.Password) {
		s.metrics.RecordAuthFailure(metrics.ReasonBadPassword)
		s.auditor.Log(audit.Event{
			RequestID: audit.RequestID(ctx),
			Email:     req.Email,
			Action:    audit.ActionLogin,
			Result:    audit.ResultFailure,
			IP:        c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Email or Password"})
		return
	}

	claims := authgate.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}
	access, err := s.gw.Issuer().IssueAccessToken(claims)
	if err != nil {
		s.logger.Error("issue access token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	refresh, err := s.gw.Issuer().IssueRefreshToken(u.ID)
	if err != nil {
		s.logger.Error("issue refresh token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	s.gw.Users().CacheRefreshToken(ctx, u.Email, refresh)

	s.auditor.Log(audit.Event{
		RequestID: audit.RequestID(ctx),
		UserID:    u.ID,
		Email:     u.Email,
		Action:    audit.ActionLogin,
		Result:    audit.ResultSuccess,
		IP:        c.ClientIP(),
	})
	c.JSON(http.StatusOK, authgate.TokenPair{AccessToken: access, RefreshToken: refresh})
}

// handleLogout revokes the presented token unconditionally, then clears the
// cached refresh token when the token still decodes to a known identity.
// Without a bearer token the request falls through to the endpoint-not-found
// response, like any unroutable request.
func (s *Server) handleLogout(c *gin.Context) {
	ctx := c.Request.Context()

	tokenStr := ginmw.ExtractBearerToken(c.Request)
	if tokenStr == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "Endpoint Not Found"})
		return
	}

	s.gw.Revocations().Revoke(ctx, tokenStr)
	s.auditor.Log(audit.Event{
		RequestID: audit.RequestID(ctx),
		Action:    audit.ActionTokenRevoke,
		Result:    audit.ResultSuccess,
		IP:        c.ClientIP(),
	})

	// Best effort: the session cache is only cleared when the token still
	// verifies and names a user.
	if claims, err := s.gw.Verifier().Verify(ctx, tokenStr); err == nil && claims.Email != "" {
		if !s.gw.Users().RevokeSession(ctx, claims.Email) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		s.auditor.Log(audit.Event{
			RequestID: audit.RequestID(ctx),
			UserID:    claims.UserID,
			Email:     claims.Email,
			Action:    audit.ActionLogout,
			Result:    audit.ResultSuccess,
			IP:        c.ClientIP(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
