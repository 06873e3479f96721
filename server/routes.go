package server

import (
	"net/http"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/authz"
	"github.com/chimerakang/authgate/middleware/ginmw"
	"github.com/gin-gonic/gin"
)

// registerRoutes builds the static route table. Auth requirements per route:
//
//	POST   /auth/register    none
//	POST   /auth/login       none
//	POST   /auth/logout      bearer token read in-handler, no gate
//	GET    /characters       authenticated
//	GET    /characters/:id   authenticated
//	POST   /characters       authenticated + role {admin, user}
//	PATCH  /characters/:id   authenticated + role {admin, user}
//	DELETE /characters/:id   authenticated + role {admin, user}
//
// Everything else is 404 "Endpoint Not Found".
func (s *Server) registerRoutes() {
	e := s.engine
	e.Use(ginmw.RequestID(), s.requestLog(), s.recovery())

	e.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Endpoint Not Found"})
	})

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	e.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	auth := e.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", s.handleLogout)
	}

	authenticated := ginmw.Auth(s.gw.Verifier(), s.gw.Revocations(), ginmw.WithMetrics(s.metrics))
	writers := ginmw.RequireRoles(authz.NewChecker(authgate.RoleAdmin, authgate.RoleUser))

	chars := e.Group("/characters", authenticated)
	{
		chars.GET("", s.handleListCharacters)
		chars.GET("/:id", s.handleGetCharacter)
		chars.POST("", writers, s.handleCreateCharacter)
		chars.PATCH("/:id", writers, s.handleUpdateCharacter)
		chars.DELETE("/:id", writers, s.handleDeleteCharacter)
	}
}
