package http

import "github.com/gin-gonic/gin"

// Register mounts /auth. authn guards the routes that need a session.
func (h *Handler) Register(r gin.IRouter, authn gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/registro", h.SignUp)
	g.POST("/google", h.Google)

	g.GET("/me", authn, h.Me)
	g.PUT("/senha", authn, h.ChangePassword)
}
