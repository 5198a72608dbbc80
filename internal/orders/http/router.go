package http

import "github.com/gin-gonic/gin"

// Register mounts /pedido. Status changes need admin.
func (h *Handler) Register(r gin.IRouter, authn, admin gin.HandlerFunc) {
	g := r.Group("/pedido", authn)
	g.GET("/listar", h.list)
	g.POST("/cadastrar", h.checkout)
	g.GET("/buscar/:id", h.get)
	g.PUT("/status/:id", admin, h.updateStatus)
}
