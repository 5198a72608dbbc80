package http

import "github.com/gin-gonic/gin"

// Register mounts /produto and /avaliacao. authn must run before admin.
func (h *Handler) Register(r gin.IRouter, authn, admin gin.HandlerFunc) {
	p := r.Group("/produto")
	p.GET("/listar", h.listProducts)
	p.GET("/buscar", h.suggest)
	p.GET("/buscar/:id", h.getProduct)
	p.POST("/cadastrar", authn, admin, h.createProduct)
	p.PUT("/atualizar/:id", authn, admin, h.updateProduct)
	p.DELETE("/remover/:id", authn, admin, h.removeProduct)
	p.POST("/imagem/:id", authn, admin, h.uploadImage)

	a := r.Group("/avaliacao")
	a.GET("/produto/:id", h.listReviews)
	a.POST("/cadastrar", authn, h.createReview)
	a.DELETE("/remover/:id", authn, h.removeReview)
}
