package http

import "github.com/gin-gonic/gin"

// Register mounts /pessoa and /endereco. Everything requires a session.
func (h *Handler) Register(r gin.IRouter, authn, admin gin.HandlerFunc) {
	p := r.Group("/pessoa", authn)
	p.GET("/buscar", h.me)
	p.GET("/buscar/:id", admin, h.person)
	p.PUT("/atualizar", h.updateMe)

	e := r.Group("/endereco", authn)
	e.GET("/listar", h.listAddresses)
	e.POST("/cadastrar", h.createAddress)
	e.PUT("/atualizar/:id", h.updateAddress)
	e.DELETE("/remover/:id", h.removeAddress)
	e.GET("/cep/:cep", h.lookupCEP)
}
