package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/logging"
)

type Summarizer interface {
	Summary(ctx context.Context) (*Summary, error)
}

type Handler struct {
	svc Summarizer
}

func NewHandler(svc Summarizer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter, authn, admin gin.HandlerFunc) {
	r.GET("/admin/dashboard", authn, admin, h.get)
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("dashboard failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, s)
}
