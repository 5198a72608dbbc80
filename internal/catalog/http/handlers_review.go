package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/catalog/domain"
)

func (h *Handler) listReviews(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	summary, err := h.reviews.ForProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) createReview(c *gin.Context) {
	var in domain.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	rv, err := h.reviews.Create(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *Handler) removeReview(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	who, _ := auth.CurrentUser(c)
	if err := h.reviews.Delete(c.Request.Context(), who, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
