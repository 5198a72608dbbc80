package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/cart/domain"
	"github.com/lojaweb/storefront-api/internal/cart/repository"
	"github.com/lojaweb/storefront-api/internal/cart/service"
	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/logging"
)

type CartService interface {
	Get(ctx context.Context, personID int64) (domain.View, error)
	Dispatch(ctx context.Context, personID int64, a domain.Action) (domain.View, error)
	Clear(ctx context.Context, personID int64) error
	Favorites(ctx context.Context, personID int64, p listview.Params) (listview.Page[catalog.Product], error)
	AddFavorite(ctx context.Context, personID, productID int64) error
	RemoveFavorite(ctx context.Context, personID, productID int64) error
}

type Handler struct {
	carts       CartService
	pageSize    int
	maxPageSize int
}

func New(carts CartService, pageSize, maxPageSize int) *Handler {
	return &Handler{carts: carts, pageSize: pageSize, maxPageSize: maxPageSize}
}

// Register mounts /carrinho and /favoritos behind authn.
func (h *Handler) Register(r gin.IRouter, authn gin.HandlerFunc) {
	c := r.Group("/carrinho", authn)
	c.GET("", h.get)
	c.POST("/acao", h.dispatch)
	c.DELETE("", h.clear)

	f := r.Group("/favoritos", authn)
	f.GET("", h.favorites)
	f.POST("/:id", h.addFavorite)
	f.DELETE("/:id", h.removeFavorite)
}

func (h *Handler) get(c *gin.Context) {
	v, err := h.carts.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) dispatch(c *gin.Context) {
	var a domain.Action
	if err := c.ShouldBindJSON(&a); err != nil {
		respond.BindError(c, err)
		return
	}
	v, err := h.carts.Dispatch(c.Request.Context(), auth.UserID(c), a)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) favorites(c *gin.Context) {
	params := listview.ParseParams(c.Request.URL.Query(), h.pageSize, h.maxPageSize)
	page, err := h.carts.Favorites(c.Request.Context(), auth.UserID(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) addFavorite(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.carts.AddFavorite(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeFavorite(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.carts.RemoveFavorite(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		respond.Fields(c, map[string]string{"QTD": "must be at least 1"})
	case errors.Is(err, domain.ErrQuantityLimit):
		respond.Fields(c, map[string]string{"QTD": "must be at most 99"})
	case errors.Is(err, domain.ErrInvalidProduct):
		respond.Fields(c, map[string]string{"CODPROD": "is required"})
	case errors.Is(err, service.ErrSizeNotOffered):
		respond.Fields(c, map[string]string{"TAMANHO": "is not offered for this product"})
	case errors.Is(err, domain.ErrUnknownAction):
		respond.Fields(c, map[string]string{"type": "is invalid"})
	case errors.Is(err, service.ErrProductUnavailable):
		respond.Error(c, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrConflict):
		respond.Error(c, http.StatusConflict, "cart was changed by another request, try again")
	default:
		logging.FromContext(c.Request.Context()).Error("cart request failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
