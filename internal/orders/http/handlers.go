package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/logging"
	"github.com/lojaweb/storefront-api/internal/orders/domain"
	"github.com/lojaweb/storefront-api/internal/orders/service"
)

func (h *Handler) list(c *gin.Context) {
	who, _ := auth.CurrentUser(c)
	q := c.Request.URL.Query()
	criteria := service.OrderCriteria{
		ID:     q.Get("codped"),
		Status: q.Get("status"),
		Total:  q.Get("total"),
		Day:    q.Get("data"),
	}

	page, err := h.orders.List(c.Request.Context(), who, criteria, listview.ParseParams(q, h.pageSize, h.maxPageSize))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	who, _ := auth.CurrentUser(c)

	order, err := h.orders.Checkout(c.Request.Context(), who, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	who, _ := auth.CurrentUser(c)

	order, err := h.orders.Get(c.Request.Context(), who, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	var req domain.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var (
		stock      *domain.StockError
		transition *domain.TransitionError
	)
	switch {
	case errors.As(err, &stock):
		respond.Error(c, http.StatusConflict, "insufficient stock for "+stock.Name)
	case errors.Is(err, domain.ErrProductUnavailable):
		respond.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSizeNotOffered):
		respond.Fields(c, map[string]string{"TAMANHO": "is not offered for this product"})
	case errors.Is(err, domain.ErrAddressNotOwned):
		respond.Fields(c, map[string]string{"CODEND": "does not belong to the customer"})
	case errors.As(err, &transition):
		respond.Error(c, http.StatusUnprocessableEntity, transition.Error())
	case errors.Is(err, domain.ErrForbidden):
		respond.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		respond.Error(c, http.StatusNotFound, "order not found")
	default:
		logging.FromContext(c.Request.Context()).Error("order request failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
