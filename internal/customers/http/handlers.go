package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/customers/domain"
	"github.com/lojaweb/storefront-api/internal/logging"
	"github.com/lojaweb/storefront-api/internal/postal"
)

func (h *Handler) me(c *gin.Context) {
	p, err := h.customers.Person(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) person(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	p, err := h.customers.Person(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateMe(c *gin.Context) {
	var in domain.PersonUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	p, err := h.customers.UpdatePerson(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listAddresses(c *gin.Context) {
	items, err := h.customers.Addresses(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) createAddress(c *gin.Context) {
	var in domain.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.customers.AddAddress(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) updateAddress(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	var in domain.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.customers.UpdateAddress(c.Request.Context(), auth.UserID(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) removeAddress(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.customers.RemoveAddress(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookupCEP(c *gin.Context) {
	addr, err := h.customers.LookupCEP(c.Request.Context(), c.Param("cep"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPersonNotFound):
		respond.Error(c, http.StatusNotFound, "person not found")
	case errors.Is(err, domain.ErrAddressNotFound):
		respond.Error(c, http.StatusNotFound, "address not found")
	case errors.Is(err, domain.ErrAddressInUse):
		respond.Error(c, http.StatusConflict, "address is used by an order")
	case errors.Is(err, domain.ErrInvalidCEP), errors.Is(err, postal.ErrInvalidCEP):
		respond.Fields(c, map[string]string{"CEP": "must have 8 digits"})
	case errors.Is(err, postal.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "postal code not found")
	case errors.Is(err, postal.ErrUpstream):
		logging.FromContext(c.Request.Context()).Warn("postal lookup failed", zap.Error(err))
		respond.Error(c, http.StatusBadGateway, "postal code service unavailable")
	default:
		logging.FromContext(c.Request.Context()).Error("customer request failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
