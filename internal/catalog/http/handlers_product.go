package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/catalog/service"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/logging"
)

const maxImageBytes = 5 << 20

func (h *Handler) listProducts(c *gin.Context) {
	criteria := service.ProductCriteria{
		Query:    c.Query("q"),
		Category: c.Query("categoria"),
		Price:    c.Query("preco"),
	}
	params := listview.ParseParams(c.Request.URL.Query(), h.pageSize, h.maxPageSize)

	page, err := h.products.List(c.Request.Context(), criteria, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) suggest(c *gin.Context) {
	items, err := h.products.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createProduct(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) removeProduct(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Remove(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadImage expects a multipart field named "imagem"
func (h *Handler) uploadImage(c *gin.Context) {
	id, ok := respond.ParamID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<10)
	fh, err := c.FormFile("imagem")
	if err != nil {
		respond.Fields(c, map[string]string{"imagem": "is required"})
		return
	}
	if fh.Size > maxImageBytes {
		respond.Fields(c, map[string]string{"imagem": "must be at most 5 MB"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	// sniff the type from the content itself
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		respond.Fields(c, map[string]string{"imagem": "must be an image"})
		return
	}

	body := io.MultiReader(bytes.NewReader(head[:n]), f)
	url, err := h.products.UploadImage(c.Request.Context(), id, fh.Filename, contentType, body, fh.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"IMAGEM": url})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		respond.Error(c, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrReviewNotFound):
		respond.Error(c, http.StatusNotFound, "review not found")
	case errors.Is(err, domain.ErrReviewExists):
		respond.Error(c, http.StatusConflict, "you already reviewed this product")
	case errors.Is(err, domain.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "not allowed")
	case errors.Is(err, domain.ErrImagesDisabled):
		respond.Error(c, http.StatusServiceUnavailable, "image upload is not available")
	default:
		logging.FromContext(c.Request.Context()).Error("catalog request failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
