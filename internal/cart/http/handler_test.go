package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/cart/domain"
	"github.com/lojaweb/storefront-api/internal/cart/service"
	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
)

type fakeCarts struct {
	person int64
	cart   domain.Cart
	favs   []int64
}

func (f *fakeCarts) Get(_ context.Context, personID int64) (domain.View, error) {
	f.person = personID
	return domain.Price(f.cart, nil), nil
}

func (f *fakeCarts) Dispatch(_ context.Context, personID int64, a domain.Action) (domain.View, error) {
	f.person = personID
	if a.ProductID == 404 {
		return domain.View{}, service.ErrProductUnavailable
	}
	next, err := domain.Reduce(f.cart, a)
	if err != nil {
		return domain.View{}, err
	}
	f.cart = next
	return domain.Price(next, nil), nil
}

func (f *fakeCarts) Clear(context.Context, int64) error {
	f.cart = domain.Cart{}
	return nil
}

func (f *fakeCarts) Favorites(_ context.Context, _ int64, p listview.Params) (listview.Page[catalog.Product], error) {
	items := make([]catalog.Product, 0, len(f.favs))
	for _, id := range f.favs {
		items = append(items, catalog.Product{ID: id})
	}
	return listview.Apply(items, listview.Build[catalog.Product](p), nil), nil
}

func (f *fakeCarts) AddFavorite(_ context.Context, _ int64, productID int64) error {
	f.favs = append(f.favs, productID)
	return nil
}

func (f *fakeCarts) RemoveFavorite(context.Context, int64, int64) error { return nil }

func setup(svc CartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	respond.UseJSONFieldNames()
	r := gin.New()
	New(svc, 10, 50).Register(r, func(c *gin.Context) { auth.SetPrincipal(c, auth.Principal{ID: 8}) })
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartActions(t *testing.T) {
	svc := &fakeCarts{}
	r := setup(svc)

	w := post(r, "/carrinho/acao", `{"type":"add","CODPROD":1,"TAMANHO":"M","QTD":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = post(r, "/carrinho/acao", `{"type":"add","CODPROD":1,"TAMANHO":"M","QTD":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var v domain.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.Len(t, v.Items, 1)
	assert.Equal(t, 3, v.Items[0].Qty)
	assert.Equal(t, int64(8), svc.person)

	tests := []struct {
		body  string
		code  int
		field string
	}{
		{`{"type":"explode"}`, http.StatusBadRequest, `"type"`},
		{`{"type":"add","CODPROD":1,"QTD":0}`, http.StatusBadRequest, `"QTD"`},
		{`{"type":"add","CODPROD":1,"QTD":100}`, http.StatusBadRequest, `"QTD"`},
		{`{"type":"add","QTD":1}`, http.StatusBadRequest, `"CODPROD"`},
		{`{"type":"add","CODPROD":404,"QTD":1}`, http.StatusNotFound, `"error"`},
	}
	for _, tt := range tests {
		w := post(r, "/carrinho/acao", tt.body)
		assert.Equal(t, tt.code, w.Code, tt.body)
		assert.Contains(t, w.Body.String(), tt.field, tt.body)
	}

	req := httptest.NewRequest(http.MethodDelete, "/carrinho", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, svc.cart.Items)
}

func TestGetCart_EmptyHasItemsArray(t *testing.T) {
	r := setup(&fakeCarts{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/carrinho", nil))
	assert.JSONEq(t, `{"ITENS":[],"QTD_ITENS":0,"TOTAL":0}`, w.Body.String())
}

func TestFavoritesRoutes(t *testing.T) {
	svc := &fakeCarts{}
	r := setup(svc)

	assert.Equal(t, http.StatusNoContent, post(r, "/favoritos/5", "").Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/favoritos/abc", "").Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favoritos?pageSize=1", nil))
	var page listview.Page[catalog.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, int64(5), page.Items[0].ID)
}
