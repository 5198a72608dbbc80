package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/config"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/jobs"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:   config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		Postal: config.PostalConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second, RatePerSec: 1, Burst: 1},
		UI:     config.UIConfig{PublicAPIURL: "http://api.loja.test", PageSize: 10, MaxPageSize: 50},
		Jobs:   config.JobsConfig{RatingsSpec: "0 0 3 * * *", StaleOrderAge: 72 * time.Hour},
		App:    config.AppConfig{Environment: "test", Version: "9.9.9"},
	}
}

func newRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := testConfig()
	svc, err := NewServices(context.Background(), cfg, Deps{SQL: db, Redis: client, Log: zap.NewNop()})
	require.NoError(t, err)

	r := BuildRouter(RouterDeps{
		ServiceName: "storefront-api",
		Config:      cfg,
		Services:    svc,
		Redis:       RedisPinger{Client: client},
	})
	return r, mock, svc
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, mock, _ := newRouter(t)

	w := get(r, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"disabled"`)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)
	assert.Contains(t, w.Body.String(), `"version":"9.9.9"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = get(r, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"apiBaseUrl":"http://api.loja.test"`)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM produto WHERE ativo`)).
		WillReturnRows(sqlmock.NewRows([]string{"codprod", "nome", "descricao", "preco", "categoria", "tamanhos",
			"estoque", "imagem", "media_avaliacao", "ativo", "criado_em"}))
	w = get(r, "/produto/listar", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	r, _, svc := newRouter(t)

	for _, path := range []string{"/carrinho", "/pedido/listar", "/pessoa/buscar", "/auth/me"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path, "").Code, path)
	}

	raw, _, err := svc.Tokens.Issue(auth.Principal{ID: 3, Email: "ana@loja.example"})
	require.NoError(t, err)

	w := get(r, "/carrinho", raw)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ITENS":[],"QTD_ITENS":0,"TOTAL":0}`, w.Body.String())

	// no pool, no dashboard
	assert.Equal(t, http.StatusNotFound, get(r, "/admin/dashboard", raw).Code)
}

func TestRouter_OptionalFeaturesOff(t *testing.T) {
	r, _, svc := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(`{"CREDENTIAL":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	_, ok := jobs.Find(svc.Jobs, jobs.RatingsJob)
	assert.True(t, ok)
}
