package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lojaweb/storefront-api/config"
	httpapi "github.com/lojaweb/storefront-api/internal/api/http"
	"github.com/lojaweb/storefront-api/internal/api/http/middleware"
	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	authhttp "github.com/lojaweb/storefront-api/internal/auth/http"
	authmw "github.com/lojaweb/storefront-api/internal/auth/middleware"
	carthttp "github.com/lojaweb/storefront-api/internal/cart/http"
	cataloghttp "github.com/lojaweb/storefront-api/internal/catalog/http"
	customerhttp "github.com/lojaweb/storefront-api/internal/customers/http"
	"github.com/lojaweb/storefront-api/internal/dashboard"
	orderhttp "github.com/lojaweb/storefront-api/internal/orders/http"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Services    *Services
	// DB and Redis are probed by /health. Leave them nil to report "disabled".
	DB    httpapi.Pinger
	Redis httpapi.Pinger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg, svc := dep.Config, dep.Services
	respond.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}))

	// public routes still see the caller when a valid token is sent
	r.Use(authmw.OptionalAuth(svc.Tokens))

	httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dep.DB, dep.Redis).RegisterRoutes(r)
	httpapi.RegisterRuntimeConfig(r, httpapi.NewRuntimeConfig(cfg))

	authn := authmw.RequireAuth(svc.Tokens)
	admin := authmw.RequireAdmin()
	pageSize, maxPageSize := cfg.UI.PageSize, cfg.UI.MaxPageSize

	authhttp.New(svc.Auth).Register(r, authn)
	cataloghttp.New(svc.Products, svc.Reviews, pageSize, maxPageSize).Register(r, authn, admin)
	customerhttp.New(svc.Customers).Register(r, authn, admin)
	carthttp.New(svc.Carts, pageSize, maxPageSize).Register(r, authn)
	orderhttp.New(svc.Orders, pageSize, maxPageSize).Register(r, authn, admin)
	if svc.Dashboard != nil {
		dashboard.NewHandler(svc.Dashboard).Register(r, authn, admin)
	}

	return r
}
