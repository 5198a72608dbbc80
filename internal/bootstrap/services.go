package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/config"
	"github.com/lojaweb/storefront-api/internal/auth/google"
	"github.com/lojaweb/storefront-api/internal/auth/password"
	authrepo "github.com/lojaweb/storefront-api/internal/auth/repository"
	authservice "github.com/lojaweb/storefront-api/internal/auth/service"
	"github.com/lojaweb/storefront-api/internal/auth/token"
	cartrepo "github.com/lojaweb/storefront-api/internal/cart/repository"
	cartservice "github.com/lojaweb/storefront-api/internal/cart/service"
	catalogrepo "github.com/lojaweb/storefront-api/internal/catalog/repository"
	catalogservice "github.com/lojaweb/storefront-api/internal/catalog/service"
	customerrepo "github.com/lojaweb/storefront-api/internal/customers/repository"
	customerservice "github.com/lojaweb/storefront-api/internal/customers/service"
	"github.com/lojaweb/storefront-api/internal/dashboard"
	"github.com/lojaweb/storefront-api/internal/jobs"
	"github.com/lojaweb/storefront-api/internal/media"
	orderrepo "github.com/lojaweb/storefront-api/internal/orders/repository"
	orderservice "github.com/lojaweb/storefront-api/internal/orders/service"
	"github.com/lojaweb/storefront-api/internal/postal"
)

type Deps struct {
	SQL   *sql.DB
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Log   *zap.Logger
}

// Services holds every wired service of the storefront.
type Services struct {
	Tokens    *token.Issuer
	Auth      *authservice.AuthService
	Products  *catalogservice.ProductService
	Reviews   *catalogservice.ReviewService
	Customers *customerservice.CustomerService
	Carts     *cartservice.CartService
	Orders    *orderservice.OrderService
	Dashboard *dashboard.Service
	Jobs      []jobs.Job
}

func NewServices(ctx context.Context, cfg *config.Config, d Deps) (*Services, error) {
	products := catalogrepo.NewProductRepository(d.SQL)
	carts := cartrepo.NewCartRepository(d.Redis)

	images, err := imageUploader(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	verifier, err := googleVerifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var codes authservice.CodeExchanger
	if cfg.Auth.GoogleClientID != "" && cfg.Auth.GoogleClientSecret != "" {
		codes = google.NewCodeExchanger(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL)
	}
	d.Log.Info("optional features",
		zap.Bool("google_login", verifier != nil),
		zap.Bool("google_code_flow", codes != nil),
		zap.Bool("image_upload", images != nil),
	)

	s := &Services{Tokens: token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)}
	s.Auth = authservice.NewAuthService(
		authrepo.NewUserRepository(d.SQL),
		password.NewHasher(password.DefaultParams),
		s.Tokens,
	).WithGoogle(verifier, codes)

	s.Products = catalogservice.NewProductService(products, images)
	s.Reviews = catalogservice.NewReviewService(catalogrepo.NewReviewRepository(d.SQL), products)

	var postalCache redis.Cmdable
	if d.Redis != nil {
		postalCache = d.Redis
	}
	s.Customers = customerservice.NewCustomerService(
		customerrepo.NewPersonRepository(d.SQL),
		customerrepo.NewAddressRepository(d.SQL),
		postal.NewClient(postal.Options{
			BaseURL:    cfg.Postal.BaseURL,
			Timeout:    cfg.Postal.Timeout,
			RatePerSec: cfg.Postal.RatePerSec,
			Burst:      cfg.Postal.Burst,
			CacheTTL:   cfg.Postal.CacheTTL,
		}, postalCache),
	)

	s.Carts = cartservice.NewCartService(carts, carts, s.Products)
	s.Orders = orderservice.NewOrderService(orderrepo.NewOrderRepository(d.SQL), carts)
	if d.Pool != nil {
		s.Dashboard = dashboard.NewService(dashboard.NewPgSource(d.Pool))
	}

	s.Jobs = jobs.Catalog(jobs.Settings{
		RatingsSpec:     cfg.Jobs.RatingsSpec,
		StaleOrdersSpec: cfg.Jobs.StaleOrdersSpec,
		StaleOrderAge:   cfg.Jobs.StaleOrderAge,
	}, products, s.Orders)

	return s, nil
}

// googleVerifier prefers Firebase when a service account is configured.
// It returns nil when Google sign-in is not configured at all.
func googleVerifier(ctx context.Context, cfg *config.Config) (google.Verifier, error) {
	switch {
	case cfg.Firebase.CredentialsPath != "":
		v, err := google.NewFirebaseVerifier(ctx, cfg.Firebase.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("google sign-in: %w", err)
		}
		return v, nil
	case cfg.Auth.GoogleClientID != "":
		return google.NewIDTokenVerifier(cfg.Auth.GoogleClientID), nil
	}
	return nil, nil
}

func imageUploader(ctx context.Context, cfg config.StorageConfig) (media.Uploader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	u, err := media.NewS3Uploader(ctx, cfg.Bucket, cfg.Region, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}
	return u, nil
}
