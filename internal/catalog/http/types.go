package http

import (
	"context"
	"io"

	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/catalog/service"
	"github.com/lojaweb/storefront-api/internal/listview"
)

type ProductService interface {
	List(ctx context.Context, c service.ProductCriteria, p listview.Params) (listview.Page[domain.Product], error)
	Suggest(ctx context.Context, q string) ([]domain.Suggestion, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Remove(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, filename, contentType string, body io.Reader, size int64) (string, error)
}

type ReviewService interface {
	ForProduct(ctx context.Context, productID int64) (domain.ReviewSummary, error)
	Create(ctx context.Context, personID int64, in domain.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, who auth.Principal, id int64) error
}

type Handler struct {
	products    ProductService
	reviews     ReviewService
	pageSize    int
	maxPageSize int
}

func New(products ProductService, reviews ReviewService, pageSize, maxPageSize int) *Handler {
	return &Handler{products: products, reviews: reviews, pageSize: pageSize, maxPageSize: maxPageSize}
}
