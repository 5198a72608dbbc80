package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/logging"
	"github.com/lojaweb/storefront-api/internal/media"
)

const maxSuggestions = 5

type ProductStore interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetMany(ctx context.Context, ids []int64) ([]domain.Product, error)
	FindIDByName(ctx context.Context, name string) (int64, error)
	Suggest(ctx context.Context, q string, limit int) ([]domain.Suggestion, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Deactivate(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, url string) error
}

// ProductCriteria are the catalog filters of the listing page.
type ProductCriteria struct {
	Query    string
	Category string
	Price    string
}

var productSorter = listview.Sorter[domain.Product]{
	"nome": func(a, b domain.Product) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	"preco": func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) },
	// newest and best rated come first in ascending order
	"recentes":  func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) },
	"avaliacao": func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) },
}

type ProductService struct {
	products ProductStore
	images   media.Uploader
}

// NewProductService accepts a nil uploader when image storage is not configured.
func NewProductService(products ProductStore, images media.Uploader) *ProductService {
	return &ProductService{products: products, images: images}
}

func (s *ProductService) List(ctx context.Context, c ProductCriteria, p listview.Params) (listview.Page[domain.Product], error) {
	items, err := s.products.ListActive(ctx)
	if err != nil {
		return listview.Page[domain.Product]{}, err
	}

	q := listview.Build(p,
		listview.Contains(func(p domain.Product) string { return p.Name }, c.Query),
		listview.Equals(func(p domain.Product) string { return p.Category }, c.Category),
		listview.NumberEquals(func(p domain.Product) float64 { return p.Price }, c.Price),
	)
	return listview.Apply(items, q, productSorter), nil
}

// Suggest returns nothing for a blank query
func (s *ProductService) Suggest(ctx context.Context, q string) ([]domain.Suggestion, error) {
	if strings.TrimSpace(q) == "" {
		return []domain.Suggestion{}, nil
	}
	return s.products.Suggest(ctx, q, maxSuggestions)
}

// Get hides removed products
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// Lookup returns the products with the given ids keyed by id, including removed ones
func (s *ProductService) Lookup(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	items, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("product created", zap.Int64("codprod", p.ID))
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	return s.products.Update(ctx, id, in)
}

func (s *ProductService) Remove(ctx context.Context, id int64) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("product removed", zap.Int64("codprod", id))
	return nil
}

// UploadImage stores the file and points the product at it
func (s *ProductService) UploadImage(ctx context.Context, id int64, filename, contentType string, body io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", domain.ErrImagesDisabled
	}
	if _, err := s.products.Get(ctx, id); err != nil {
		return "", err
	}

	url, err := s.images.Upload(ctx, media.ProductImageKey(id, filename), contentType, body, size)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := s.products.SetImage(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Created int
	Updated int
}

// Import creates products by name, or updates the existing product with the same name
func (s *ProductService) Import(ctx context.Context, items []domain.ProductInput) (ImportResult, error) {
	var res ImportResult
	for _, in := range items {
		id, err := s.products.FindIDByName(ctx, strings.TrimSpace(in.Name))
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			if _, err := s.products.Create(ctx, in); err != nil {
				return res, fmt.Errorf("import %q: %w", in.Name, err)
			}
			res.Created++
		case err != nil:
			return res, err
		default:
			if _, err := s.products.Update(ctx, id, in); err != nil {
				return res, fmt.Errorf("import %q: %w", in.Name, err)
			}
			res.Updated++
		}
	}
	return res, nil
}
