package service

import (
	"context"

	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/catalog/domain"
)

type ReviewStore interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, personID int64, in domain.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
}

func NewReviewService(reviews ReviewStore, products ProductStore) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

func (s *ReviewService) ForProduct(ctx context.Context, productID int64) (domain.ReviewSummary, error) {
	items, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	return domain.Summarize(items), nil
}

// Create only accepts reviews of active products
func (s *ReviewService) Create(ctx context.Context, personID int64, in domain.ReviewInput) (*domain.Review, error) {
	p, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrProductNotFound
	}
	return s.reviews.Create(ctx, personID, in)
}

// Delete lets the author or an admin remove a review
func (s *ReviewService) Delete(ctx context.Context, who auth.Principal, id int64) error {
	rv, err := s.reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if !who.CanAccess(rv.PersonID) {
		return domain.ErrForbidden
	}
	return s.reviews.Delete(ctx, id)
}
