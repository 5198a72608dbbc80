package service

import (
	"cmp"
	"context"
	"errors"
	"strings"

	"github.com/lojaweb/storefront-api/internal/cart/domain"
	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrSizeNotOffered     = errors.New("size is not offered for this product")
)

type CartStore interface {
	Load(ctx context.Context, personID int64) (domain.Cart, error)
	Update(ctx context.Context, personID int64, fn func(domain.Cart) (domain.Cart, error)) (domain.Cart, error)
	Clear(ctx context.Context, personID int64) error
}

type FavoriteStore interface {
	Favorites(ctx context.Context, personID int64) ([]int64, error)
	AddFavorite(ctx context.Context, personID, productID int64) error
	RemoveFavorite(ctx context.Context, personID, productID int64) error
}

type ProductLookup interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

type CartService struct {
	carts     CartStore
	favorites FavoriteStore
	products  ProductLookup
}

func NewCartService(carts CartStore, favorites FavoriteStore, products ProductLookup) *CartService {
	return &CartService{carts: carts, favorites: favorites, products: products}
}

// Get returns the priced cart
func (s *CartService) Get(ctx context.Context, personID int64) (domain.View, error) {
	c, err := s.carts.Load(ctx, personID)
	if err != nil {
		return domain.View{}, err
	}
	return s.price(ctx, c)
}

// Dispatch validates the action against the catalog and applies it
func (s *CartService) Dispatch(ctx context.Context, personID int64, a domain.Action) (domain.View, error) {
	a, err := s.resolve(ctx, a)
	if err != nil {
		return domain.View{}, err
	}

	c, err := s.carts.Update(ctx, personID, func(c domain.Cart) (domain.Cart, error) {
		return domain.Reduce(c, a)
	})
	if err != nil {
		return domain.View{}, err
	}
	return s.price(ctx, c)
}

func (s *CartService) Clear(ctx context.Context, personID int64) error {
	return s.carts.Clear(ctx, personID)
}

// resolve checks the products an action refers to and rewrites sizes to the
// catalog spelling. Merge drops lines that no longer resolve.
func (s *CartService) resolve(ctx context.Context, a domain.Action) (domain.Action, error) {
	switch a.Type {
	case domain.ActionAdd, domain.ActionSet:
		if a.ProductID <= 0 || (a.Type == domain.ActionSet && a.Qty == 0) {
			return a, nil
		}
		products, err := s.products.Lookup(ctx, []int64{a.ProductID})
		if err != nil {
			return a, err
		}
		size, err := offeredSize(products, a.ProductID, a.Size)
		if err != nil {
			return a, err
		}
		a.Size = size
		return a, nil

	case domain.ActionMerge:
		ids := make([]int64, 0, len(a.Items))
		for _, it := range a.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := s.products.Lookup(ctx, ids)
		if err != nil {
			return a, err
		}
		kept := make([]domain.BrowserItem, 0, len(a.Items))
		for _, it := range a.Items {
			size, err := offeredSize(products, it.ProductID, it.Size)
			if err != nil {
				continue
			}
			it.Size = size
			kept = append(kept, it)
		}
		a.Items = kept
		return a, nil
	}
	return a, nil
}

func offeredSize(products map[int64]catalog.Product, id int64, size string) (string, error) {
	p, ok := products[id]
	if !ok || !p.Active {
		return "", ErrProductUnavailable
	}
	size = strings.TrimSpace(size)
	if !p.OffersSize(size) {
		return "", ErrSizeNotOffered
	}
	for _, s := range p.Sizes {
		if strings.EqualFold(s, size) {
			return s, nil
		}
	}
	return size, nil
}

func (s *CartService) price(ctx context.Context, c domain.Cart) (domain.View, error) {
	products, err := s.products.Lookup(ctx, c.ProductIDs())
	if err != nil {
		return domain.View{}, err
	}
	return domain.Price(c, products), nil
}

// Favorites pages the person's active favorite products, in id order
func (s *CartService) Favorites(ctx context.Context, personID int64, p listview.Params) (listview.Page[catalog.Product], error) {
	ids, err := s.favorites.Favorites(ctx, personID)
	if err != nil {
		return listview.Page[catalog.Product]{}, err
	}
	products, err := s.products.Lookup(ctx, ids)
	if err != nil {
		return listview.Page[catalog.Product]{}, err
	}

	items := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if prod, ok := products[id]; ok && prod.Active {
			items = append(items, prod)
		}
	}
	return listview.Apply(items, listview.Build[catalog.Product](p), favoriteSorter), nil
}

var favoriteSorter = listview.Sorter[catalog.Product]{
	"nome":  func(a, b catalog.Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"preco": func(a, b catalog.Product) int { return cmp.Compare(a.Price, b.Price) },
}

func (s *CartService) AddFavorite(ctx context.Context, personID, productID int64) error {
	products, err := s.products.Lookup(ctx, []int64{productID})
	if err != nil {
		return err
	}
	if p, ok := products[productID]; !ok || !p.Active {
		return ErrProductUnavailable
	}
	return s.favorites.AddFavorite(ctx, personID, productID)
}

func (s *CartService) RemoveFavorite(ctx context.Context, personID, productID int64) error {
	return s.favorites.RemoveFavorite(ctx, personID, productID)
}
