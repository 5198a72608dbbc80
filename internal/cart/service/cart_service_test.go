package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaweb/storefront-api/internal/cart/domain"
	"github.com/lojaweb/storefront-api/internal/cart/repository"
	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
)

type staticCatalog map[int64]catalog.Product

func (s staticCatalog) Lookup(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := map[int64]catalog.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var products = staticCatalog{
	1: {ID: 1, Name: "Camiseta", Price: 59.90, Sizes: []string{"P", "M", "G"}, Stock: 10, Active: true},
	2: {ID: 2, Name: "Caneca", Price: 29.00, Sizes: []string{}, Stock: 5, Active: true},
	3: {ID: 3, Name: "Boné", Price: 35.00, Sizes: []string{}, Stock: 5, Active: false},
}

func newService(t *testing.T) *CartService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := repository.NewCartRepository(client)
	return NewCartService(repo, repo, products)
}

func TestDispatch_AddAndPrice(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	v, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.Total)

	_, err = svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 1, Size: "m", Qty: 2})
	require.NoError(t, err)
	v, err = svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 1, Size: "M", Qty: 1})
	require.NoError(t, err)

	require.Len(t, v.Items, 1)
	assert.Equal(t, "M", v.Items[0].Size)
	assert.Equal(t, 3, v.Items[0].Qty)
	assert.Equal(t, 179.70, v.Total)
}

func TestDispatch_RejectsUnavailable(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 3, Qty: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 99, Qty: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 1, Size: "XG", Qty: 1})
	assert.ErrorIs(t, err, ErrSizeNotOffered)

	_, err = svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 1, Qty: 1})
	assert.ErrorIs(t, err, ErrSizeNotOffered, "sized product needs a size")
}

func TestDispatch_MergeDropsUnknownLines(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	v, err := svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionMerge, Items: []domain.BrowserItem{
		{ProductID: 1, Quantity: 1, Size: "g"},
		{ProductID: 2, Quantity: 2},
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 1, Size: "XXL"},
	}})
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "G", v.Items[0].Size)
	assert.Equal(t, 117.90, v.Total)
}

func TestDispatch_SetZeroOfRemovedProduct(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionAdd, ProductID: 2, Qty: 1})
	require.NoError(t, err)

	v, err := svc.Dispatch(ctx, 1, domain.Action{Type: domain.ActionSet, ProductID: 2, Qty: 0})
	require.NoError(t, err)
	assert.Empty(t, v.Items)

	require.NoError(t, svc.Clear(ctx, 1))
}

func TestFavorites(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, 1, 2))
	require.NoError(t, svc.AddFavorite(ctx, 1, 1))
	assert.ErrorIs(t, svc.AddFavorite(ctx, 1, 3), ErrProductUnavailable)

	page, err := svc.Favorites(ctx, 1, listview.Params{Page: 1, PageSize: 10, SortKey: "nome"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Camiseta", page.Items[0].Name)

	require.NoError(t, svc.RemoveFavorite(ctx, 1, 1))
	page, err = svc.Favorites(ctx, 1, listview.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
}
