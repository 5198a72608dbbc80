package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaweb/storefront-api/internal/auth"
	cartdomain "github.com/lojaweb/storefront-api/internal/cart/domain"
	cartrepo "github.com/lojaweb/storefront-api/internal/cart/repository"
	cartservice "github.com/lojaweb/storefront-api/internal/cart/service"
	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/orders/domain"
)

// memOrders keeps orders in memory and applies the same stock rules as the SQL store.
type memOrders struct {
	products  map[int64]*catalog.Product
	addresses map[int64]int64 // codend -> codpes
	orders    map[int64]*domain.Order
	nextID    int64
	now       time.Time
}

func newMemOrders() *memOrders {
	return &memOrders{
		products: map[int64]*catalog.Product{
			1: {ID: 1, Name: "Camiseta", Price: 59.90, Sizes: []string{"P", "M"}, Stock: 10, Active: true},
			2: {ID: 2, Name: "Caneca", Price: 29.00, Sizes: []string{}, Stock: 1, Active: true},
		},
		addresses: map[int64]int64{5: 1, 6: 2},
		orders:    map[int64]*domain.Order{},
		now:       time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func (m *memOrders) Lookup(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := map[int64]catalog.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (m *memOrders) Create(_ context.Context, personID, addressID int64, lines []domain.CheckoutItem) (*domain.Order, error) {
	if m.addresses[addressID] != personID {
		return nil, domain.ErrAddressNotOwned
	}
	o := &domain.Order{PersonID: personID, AddressID: addressID, Status: domain.StatusPending, CreatedAt: m.now}
	for _, l := range lines {
		p, ok := m.products[l.ProductID]
		if !ok || !p.Active {
			return nil, domain.ErrProductUnavailable
		}
		if !p.OffersSize(l.Size) {
			return nil, domain.ErrSizeNotOffered
		}
		if p.Stock < l.Qty {
			return nil, &domain.StockError{ProductID: p.ID, Name: p.Name}
		}
		o.Items = append(o.Items, domain.Item{ProductID: p.ID, Name: p.Name, Size: strings.ToUpper(l.Size), Qty: l.Qty, Price: p.Price})
	}
	for _, it := range o.Items {
		m.products[it.ProductID].Stock -= it.Qty
	}
	m.nextID++
	o.ID = m.nextID
	o.Total = domain.Total(o.Items)
	m.orders[o.ID] = o
	return o, nil
}

func (m *memOrders) Get(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) List(_ context.Context, personID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.orders[id]; ok && (personID == 0 || o.PersonID == personID) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id int64, to domain.Status) error {
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if !domain.CanTransition(o.Status, to) {
		return &domain.TransitionError{From: o.Status, To: to}
	}
	if to == domain.StatusCancelled {
		for _, it := range o.Items {
			m.products[it.ProductID].Stock += it.Qty
		}
	}
	o.Status = to
	return nil
}

func (m *memOrders) StalePending(_ context.Context, before time.Time) ([]int64, error) {
	var ids []int64
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.orders[id]; ok && o.Status == domain.StatusPending && o.CreatedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type failingCart struct{ calls int }

func (f *failingCart) Clear(context.Context, int64) error {
	f.calls++
	return errors.New("redis down")
}

var (
	customer = auth.Principal{ID: 1, Email: "ana@loja.example"}
	admin    = auth.Principal{ID: 99, Admin: true}
)

func TestCheckout_FromCart(t *testing.T) {
	ctx := context.Background()
	store := newMemOrders()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	carts := cartrepo.NewCartRepository(client)
	cart := cartservice.NewCartService(carts, carts, store)

	view, err := cart.Dispatch(ctx, 1, cartdomain.Action{Type: cartdomain.ActionAdd, ProductID: 1, Size: "M", Qty: 2})
	require.NoError(t, err)
	assert.Equal(t, 119.80, view.Total)

	req := domain.CheckoutRequest{AddressID: 5, PersonID: 1}
	for _, line := range view.Items {
		req.Items = append(req.Items, domain.CheckoutItem{ProductID: line.ProductID, Size: line.Size, Qty: line.Qty})
	}

	order, err := NewOrderService(store, carts).Checkout(ctx, customer, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, view.Total, order.Total)
	assert.Equal(t, 8, store.products[1].Stock)

	after, err := cart.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.False(t, mr.Exists("cart:1"))
}

func TestCheckout_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("someone else's person id", func(t *testing.T) {
		svc := NewOrderService(newMemOrders(), &failingCart{})
		_, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 6, PersonID: 2,
			Items: []domain.CheckoutItem{{ProductID: 2, Qty: 1}}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin orders for anyone", func(t *testing.T) {
		svc := NewOrderService(newMemOrders(), &failingCart{})
		o, err := svc.Checkout(ctx, admin, domain.CheckoutRequest{AddressID: 6, PersonID: 2,
			Items: []domain.CheckoutItem{{ProductID: 2, Qty: 1}}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), o.PersonID)
	})

	t.Run("repeated lines are merged before the stock check", func(t *testing.T) {
		store := newMemOrders()
		svc := NewOrderService(store, &failingCart{})
		_, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
			Items: []domain.CheckoutItem{{ProductID: 2, Qty: 1}, {ProductID: 2, Qty: 1}}})
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
		assert.Equal(t, 1, store.products[2].Stock)
	})

	t.Run("cart failure does not fail the order", func(t *testing.T) {
		carts := &failingCart{}
		svc := NewOrderService(newMemOrders(), carts)
		_, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
			Items: []domain.CheckoutItem{{ProductID: 2, Qty: 1}}})
		require.NoError(t, err)
		assert.Equal(t, 1, carts.calls)
	})
}

func TestList_FiltersAndScope(t *testing.T) {
	ctx := context.Background()
	store := newMemOrders()
	store.products[3] = &catalog.Product{ID: 3, Name: "Notebook", Price: 999.99, Sizes: []string{}, Stock: 5, Active: true}
	store.products[4] = &catalog.Product{ID: 4, Name: "Mouse", Price: 100.00, Sizes: []string{}, Stock: 5, Active: true}
	svc := NewOrderService(store, &failingCart{})

	_, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
		Items: []domain.CheckoutItem{{ProductID: 3, Qty: 1}, {ProductID: 4, Qty: 3}}})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
		Items: []domain.CheckoutItem{{ProductID: 4, Qty: 1}}})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, admin, domain.CheckoutRequest{AddressID: 6, PersonID: 2,
		Items: []domain.CheckoutItem{{ProductID: 4, Qty: 1}}})
	require.NoError(t, err)

	params := listview.Params{Page: 1, PageSize: 10}

	page, err := svc.List(ctx, customer, OrderCriteria{}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)

	page, err = svc.List(ctx, admin, OrderCriteria{}, params)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)

	page, err = svc.List(ctx, customer, OrderCriteria{Total: "1299.99"}, params)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1299.99, page.Items[0].Total)

	page, err = svc.List(ctx, admin, OrderCriteria{Status: "pendente", Day: "2026-03-10"}, params)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)

	page, err = svc.List(ctx, admin, OrderCriteria{Day: "2026-03-11"}, params)
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)

	page, err = svc.List(ctx, admin, OrderCriteria{}, listview.Params{Page: 1, PageSize: 10, SortKey: "total", Dir: listview.Desc})
	require.NoError(t, err)
	assert.Equal(t, 1299.99, page.Items[0].Total)
}

func TestGet_HidesOtherPeoplesOrders(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newMemOrders(), &failingCart{})
	o, err := svc.Checkout(ctx, admin, domain.CheckoutRequest{AddressID: 6, PersonID: 2,
		Items: []domain.CheckoutItem{{ProductID: 2, Qty: 1}}})
	require.NoError(t, err)

	_, err = svc.Get(ctx, customer, o.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	got, err := svc.Get(ctx, auth.Principal{ID: 2}, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	store := newMemOrders()
	svc := NewOrderService(store, &failingCart{})
	o, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
		Items: []domain.CheckoutItem{{ProductID: 1, Size: "P", Qty: 3}}})
	require.NoError(t, err)
	assert.Equal(t, 7, store.products[1].Stock)

	got, err := svc.UpdateStatus(ctx, o.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	_, err = svc.UpdateStatus(ctx, o.ID, domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, store.products[1].Stock)
}

func TestCancelStale(t *testing.T) {
	ctx := context.Background()
	store := newMemOrders()
	svc := NewOrderService(store, &failingCart{})
	svc.now = func() time.Time { return store.now.Add(4 * 24 * time.Hour) }

	for range 2 {
		_, err := svc.Checkout(ctx, customer, domain.CheckoutRequest{AddressID: 5, PersonID: 1,
			Items: []domain.CheckoutItem{{ProductID: 1, Size: "M", Qty: 1}}})
		require.NoError(t, err)
	}
	_, err := svc.UpdateStatus(ctx, 2, domain.StatusPaid)
	require.NoError(t, err)

	n, err := svc.CancelStale(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.StatusCancelled, store.orders[1].Status)
	assert.Equal(t, domain.StatusPaid, store.orders[2].Status)
	assert.Equal(t, 9, store.products[1].Stock)

	n, err = svc.CancelStale(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
