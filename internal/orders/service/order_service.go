package service

import (
	"cmp"
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/logging"
	"github.com/lojaweb/storefront-api/internal/orders/domain"
)

type OrderStore interface {
	Create(ctx context.Context, personID, addressID int64, lines []domain.CheckoutItem) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, personID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, to domain.Status) error
	StalePending(ctx context.Context, before time.Time) ([]int64, error)
}

// CartClearer empties a person's cart after checkout.
type CartClearer interface {
	Clear(ctx context.Context, personID int64) error
}

// OrderCriteria are the filters of the order history page.
type OrderCriteria struct {
	ID     string
	Status string
	Total  string
	Day    string
}

var orderSorter = listview.Sorter[domain.Order]{
	"data":   func(a, b domain.Order) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"total":  func(a, b domain.Order) int { return cmp.Compare(a.Total, b.Total) },
	"status": func(a, b domain.Order) int { return cmp.Compare(a.Status, b.Status) },
}

type OrderService struct {
	orders OrderStore
	carts  CartClearer
	now    func() time.Time
}

func NewOrderService(orders OrderStore, carts CartClearer) *OrderService {
	return &OrderService{orders: orders, carts: carts, now: time.Now}
}

// Checkout places an order for req.PersonID. Only the person or an admin may do that.
func (s *OrderService) Checkout(ctx context.Context, who auth.Principal, req domain.CheckoutRequest) (*domain.Order, error) {
	if !who.CanAccess(req.PersonID) {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.Create(ctx, req.PersonID, req.AddressID, domain.MergeLines(req.Items))
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	log.Info("order placed",
		zap.Int64("codped", order.ID),
		zap.Int64("codpes", order.PersonID),
		zap.Float64("total", order.Total),
	)
	// the order stands even if the cart survives
	if err := s.carts.Clear(ctx, req.PersonID); err != nil {
		log.Warn("clear cart after checkout", zap.Int64("codpes", req.PersonID), zap.Error(err))
	}
	return order, nil
}

// List returns the caller's orders, or all of them for admins.
func (s *OrderService) List(ctx context.Context, who auth.Principal, c OrderCriteria, p listview.Params) (listview.Page[domain.Order], error) {
	owner := who.ID
	if who.Admin {
		owner = 0
	}
	items, err := s.orders.List(ctx, owner)
	if err != nil {
		return listview.Page[domain.Order]{}, err
	}

	q := listview.Build(p,
		listview.Contains(func(o domain.Order) string { return strconv.FormatInt(o.ID, 10) }, c.ID),
		listview.Equals(func(o domain.Order) string { return string(o.Status) }, c.Status),
		listview.NumberEquals(func(o domain.Order) float64 { return o.Total }, c.Total),
		listview.SameDay(func(o domain.Order) time.Time { return o.CreatedAt }, c.Day),
	)
	return listview.Apply(items, q, orderSorter), nil
}

// Get reports another person's order as missing.
func (s *OrderService) Get(ctx context.Context, who auth.Principal, id int64) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(o.PersonID) {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, to domain.Status) (*domain.Order, error) {
	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("order status changed", zap.Int64("codped", id), zap.String("status", string(to)))
	return s.orders.Get(ctx, id)
}

// CancelStale cancels pending orders older than age and returns how many it cancelled.
// An order that moved on since it was listed is skipped.
func (s *OrderService) CancelStale(ctx context.Context, age time.Duration) (int, error) {
	ids, err := s.orders.StalePending(ctx, s.now().Add(-age))
	if err != nil {
		return 0, err
	}

	log := logging.FromContext(ctx)
	cancelled := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}
		err := s.orders.UpdateStatus(ctx, id, domain.StatusCancelled)
		switch {
		case err == nil:
			cancelled++
		case isSkippable(err):
			log.Debug("stale order skipped", zap.Int64("codped", id), zap.Error(err))
		default:
			return cancelled, err
		}
	}
	return cancelled, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrOrderNotFound)
}
