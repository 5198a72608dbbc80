package http

import (
	"context"

	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/listview"
	"github.com/lojaweb/storefront-api/internal/orders/domain"
	"github.com/lojaweb/storefront-api/internal/orders/service"
)

type OrderService interface {
	Checkout(ctx context.Context, who auth.Principal, req domain.CheckoutRequest) (*domain.Order, error)
	List(ctx context.Context, who auth.Principal, c service.OrderCriteria, p listview.Params) (listview.Page[domain.Order], error)
	Get(ctx context.Context, who auth.Principal, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, to domain.Status) (*domain.Order, error)
}

type Handler struct {
	orders      OrderService
	pageSize    int
	maxPageSize int
}

func New(orders OrderService, pageSize, maxPageSize int) *Handler {
	return &Handler{orders: orders, pageSize: pageSize, maxPageSize: maxPageSize}
}
