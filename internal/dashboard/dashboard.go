// Package dashboard aggregates the numbers shown on the admin home page.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const topProductsLimit = 5

type TopProduct struct {
	ProductID int64   `json:"CODPROD"`
	Name      string  `json:"NOME"`
	Qty       int64   `json:"QTD"`
	Revenue   float64 `json:"RECEITA"`
}

type Summary struct {
	OrdersByStatus map[string]int64 `json:"PEDIDOS_POR_STATUS"`
	Revenue        float64          `json:"RECEITA"`
	Customers      int64            `json:"CLIENTES"`
	ActiveProducts int64            `json:"PRODUTOS_ATIVOS"`
	TopProducts    []TopProduct     `json:"MAIS_VENDIDOS"`
	GeneratedAt    time.Time        `json:"GERADO_EM"`
}

// Source runs the individual aggregate queries.
type Source interface {
	OrdersByStatus(ctx context.Context) (map[string]int64, error)
	Revenue(ctx context.Context) (float64, error)
	Customers(ctx context.Context) (int64, error)
	ActiveProducts(ctx context.Context) (int64, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}

type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{src: src, now: time.Now}
}

// Summary runs every query concurrently. The first failure cancels the rest.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.OrdersByStatus, err = s.src.OrdersByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Revenue, err = s.src.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Customers, err = s.src.Customers(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveProducts, err = s.src.ActiveProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TopProducts, err = s.src.TopProducts(gctx, topProductsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.OrdersByStatus == nil {
		out.OrdersByStatus = map[string]int64{}
	}
	if out.TopProducts == nil {
		out.TopProducts = []TopProduct{}
	}
	out.GeneratedAt = s.now().UTC()
	return out, nil
}
