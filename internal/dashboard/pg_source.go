package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgSource struct {
	db Querier
}

func NewPgSource(db Querier) *PgSource {
	return &PgSource{db: db}
}

func (s *PgSource) OrdersByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT status, count(*) FROM pedido GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (s *PgSource) Revenue(ctx context.Context) (float64, error) {
	var v float64
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(sum(total), 0)::float8 FROM pedido WHERE status <> 'CANCELADO'`,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("revenue: %w", err)
	}
	return v, nil
}

func (s *PgSource) Customers(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT count(*) FROM pessoa WHERE NOT admin`)
}

func (s *PgSource) ActiveProducts(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT count(*) FROM produto WHERE ativo`)
}

func (s *PgSource) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// TopProducts ranks products by quantity sold in orders that were not cancelled.
func (s *PgSource) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.codprod, p.nome, sum(i.qtd)::bigint AS qtd, sum(i.qtd * i.preco_unit)::float8 AS receita
		FROM pedido_item i
		JOIN pedido o ON o.codped = i.codped
		JOIN produto p ON p.codprod = i.codprod
		WHERE o.status <> 'CANCELADO'
		GROUP BY p.codprod, p.nome
		ORDER BY qtd DESC, p.codprod
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	out := []TopProduct{}
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Qty, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}
