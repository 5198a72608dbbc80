package repository

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"

	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/orders/domain"
	"github.com/lojaweb/storefront-api/internal/storage/postgres"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create places an order in one transaction. Stock is taken with a guarded
// update per line; any failure rolls back every line.
func (r *OrderRepository) Create(ctx context.Context, personID, addressID int64, lines []domain.CheckoutItem) (*domain.Order, error) {
	// products are locked in id order
	lines = slices.Clone(lines)
	slices.SortStableFunc(lines, func(a, b domain.CheckoutItem) int { return cmp.Compare(a.ProductID, b.ProductID) })

	order := &domain.Order{PersonID: personID, AddressID: addressID, Status: domain.StatusPending}

	err := postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx, `SELECT codpes FROM endereco WHERE codend = $1`, addressID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != personID) {
			return domain.ErrAddressNotOwned
		}
		if err != nil {
			return err
		}

		for _, line := range lines {
			item, err := takeStock(ctx, tx, line)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		order.Total = domain.Total(order.Items)

		err = tx.QueryRowContext(ctx, `
			INSERT INTO pedido (codpes, codend, status, total)
			VALUES ($1, $2, $3, $4)
			RETURNING codped, criado_em
		`, personID, addressID, order.Status, order.Total).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, it := range order.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO pedido_item (codped, codprod, tamanho, qtd, preco_unit)
				VALUES ($1, $2, $3, $4, $5)
			`, order.ID, it.ProductID, it.Size, it.Qty, it.Price)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func takeStock(ctx context.Context, tx *sql.Tx, line domain.CheckoutItem) (domain.Item, error) {
	var (
		item   = domain.Item{ProductID: line.ProductID, Qty: line.Qty}
		sizes  string
		active bool
	)
	err := tx.QueryRowContext(ctx,
		`SELECT nome, preco, tamanhos, ativo FROM produto WHERE codprod = $1 FOR UPDATE`, line.ProductID,
	).Scan(&item.Name, &item.Price, &sizes, &active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return item, fmt.Errorf("%w: %d", domain.ErrProductUnavailable, line.ProductID)
	}
	if err != nil {
		return item, err
	}

	p := catalog.Product{Sizes: catalog.ParseSizes(sizes)}
	if !p.OffersSize(line.Size) {
		return item, fmt.Errorf("%w: %q for %s", domain.ErrSizeNotOffered, line.Size, item.Name)
	}
	item.Size = canonicalSize(p.Sizes, line.Size)

	res, err := tx.ExecContext(ctx,
		`UPDATE produto SET estoque = estoque - $2 WHERE codprod = $1 AND estoque >= $2`, line.ProductID, line.Qty)
	if err != nil {
		return item, fmt.Errorf("take stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return item, err
	}
	if n == 0 {
		return item, &domain.StockError{ProductID: line.ProductID, Name: item.Name}
	}
	return item, nil
}

func canonicalSize(offered []string, size string) string {
	for _, s := range offered {
		if strings.EqualFold(s, size) {
			return s
		}
	}
	return size
}

const orderColumns = `codped, codpes, codend, status, total, criado_em`

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM pedido WHERE codped = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return &orders[0], nil
}

// List returns the person's orders, or every order when personID is 0, newest first
func (r *OrderRepository) List(ctx context.Context, personID int64) ([]domain.Order, error) {
	if personID == 0 {
		return r.query(ctx, `SELECT `+orderColumns+` FROM pedido ORDER BY criado_em DESC, codped DESC`)
	}
	return r.query(ctx, `SELECT `+orderColumns+` FROM pedido WHERE codpes = $1 ORDER BY criado_em DESC, codped DESC`, personID)
}

// StalePending lists pending orders created before the cutoff
func (r *OrderRepository) StalePending(ctx context.Context, before time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT codped FROM pedido WHERE status = $1 AND criado_em < $2 ORDER BY codped`,
		domain.StatusPending, before)
	if err != nil {
		return nil, fmt.Errorf("stale orders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateStatus moves the order along the status machine. Cancelling gives the stock back.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, to domain.Status) error {
	return postgres.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var from domain.Status
		err := tx.QueryRowContext(ctx, `SELECT status FROM pedido WHERE codped = $1 FOR UPDATE`, id).Scan(&from)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if !domain.CanTransition(from, to) {
			return &domain.TransitionError{From: from, To: to}
		}

		if to == domain.StatusCancelled {
			_, err := tx.ExecContext(ctx, `
				UPDATE produto p
				SET estoque = p.estoque + i.qtd
				FROM (SELECT codprod, sum(qtd) AS qtd FROM pedido_item WHERE codped = $1 GROUP BY codprod) i
				WHERE p.codprod = i.codprod
			`, id)
			if err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `UPDATE pedido SET status = $2, atualizado_em = now() WHERE codped = $1`, id, to)
		return err
	})
}

func (r *OrderRepository) query(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.PersonID, &o.AddressID, &o.Status, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = []domain.Item{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	return orders, r.attachItems(ctx, orders)
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.codped, i.codprod, p.nome, i.tamanho, i.qtd, i.preco_unit
		FROM pedido_item i
		JOIN produto p ON p.codprod = i.codprod
		WHERE i.codped = ANY($1)
		ORDER BY i.codped, i.codprod, i.tamanho
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			it      domain.Item
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Size, &it.Qty, &it.Price); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}
