package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/lojaweb/storefront-api/internal/catalog/domain"
)

const productColumns = `codprod, nome, descricao, preco, categoria, tamanhos, estoque, imagem,
	media_avaliacao, ativo, criado_em`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActive returns every active product ordered by id
func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM produto WHERE ativo ORDER BY codprod`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetMany loads the given products, active or not, in no particular order
func (r *ProductRepository) GetMany(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM produto WHERE codprod = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM produto WHERE codprod = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindIDByName matches active or inactive products by exact name
func (r *ProductRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT codprod FROM produto WHERE lower(nome) = lower($1) ORDER BY codprod LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	return id, err
}

// Suggest returns up to limit active products whose name contains q
func (r *ProductRepository) Suggest(ctx context.Context, q string, limit int) ([]domain.Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT codprod, nome FROM produto
		WHERE ativo AND nome ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY nome
		LIMIT $2
	`, escapeLike(q), limit)
	if err != nil {
		return nil, fmt.Errorf("suggest products: %w", err)
	}
	defer rows.Close()

	out := []domain.Suggestion{}
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO produto (nome, descricao, preco, categoria, tamanhos, estoque, imagem)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		strings.TrimSpace(in.Name), in.Description, in.Price, in.Category,
		domain.EncodeSizes(in.Sizes), in.Stock, in.Image,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update replaces the editable fields and reactivates the product. An empty Image keeps the current one.
func (r *ProductRepository) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE produto
		SET nome = $2, descricao = $3, preco = $4, categoria = $5, tamanhos = $6, estoque = $7,
		    imagem = coalesce(nullif($8, ''), imagem), ativo = true
		WHERE codprod = $1
		RETURNING `+productColumns,
		id, strings.TrimSpace(in.Name), in.Description, in.Price, in.Category,
		domain.EncodeSizes(in.Sizes), in.Stock, in.Image,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

// Deactivate hides the product from the catalog. Orders keep referencing it.
func (r *ProductRepository) Deactivate(ctx context.Context, id int64) error {
	return r.execOne(ctx, `UPDATE produto SET ativo = false WHERE codprod = $1 AND ativo`, id)
}

func (r *ProductRepository) SetImage(ctx context.Context, id int64, url string) error {
	return r.execOne(ctx, `UPDATE produto SET imagem = $2 WHERE codprod = $1`, id, url)
}

// RefreshRatings recomputes media_avaliacao from the reviews and returns how many rows changed
func (r *ProductRepository) RefreshRatings(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE produto p
		SET media_avaliacao = s.media
		FROM (
			SELECT pr.codprod, coalesce(round(avg(a.nota)::numeric, 2), 0) AS media
			FROM produto pr
			LEFT JOIN avaliacao a ON a.codprod = pr.codprod
			GROUP BY pr.codprod
		) s
		WHERE p.codprod = s.codprod AND p.media_avaliacao <> s.media
	`)
	if err != nil {
		return 0, fmt.Errorf("refresh ratings: %w", err)
	}
	return res.RowsAffected()
}

func (r *ProductRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		p     domain.Product
		sizes string
	)
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &sizes, &p.Stock,
		&p.Image, &p.Rating, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Sizes = domain.ParseSizes(sizes)
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
}
