package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lojaweb/storefront-api/internal/customers/domain"
	"github.com/lojaweb/storefront-api/internal/storage/postgres"
)

const addressColumns = `codend, codpes, cep, logradouro, numero, complemento, bairro, cidade, uf, criado_em`

// AddressRepository scopes every query to the owning person.
type AddressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) List(ctx context.Context, owner int64) ([]domain.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+addressColumns+` FROM endereco WHERE codpes = $1 ORDER BY codend`, owner)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	out := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AddressRepository) Get(ctx context.Context, owner, id int64) (*domain.Address, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM endereco WHERE codend = $1 AND codpes = $2`, id, owner)
	return notFound(scanAddress(row))
}

func (r *AddressRepository) Create(ctx context.Context, owner int64, in domain.AddressInput) (*domain.Address, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO endereco (codpes, cep, logradouro, numero, complemento, bairro, cidade, uf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+addressColumns,
		owner, in.CEP, in.Street, in.Number, in.Complement, in.Neighborhood, in.City, in.State)
	a, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return a, nil
}

func (r *AddressRepository) Update(ctx context.Context, owner, id int64, in domain.AddressInput) (*domain.Address, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE endereco
		SET cep = $3, logradouro = $4, numero = $5, complemento = $6, bairro = $7, cidade = $8, uf = $9
		WHERE codend = $1 AND codpes = $2
		RETURNING `+addressColumns,
		id, owner, in.CEP, in.Street, in.Number, in.Complement, in.Neighborhood, in.City, in.State)
	return notFound(scanAddress(row))
}

func (r *AddressRepository) Delete(ctx context.Context, owner, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM endereco WHERE codend = $1 AND codpes = $2`, id, owner)
	if postgres.IsForeignKeyViolation(err) {
		return domain.ErrAddressInUse
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAddress(s scanner) (*domain.Address, error) {
	var a domain.Address
	err := s.Scan(&a.ID, &a.PersonID, &a.CEP, &a.Street, &a.Number, &a.Complement,
		&a.Neighborhood, &a.City, &a.State, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func notFound(a *domain.Address, err error) (*domain.Address, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAddressNotFound
	}
	return a, err
}
