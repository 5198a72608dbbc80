package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lojaweb/storefront-api/internal/customers/domain"
)

type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Get(ctx context.Context, id int64) (*domain.Person, error) {
	var p domain.Person
	err := r.db.QueryRowContext(ctx, `
		SELECT codpes, nome, email, coalesce(telefone, ''), admin, criado_em
		FROM pessoa WHERE codpes = $1
	`, id).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Admin, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update changes name and phone and returns the fresh profile
func (r *PersonRepository) Update(ctx context.Context, id int64, in domain.PersonUpdate) (*domain.Person, error) {
	var p domain.Person
	err := r.db.QueryRowContext(ctx, `
		UPDATE pessoa SET nome = $2, telefone = nullif($3, ''), atualizado_em = now()
		WHERE codpes = $1
		RETURNING codpes, nome, email, coalesce(telefone, ''), admin, criado_em
	`, id, strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone)).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Admin, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Count returns how many people are registered
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM pessoa`).Scan(&n)
	return n, err
}
