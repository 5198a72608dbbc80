package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lojaweb/storefront-api/internal/auth/domain"
	"github.com/lojaweb/storefront-api/internal/storage/postgres"
)

const accountColumns = `codpes, nome, email, coalesce(telefone, ''), coalesce(senha, ''),
	coalesce(google_sub, ''), admin, criado_em`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves an account by its (case-insensitive) email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM pessoa WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, normalizeEmail(email)))
}

// GetByID retrieves an account by CODPES
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM pessoa WHERE codpes = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByGoogleSub retrieves an account linked to a Google subject
func (r *UserRepository) GetByGoogleSub(ctx context.Context, sub string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM pessoa WHERE google_sub = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sub))
}

// Create inserts a new account and fills in its id and creation time
func (r *UserRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO pessoa (nome, email, telefone, senha, google_sub, admin)
		VALUES ($1, $2, nullif($3, ''), nullif($4, ''), nullif($5, ''), $6)
		RETURNING codpes, criado_em
	`
	a.Email = normalizeEmail(a.Email)

	err := r.db.QueryRowContext(ctx, query,
		a.Name, a.Email, a.Phone, a.PasswordHash, a.GoogleSub, a.Admin,
	).Scan(&a.ID, &a.CreatedAt)
	if postgres.IsUniqueViolation(err, "pessoa_email_key") {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// LinkGoogle attaches a Google subject to an existing account
func (r *UserRepository) LinkGoogle(ctx context.Context, id int64, sub string) error {
	query := `UPDATE pessoa SET google_sub = $2, atualizado_em = now() WHERE codpes = $1`
	return r.execOne(ctx, query, id, sub)
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE pessoa SET senha = $2, atualizado_em = now() WHERE codpes = $1`
	return r.execOne(ctx, query, id, hash)
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.GoogleSub, &a.Admin, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
