package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaweb/storefront-api/internal/auth/domain"
)

func newMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM pessoa WHERE email = $1`)).
		WithArgs("ana@loja.example").
		WillReturnRows(sqlmock.NewRows([]string{"codpes", "nome", "email", "telefone", "senha", "google_sub", "admin", "criado_em"}).
			AddRow(3, "Ana", "ana@loja.example", "", "$argon2id$x", "", true, created))

	a, err := repo.GetByEmail(context.Background(), "  ANA@loja.example ")
	require.NoError(t, err)
	assert.Equal(t, &domain.Account{
		ID: 3, Name: "Ana", Email: "ana@loja.example", PasswordHash: "$argon2id$x", Admin: true, CreatedAt: created,
	}, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM pessoa WHERE codpes = $1`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreate(t *testing.T) {
	t.Run("returns id", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pessoa`)).
			WithArgs("Ana", "ana@loja.example", "", "hash", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"codpes", "criado_em"}).AddRow(11, time.Now()))

		a := &domain.Account{Name: "Ana", Email: "Ana@Loja.example", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), a))
		assert.Equal(t, int64(11), a.ID)
		assert.Equal(t, "ana@loja.example", a.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pessoa`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "pessoa_email_key"})

		err := repo.Create(context.Background(), &domain.Account{Name: "Ana", Email: "ana@loja.example"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE pessoa SET senha = $2`)).
		WithArgs(int64(1), "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE pessoa SET senha = $2`)).
		WithArgs(int64(2), "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdatePassword(context.Background(), 1, "new-hash"))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 2, "new-hash"), domain.ErrAccountNotFound)
}
