package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lojaweb/storefront-api/internal/catalog/domain"
	"github.com/lojaweb/storefront-api/internal/storage/postgres"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewSelect = `
	SELECT a.codava, a.codprod, a.codpes, p.nome, a.nota, a.comentario, a.criado_em
	FROM avaliacao a
	JOIN pessoa p ON p.codpes = a.codpes
`

// ListByProduct returns the newest reviews first
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, reviewSelect+` WHERE a.codprod = $1 ORDER BY a.criado_em DESC, a.codava DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.PersonID, &rv.PersonName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepository) Get(ctx context.Context, id int64) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.QueryRowContext(ctx, reviewSelect+` WHERE a.codava = $1`, id).
		Scan(&rv.ID, &rv.ProductID, &rv.PersonID, &rv.PersonName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts the review. A second review by the same person is ErrReviewExists.
func (r *ReviewRepository) Create(ctx context.Context, personID int64, in domain.ReviewInput) (*domain.Review, error) {
	rv := domain.Review{ProductID: in.ProductID, PersonID: personID, Rating: in.Rating, Comment: in.Comment}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO avaliacao (codprod, codpes, nota, comentario)
		VALUES ($1, $2, $3, $4)
		RETURNING codava, criado_em, (SELECT nome FROM pessoa WHERE codpes = $2)
	`, in.ProductID, personID, in.Rating, in.Comment).Scan(&rv.ID, &rv.CreatedAt, &rv.PersonName)
	if postgres.IsUniqueViolation(err, "avaliacao_codprod_codpes_key") {
		return nil, domain.ErrReviewExists
	}
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM avaliacao WHERE codava = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
