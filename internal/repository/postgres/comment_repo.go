package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, user_id, image_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.UserID, comment.ImageID, comment.Content,
		comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.image_id, c.content, c.created_at, c.updated_at,
			u.username, u.full_name, u.profile_image_url
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	var c domain.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.ImageID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&c.Username, &c.FullName, &c.ProfileImageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *CommentRepo) ListByImage(ctx context.Context, imageID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.image_id, c.content, c.created_at, c.updated_at,
			u.username, u.full_name, u.profile_image_url
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.image_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ImageID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Username, &c.FullName, &c.ProfileImageURL,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ repository.CommentRepository = (*CommentRepo)(nil)
