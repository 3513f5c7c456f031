package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

// statsColumns come from the image_stats view: image row + denormalized
// author fields + like/comment counts.
const statsColumns = `image_id, user_id, title, description, image_url, tags, privacy,
	created_at, updated_at, username, full_name, profile_image_url, likes_count, comments_count`

type ImageRepo struct {
	pool *pgxpool.Pool
}

func NewImageRepo(pool *pgxpool.Pool) *ImageRepo {
	return &ImageRepo{pool: pool}
}

func (r *ImageRepo) Create(ctx context.Context, image *domain.Image) error {
	query := `
		INSERT INTO images (id, user_id, title, description, image_url, tags, privacy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		image.ID, image.UserID, image.Title, image.Description, image.ImageURL,
		image.Tags, image.Privacy, image.CreatedAt, image.UpdatedAt,
	)
	return err
}

func (r *ImageRepo) GetStats(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	query := "SELECT " + statsColumns + " FROM image_stats WHERE image_id = $1"

	var img domain.Image
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.UserID, &img.Title, &img.Description, &img.ImageURL,
		&img.Tags, &img.Privacy, &img.CreatedAt, &img.UpdatedAt,
		&img.Username, &img.FullName, &img.ProfileImageURL,
		&img.LikesCount, &img.CommentsCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &img, err
}

func (r *ImageRepo) ListFeed(ctx context.Context, order domain.FeedOrder, limit int) ([]domain.Image, error) {
	orderBy := "created_at DESC"
	if order == domain.FeedPopular {
		orderBy = "likes_count DESC, created_at DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM image_stats WHERE privacy = 'public' ORDER BY %s LIMIT %d",
		statsColumns, orderBy, limit,
	)
	return r.listImages(ctx, query)
}

func (r *ImageRepo) ListByUser(ctx context.Context, userID uuid.UUID, includePrivate bool) ([]domain.Image, error) {
	query := "SELECT " + statsColumns + " FROM image_stats WHERE user_id = $1"
	if !includePrivate {
		query += " AND privacy = 'public'"
	}
	query += " ORDER BY created_at DESC"

	return r.listImages(ctx, query, userID)
}

func (r *ImageRepo) listImages(ctx context.Context, query string, args ...any) ([]domain.Image, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(
			&img.ID, &img.UserID, &img.Title, &img.Description, &img.ImageURL,
			&img.Tags, &img.Privacy, &img.CreatedAt, &img.UpdatedAt,
			&img.Username, &img.FullName, &img.ProfileImageURL,
			&img.LikesCount, &img.CommentsCount,
		); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

var _ repository.ImageRepository = (*ImageRepo)(nil)
