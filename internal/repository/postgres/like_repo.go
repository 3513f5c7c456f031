package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

func (r *LikeRepo) Insert(ctx context.Context, userID, imageID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO likes (user_id, image_id, created_at) VALUES ($1, $2, $3)`,
		userID, imageID, time.Now(),
	)
	return translateDuplicate(err)
}

func (r *LikeRepo) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND image_id = $2`,
		userID, imageID,
	)
	return err
}

func (r *LikeRepo) Count(ctx context.Context, imageID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE image_id = $1`, imageID,
	).Scan(&count)
	return count, err
}

// LikedSet answers "which of these has the user liked" with one query,
// instead of a round trip per image.
func (r *LikeRepo) LikedSet(ctx context.Context, userID uuid.UUID, imageIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(imageIDs))
	if len(imageIDs) == 0 {
		return liked, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT image_id FROM likes WHERE user_id = $1 AND image_id = ANY($2)`,
		userID, imageIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

var _ repository.LikeRepository = (*LikeRepo)(nil)
