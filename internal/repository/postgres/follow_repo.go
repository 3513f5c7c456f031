package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Insert(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3)`,
		followerID, followingID, time.Now(),
	)
	return translateDuplicate(err)
}

func (r *FollowRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	return err
}

func (r *FollowRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (r *FollowRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.bio, u.profile_image_url, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC`
	return r.listProfiles(ctx, query, userID)
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.bio, u.profile_image_url, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`
	return r.listProfiles(ctx, query, userID)
}

func (r *FollowRepo) listProfiles(ctx context.Context, query string, arg any) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID, &p.Username, &p.FullName, &p.Bio, &p.ProfileImageURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

var _ repository.FollowRepository = (*FollowRepo)(nil)
