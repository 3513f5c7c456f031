package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

const userColumns = "id, email, username, full_name, bio, profile_image_url, password_hash, created_at, updated_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, username, full_name, bio, profile_image_url, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.FullName, user.Bio,
		user.ProfileImageURL, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	return translateDuplicate(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	query := `
		UPDATE users SET
			username = COALESCE($2, username),
			full_name = COALESCE($3, full_name),
			bio = COALESCE($4, bio),
			profile_image_url = COALESCE($5, profile_image_url),
			updated_at = $6
		WHERE id = $1
		RETURNING ` + userColumns

	var u domain.User
	err := r.pool.QueryRow(ctx, query,
		id, update.Username, update.FullName, update.Bio, update.ProfileImageURL, time.Now(),
	).Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.Bio,
		&u.ProfileImageURL, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateDuplicate(err)
	}
	return &u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id,
	)
	return err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.Bio,
		&u.ProfileImageURL, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &u, err
}

var _ repository.UserRepository = (*UserRepo)(nil)
