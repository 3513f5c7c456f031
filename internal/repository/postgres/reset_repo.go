package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

type PasswordResetRepo struct {
	pool *pgxpool.Pool
}

func NewPasswordResetRepo(pool *pgxpool.Pool) *PasswordResetRepo {
	return &PasswordResetRepo{pool: pool}
}

func (r *PasswordResetRepo) Create(ctx context.Context, reset *domain.PasswordReset) error {
	query := `
		INSERT INTO password_resets (token, user_id, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		reset.Token, reset.UserID, reset.ExpiresAt, reset.Used, reset.CreatedAt,
	)
	return err
}

func (r *PasswordResetRepo) GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	query := `
		SELECT token, user_id, expires_at, used, created_at
		FROM password_resets
		WHERE token = $1`

	var reset domain.PasswordReset
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&reset.Token, &reset.UserID, &reset.ExpiresAt, &reset.Used, &reset.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &reset, err
}

func (r *PasswordResetRepo) MarkUsed(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `UPDATE password_resets SET used = TRUE WHERE token = $1`, token)
	return err
}

var _ repository.PasswordResetRepository = (*PasswordResetRepo)(nil)
