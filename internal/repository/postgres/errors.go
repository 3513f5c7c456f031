package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

// uniqueViolation is the SQLSTATE postgres signals on unique constraint hits.
const uniqueViolation = "23505"

func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
