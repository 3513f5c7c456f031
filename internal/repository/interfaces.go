package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
)

// ErrDuplicate is returned by insert operations that hit a uniqueness
// constraint. Toggle services interpret it as "already exists".
var ErrDuplicate = errors.New("duplicate row")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, token string) error
}

type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	// GetStats reads a single row from the image_stats view.
	GetStats(ctx context.Context, id uuid.UUID) (*domain.Image, error)
	// ListFeed returns public images in the requested order.
	ListFeed(ctx context.Context, order domain.FeedOrder, limit int) ([]domain.Image, error)
	// ListByUser returns a user's images, newest first. Private rows are
	// included only when includePrivate is set (viewer is the owner).
	ListByUser(ctx context.Context, userID uuid.UUID, includePrivate bool) ([]domain.Image, error)
}

type LikeRepository interface {
	Insert(ctx context.Context, userID, imageID uuid.UUID) error
	Delete(ctx context.Context, userID, imageID uuid.UUID) error
	Count(ctx context.Context, imageID uuid.UUID) (int, error)
	// LikedSet reports which of the given images the user has liked,
	// in a single query.
	LikedSet(ctx context.Context, userID uuid.UUID, imageIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByImage(ctx context.Context, imageID uuid.UUID) ([]domain.Comment, error)
}

type FollowRepository interface {
	Insert(ctx context.Context, followerID, followingID uuid.UUID) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error)
}
