package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is the join row behind the follow relationship. The pair is the
// primary key, so at most one row exists per (follower, following).
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Like is the join row behind a like. Same uniqueness contract as Follow.
type Like struct {
	UserID    uuid.UUID `json:"user_id"`
	ImageID   uuid.UUID `json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
}
