package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        *string   `json:"full_name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Profile is the public view of a user, enriched with follow stats
// relative to the requesting viewer.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FullName        *string   `json:"full_name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	FollowerCount   int       `json:"follower_count"`
	FollowingCount  int       `json:"following_count"`
	IsFollowing     bool      `json:"is_following"`
}

// ProfileUpdate carries the writable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Username        *string `json:"username,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:              u.ID,
		Username:        u.Username,
		FullName:        u.FullName,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type PasswordReset struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
