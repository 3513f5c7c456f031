package domain

import (
	"time"

	"github.com/google/uuid"
)

type ImagePrivacy string

const (
	PrivacyPublic   ImagePrivacy = "public"
	PrivacyPrivate  ImagePrivacy = "private"
	PrivacyUnlisted ImagePrivacy = "unlisted"
)

func (p ImagePrivacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyPrivate || p == PrivacyUnlisted
}

type Image struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	ImageURL    string       `json:"image_url"`
	Tags        []string     `json:"tags,omitempty"`
	Privacy     ImagePrivacy `json:"privacy"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	// Joined fields from the image_stats view
	Username        string  `json:"username,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	LikesCount      int     `json:"likes_count"`
	CommentsCount   int     `json:"comments_count"`
	// LikedByUser is computed relative to the viewer, false for anonymous.
	LikedByUser bool `json:"liked_by_user"`
}

// FeedOrder selects the feed sort contract.
type FeedOrder string

const (
	FeedRecent  FeedOrder = "recent"  // created_at DESC
	FeedPopular FeedOrder = "popular" // likes_count DESC
)
