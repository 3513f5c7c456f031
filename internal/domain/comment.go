package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ImageID   uuid.UUID `json:"image_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Joined author fields
	Username        string  `json:"username,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}
