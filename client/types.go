package client

import "time"

// View models mirroring the server's JSON shapes. IDs travel as strings on
// this side of the wire.

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        *string   `json:"full_name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Profile struct {
	ID              string    `json:"id"`
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

type Image struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	ImageURL        string    `json:"image_url"`
	Tags            []string  `json:"tags,omitempty"`
	Privacy         string    `json:"privacy"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Username        string    `json:"username,omitempty"`
	FullName        *string   `json:"full_name,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	LikesCount      int       `json:"likes_count"`
	CommentsCount   int       `json:"comments_count"`
	LikedByUser     bool      `json:"liked_by_user"`
}

type Comment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ImageID         string    `json:"image_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Username        string    `json:"username,omitempty"`
	FullName        *string   `json:"full_name,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type FollowResult struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"follower_count"`
}

type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

// ProfileUpdate carries the writable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Username        *string `json:"username,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}
