package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Data-access functions. Each translates one UI intent into an API call and
// hands back a view model. Errors are logged and returned; user-facing
// messaging is the caller's job.

// GetImages fetches the feed. filter is "recent", "popular" or empty.
func (c *Client) GetImages(ctx context.Context, filter string) ([]Image, error) {
	path := "/api/v1/images"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}

	var images []Image
	if err := c.get(ctx, path, &images); err != nil {
		log.Printf("client: fetching images: %v", err)
		return nil, err
	}
	return images, nil
}

func (c *Client) GetImageByID(ctx context.Context, id string) (*Image, error) {
	var img Image
	if err := c.get(ctx, "/api/v1/images/"+url.PathEscape(id), &img); err != nil {
		log.Printf("client: fetching image %s: %v", id, err)
		return nil, err
	}
	return &img, nil
}

func (c *Client) GetUserImages(ctx context.Context, userID string) ([]Image, error) {
	var images []Image
	if err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/images", &images); err != nil {
		log.Printf("client: fetching images of %s: %v", userID, err)
		return nil, err
	}
	return images, nil
}

type UploadInput struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string
	Filename    string
	ContentType string
	File        io.Reader
}

// UploadImage sends the multipart upload form.
func (c *Client) UploadImage(ctx context.Context, input UploadInput) (*Image, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", input.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, input.File); err != nil {
		return nil, fmt.Errorf("reading upload file: %w", err)
	}

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"privacy":     input.Privacy,
		"tags":        joinTags(input.Tags),
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := form.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/images", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var img Image
	if err := c.send(req, &img); err != nil {
		log.Printf("client: uploading image: %v", err)
		return nil, err
	}
	return &img, nil
}

func (c *Client) GetImageComments(ctx context.Context, imageID string) ([]Comment, error) {
	var comments []Comment
	if err := c.get(ctx, "/api/v1/images/"+url.PathEscape(imageID)+"/comments", &comments); err != nil {
		log.Printf("client: fetching comments for %s: %v", imageID, err)
		return nil, err
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, imageID, content string) (*Comment, error) {
	var comment Comment
	err := c.post(ctx, "/api/v1/images/"+url.PathEscape(imageID)+"/comments",
		map[string]string{"content": content}, &comment)
	if err != nil {
		log.Printf("client: adding comment to %s: %v", imageID, err)
		return nil, err
	}
	return &comment, nil
}

func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/api/v1/profiles/"+url.PathEscape(username), &profile); err != nil {
		log.Printf("client: fetching profile %s: %v", username, err)
		return nil, err
	}
	return &profile, nil
}

// ToggleLike flips the like state of an image on the server and returns the
// authoritative (liked, count) pair.
func (c *Client) ToggleLike(ctx context.Context, imageID string) (*LikeResult, error) {
	var result LikeResult
	if err := c.post(ctx, "/api/v1/images/"+url.PathEscape(imageID)+"/like", nil, &result); err != nil {
		log.Printf("client: toggling like on %s: %v", imageID, err)
		return nil, err
	}
	return &result, nil
}

// ToggleFollow flips the follow state towards a user.
func (c *Client) ToggleFollow(ctx context.Context, userID string) (*FollowResult, error) {
	var result FollowResult
	if err := c.post(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/follow", nil, &result); err != nil {
		log.Printf("client: toggling follow on %s: %v", userID, err)
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetFollowers(ctx context.Context, userID string) ([]Profile, error) {
	var profiles []Profile
	if err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/followers", &profiles); err != nil {
		log.Printf("client: fetching followers of %s: %v", userID, err)
		return nil, err
	}
	return profiles, nil
}

func (c *Client) GetFollowing(ctx context.Context, userID string) ([]Profile, error) {
	var profiles []Profile
	if err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/following", &profiles); err != nil {
		log.Printf("client: fetching following of %s: %v", userID, err)
		return nil, err
	}
	return profiles, nil
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}
