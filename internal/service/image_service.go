package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

var ErrImageNotFound = errors.New("image not found")

const feedLimit = 100

// ObjectStore is the slice of the storage layer the image service needs.
type ObjectStore interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, path string) error
	PublicURL(path string) string
}

type ImageService struct {
	imageRepo repository.ImageRepository
	likeRepo  repository.LikeRepository
	store     ObjectStore
	notifier  Notifier
}

func NewImageService(imageRepo repository.ImageRepository, likeRepo repository.LikeRepository, store ObjectStore, notifier Notifier) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		likeRepo:  likeRepo,
		store:     store,
		notifier:  notifier,
	}
}

type UploadInput struct {
	Title       string
	Description string
	Tags        []string
	Privacy     domain.ImagePrivacy
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// Upload stores the file in the object store, then records the metadata row.
// If the insert fails the uploaded object is removed again.
func (s *ImageService) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*domain.Image, error) {
	privacy := input.Privacy
	if privacy == "" {
		privacy = domain.PrivacyPublic
	}

	objectPath := fmt.Sprintf("%s/%s%s", userID, uuid.New(), path.Ext(input.Filename))
	if err := s.store.Upload(ctx, objectPath, input.File, input.Size, input.ContentType); err != nil {
		return nil, fmt.Errorf("storing object: %w", err)
	}

	now := time.Now()
	img := &domain.Image{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     input.Title,
		ImageURL:  s.store.PublicURL(objectPath),
		Tags:      input.Tags,
		Privacy:   privacy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != "" {
		img.Description = &input.Description
	}

	if err := s.imageRepo.Create(ctx, img); err != nil {
		if rmErr := s.store.Remove(ctx, objectPath); rmErr != nil {
			log.Printf("image upload: orphaned object %s: %v", objectPath, rmErr)
		}
		return nil, fmt.Errorf("inserting image row: %w", err)
	}

	s.notifier.NotifyChange("images", ActionInsert, img)
	return img, nil
}

// Feed lists public images. filter "popular" sorts by like count, anything
// else by recency. liked_by_user is filled for the viewer in one batched
// lookup across the whole page.
func (s *ImageService) Feed(ctx context.Context, viewerID *uuid.UUID, filter string) ([]domain.Image, error) {
	order := domain.FeedRecent
	if filter == string(domain.FeedPopular) {
		order = domain.FeedPopular
	}

	images, err := s.imageRepo.ListFeed(ctx, order, feedLimit)
	if err != nil {
		return nil, err
	}
	if err := s.fillLiked(ctx, viewerID, images); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *ImageService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*domain.Image, error) {
	img, err := s.imageRepo.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil || !visibleTo(img, viewerID) {
		return nil, ErrImageNotFound
	}

	if viewerID != nil {
		liked, err := s.likeRepo.LikedSet(ctx, *viewerID, []uuid.UUID{img.ID})
		if err != nil {
			return nil, err
		}
		img.LikedByUser = liked[img.ID]
	}
	return img, nil
}

func (s *ImageService) ListByUser(ctx context.Context, viewerID *uuid.UUID, userID uuid.UUID) ([]domain.Image, error) {
	includePrivate := viewerID != nil && *viewerID == userID
	images, err := s.imageRepo.ListByUser(ctx, userID, includePrivate)
	if err != nil {
		return nil, err
	}
	if err := s.fillLiked(ctx, viewerID, images); err != nil {
		return nil, err
	}
	return images, nil
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike inserts the like row, and treats a uniqueness violation as
// "already liked, remove instead". The response carries the authoritative
// count so clients can reconcile optimistic state.
func (s *ImageService) ToggleLike(ctx context.Context, userID, imageID uuid.UUID) (*LikeResult, error) {
	img, err := s.imageRepo.GetStats(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil || !visibleTo(img, &userID) {
		return nil, ErrImageNotFound
	}

	liked := true
	err = s.likeRepo.Insert(ctx, userID, imageID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		if err := s.likeRepo.Delete(ctx, userID, imageID); err != nil {
			return nil, fmt.Errorf("removing like: %w", err)
		}
		liked = false
	case err != nil:
		return nil, fmt.Errorf("inserting like: %w", err)
	}

	count, err := s.likeRepo.Count(ctx, imageID)
	if err != nil {
		return nil, err
	}

	like := domain.Like{UserID: userID, ImageID: imageID}
	if liked {
		s.notifier.NotifyChange("likes", ActionInsert, like)
	} else {
		s.notifier.NotifyChange("likes", ActionDelete, like)
	}

	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *ImageService) fillLiked(ctx context.Context, viewerID *uuid.UUID, images []domain.Image) error {
	if viewerID == nil || len(images) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(images))
	for i := range images {
		ids[i] = images[i].ID
	}

	liked, err := s.likeRepo.LikedSet(ctx, *viewerID, ids)
	if err != nil {
		return err
	}
	for i := range images {
		images[i].LikedByUser = liked[images[i].ID]
	}
	return nil
}

// visibleTo enforces privacy: private images exist only for their owner.
// Unlisted images stay out of feeds but resolve by id.
func visibleTo(img *domain.Image, viewerID *uuid.UUID) bool {
	if img.Privacy != domain.PrivacyPrivate {
		return true
	}
	return viewerID != nil && *viewerID == img.UserID
}
