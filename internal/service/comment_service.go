package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	imageRepo   repository.ImageRepository
	notifier    Notifier
}

func NewCommentService(commentRepo repository.CommentRepository, imageRepo repository.ImageRepository, notifier Notifier) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		imageRepo:   imageRepo,
		notifier:    notifier,
	}
}

// Add inserts a comment and returns it with the author's profile fields
// attached, the shape comment lists use.
func (s *CommentService) Add(ctx context.Context, userID, imageID uuid.UUID, content string) (*domain.Comment, error) {
	img, err := s.imageRepo.GetStats(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil || !visibleTo(img, &userID) {
		return nil, ErrImageNotFound
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		ImageID:   imageID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	// Re-read joined with the author row for the denormalized fields.
	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = comment
	}

	s.notifier.NotifyChange("comments", ActionInsert, created)
	return created, nil
}

// ListByImage returns an image's comments oldest first.
func (s *CommentService) ListByImage(ctx context.Context, viewerID *uuid.UUID, imageID uuid.UUID) ([]domain.Comment, error) {
	img, err := s.imageRepo.GetStats(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil || !visibleTo(img, viewerID) {
		return nil, ErrImageNotFound
	}

	return s.commentRepo.ListByImage(ctx, imageID)
}
