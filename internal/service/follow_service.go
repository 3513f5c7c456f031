package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrProfileNotFound  = errors.New("profile not found")
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   Notifier
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, notifier Notifier) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

type FollowResult struct {
	Following     bool `json:"following"`
	FollowerCount int  `json:"follower_count"`
}

// Toggle follows the target if not yet followed, otherwise unfollows.
// Self-follows are rejected outright.
func (s *FollowService) Toggle(ctx context.Context, followerID, targetID uuid.UUID) (*FollowResult, error) {
	if followerID == targetID {
		return nil, ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrProfileNotFound
	}

	following := true
	err = s.followRepo.Insert(ctx, followerID, targetID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		if err := s.followRepo.Delete(ctx, followerID, targetID); err != nil {
			return nil, fmt.Errorf("removing follow: %w", err)
		}
		following = false
	case err != nil:
		return nil, fmt.Errorf("inserting follow: %w", err)
	}

	count, err := s.followRepo.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, err
	}

	follow := domain.Follow{FollowerID: followerID, FollowingID: targetID}
	if following {
		s.notifier.NotifyChange("follows", ActionInsert, follow)
	} else {
		s.notifier.NotifyChange("follows", ActionDelete, follow)
	}

	return &FollowResult{Following: following, FollowerCount: count}, nil
}

// GetProfile resolves a username into the public profile with follow stats
// relative to the viewer. IsFollowing stays false for anonymous viewers.
func (s *FollowService) GetProfile(ctx context.Context, viewerID *uuid.UUID, username string) (*domain.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}

	profile := user.Profile()

	if profile.FollowerCount, err = s.followRepo.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.followRepo.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}

	if viewerID != nil && *viewerID != user.ID {
		if profile.IsFollowing, err = s.followRepo.Exists(ctx, *viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *FollowService) Followers(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}
