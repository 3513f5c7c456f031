package service

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/shuttergrid/shuttergrid/internal/repository"
)

// In-memory fakes for the repository interfaces.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.FullName != nil {
		u.FullName = update.FullName
	}
	if update.Bio != nil {
		u.Bio = update.Bio
	}
	if update.ProfileImageURL != nil {
		u.ProfileImageURL = update.ProfileImageURL
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	resets map[string]*domain.PasswordReset
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{resets: make(map[string]*domain.PasswordReset)}
}

func (r *fakeResetRepo) Create(ctx context.Context, reset *domain.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *reset
	r.resets[reset.Token] = &cp
	return nil
}

func (r *fakeResetRepo) GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reset, ok := r.resets[token]; ok {
		cp := *reset
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeResetRepo) MarkUsed(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reset, ok := r.resets[token]; ok {
		reset.Used = true
	}
	return nil
}

type fakeImageRepo struct {
	mu        sync.Mutex
	images    map[uuid.UUID]*domain.Image
	createErr error
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[uuid.UUID]*domain.Image)}
}

func (r *fakeImageRepo) Create(ctx context.Context, image *domain.Image) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *image
	r.images[image.ID] = &cp
	return nil
}

func (r *fakeImageRepo) GetStats(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if img, ok := r.images[id]; ok {
		cp := *img
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeImageRepo) ListFeed(ctx context.Context, order domain.FeedOrder, limit int) ([]domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Image
	for _, img := range r.images {
		if img.Privacy == domain.PrivacyPublic {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == domain.FeedPopular {
			if out[i].LikesCount != out[j].LikesCount {
				return out[i].LikesCount > out[j].LikesCount
			}
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeImageRepo) ListByUser(ctx context.Context, userID uuid.UUID, includePrivate bool) ([]domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Image
	for _, img := range r.images {
		if img.UserID != userID {
			continue
		}
		if img.Privacy != domain.PrivacyPublic && !includePrivate {
			continue
		}
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type likeKey struct {
	user  uuid.UUID
	image uuid.UUID
}

type fakeLikeRepo struct {
	mu            sync.Mutex
	likes         map[likeKey]bool
	likedSetCalls int
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool)}
}

func (r *fakeLikeRepo) Insert(ctx context.Context, userID, imageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID, imageID}
	if r.likes[key] {
		return repository.ErrDuplicate
	}
	r.likes[key] = true
	return nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, likeKey{userID, imageID})
	return nil
}

func (r *fakeLikeRepo) Count(ctx context.Context, imageID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.likes {
		if key.image == imageID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) LikedSet(ctx context.Context, userID uuid.UUID, imageIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likedSetCalls++
	liked := make(map[uuid.UUID]bool)
	for _, id := range imageIDs {
		if r.likes[likeKey{userID, id}] {
			liked[id] = true
		}
	}
	return liked, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
	authors  map[uuid.UUID]string // user id → username
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{authors: make(map[uuid.UUID]string)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			c.Username = r.authors[c.UserID]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCommentRepo) ListByImage(ctx context.Context, imageID uuid.UUID) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.comments {
		if c.ImageID == imageID {
			c.Username = r.authors[c.UserID]
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type followKey struct {
	follower  uuid.UUID
	following uuid.UUID
}

type fakeFollowRepo struct {
	mu      sync.Mutex
	follows map[followKey]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[followKey]bool)}
}

func (r *fakeFollowRepo) Insert(ctx context.Context, followerID, followingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := followKey{followerID, followingID}
	if r.follows[key] {
		return repository.ErrDuplicate
	}
	r.follows[key] = true
	return nil
}

func (r *fakeFollowRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.follows, followKey{followerID, followingID})
	return nil
}

func (r *fakeFollowRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[followKey{followerID, followingID}], nil
}

func (r *fakeFollowRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.follows {
		if key.following == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.follows {
		if key.follower == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	return nil, nil
}

func (r *fakeFollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	return nil, nil
}

type fakeObjectStore struct {
	mu       sync.Mutex
	uploads  []string
	removed  []string
	uploadErr error
}

func (s *fakeObjectStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, path)
	return nil
}

func (s *fakeObjectStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, path)
	return nil
}

func (s *fakeObjectStore) PublicURL(path string) string {
	return "http://store.local/images/" + path
}

type notifiedChange struct {
	Table  string
	Action string
}

type fakeNotifier struct {
	mu      sync.Mutex
	changes []notifiedChange
}

func (n *fakeNotifier) NotifyChange(table, action string, record any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, notifiedChange{Table: table, Action: action})
}

func (n *fakeNotifier) last() (notifiedChange, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.changes) == 0 {
		return notifiedChange{}, false
	}
	return n.changes[len(n.changes)-1], true
}
