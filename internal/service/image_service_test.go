package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shuttergrid/shuttergrid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageFixture struct {
	svc      *ImageService
	images   *fakeImageRepo
	likes    *fakeLikeRepo
	store    *fakeObjectStore
	notifier *fakeNotifier
}

func newImageFixture() *imageFixture {
	f := &imageFixture{
		images:   newFakeImageRepo(),
		likes:    newFakeLikeRepo(),
		store:    &fakeObjectStore{},
		notifier: &fakeNotifier{},
	}
	f.svc = NewImageService(f.images, f.likes, f.store, f.notifier)
	return f
}

func (f *imageFixture) seed(userID uuid.UUID, privacy domain.ImagePrivacy, createdAt time.Time) uuid.UUID {
	img := &domain.Image{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "seeded",
		Privacy:   privacy,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := f.images.Create(context.Background(), img); err != nil {
		panic(err)
	}
	return img.ID
}

func TestUploadStoresObjectAndRow(t *testing.T) {
	f := newImageFixture()
	userID := uuid.New()

	img, err := f.svc.Upload(context.Background(), userID, UploadInput{
		Title:       "sunset",
		Description: "over the bay",
		Tags:        []string{"sky", "water"},
		Filename:    "sunset.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		File:        strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Len(t, f.store.uploads, 1)
	assert.True(t, strings.HasPrefix(f.store.uploads[0], userID.String()+"/"))
	assert.True(t, strings.HasSuffix(f.store.uploads[0], ".jpg"))
	assert.Equal(t, domain.PrivacyPublic, img.Privacy, "privacy defaults to public")
	assert.Contains(t, img.ImageURL, f.store.uploads[0])

	stored, err := f.images.GetStats(context.Background(), img.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	change, ok := f.notifier.last()
	require.True(t, ok)
	assert.Equal(t, notifiedChange{Table: "images", Action: ActionInsert}, change)
}

func TestUploadRemovesObjectWhenInsertFails(t *testing.T) {
	f := newImageFixture()
	f.images.createErr = errors.New("db down")

	_, err := f.svc.Upload(context.Background(), uuid.New(), UploadInput{
		Title:    "doomed",
		Filename: "x.png",
		File:     strings.NewReader("data"),
	})
	require.Error(t, err)

	require.Len(t, f.store.uploads, 1)
	require.Len(t, f.store.removed, 1)
	assert.Equal(t, f.store.uploads[0], f.store.removed[0], "orphaned object is cleaned up")
}

func TestFeedFillsLikedInOneLookup(t *testing.T) {
	f := newImageFixture()
	viewer := uuid.New()
	owner := uuid.New()

	now := time.Now()
	first := f.seed(owner, domain.PrivacyPublic, now.Add(-2*time.Hour))
	second := f.seed(owner, domain.PrivacyPublic, now.Add(-time.Hour))
	f.seed(owner, domain.PrivacyPrivate, now) // never in the feed
	require.NoError(t, f.likes.Insert(context.Background(), viewer, first))

	images, err := f.svc.Feed(context.Background(), &viewer, "")
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, second, images[0].ID, "recent feed is newest first")
	assert.False(t, images[0].LikedByUser)
	assert.Equal(t, first, images[1].ID)
	assert.True(t, images[1].LikedByUser)

	assert.Equal(t, 1, f.likes.likedSetCalls, "one batched lookup for the whole page")
}

func TestFeedAnonymousViewer(t *testing.T) {
	f := newImageFixture()
	owner := uuid.New()
	id := f.seed(owner, domain.PrivacyPublic, time.Now())
	require.NoError(t, f.likes.Insert(context.Background(), owner, id))

	images, err := f.svc.Feed(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.False(t, images[0].LikedByUser)
	assert.Equal(t, 0, f.likes.likedSetCalls, "no lookup without a viewer")
}

func TestGetRespectsPrivacy(t *testing.T) {
	f := newImageFixture()
	owner := uuid.New()
	stranger := uuid.New()
	private := f.seed(owner, domain.PrivacyPrivate, time.Now())
	unlisted := f.seed(owner, domain.PrivacyUnlisted, time.Now())

	_, err := f.svc.Get(context.Background(), nil, private)
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = f.svc.Get(context.Background(), &stranger, private)
	assert.ErrorIs(t, err, ErrImageNotFound)

	img, err := f.svc.Get(context.Background(), &owner, private)
	require.NoError(t, err)
	assert.Equal(t, private, img.ID)

	// Unlisted resolves by id for anyone.
	img, err = f.svc.Get(context.Background(), nil, unlisted)
	require.NoError(t, err)
	assert.Equal(t, unlisted, img.ID)
}

func TestListByUserHidesPrivateFromOthers(t *testing.T) {
	f := newImageFixture()
	owner := uuid.New()
	stranger := uuid.New()
	f.seed(owner, domain.PrivacyPublic, time.Now())
	f.seed(owner, domain.PrivacyPrivate, time.Now())

	mine, err := f.svc.ListByUser(context.Background(), &owner, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.svc.ListByUser(context.Background(), &stranger, owner)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestToggleLikeInsertThenRemove(t *testing.T) {
	f := newImageFixture()
	owner := uuid.New()
	viewer := uuid.New()
	id := f.seed(owner, domain.PrivacyPublic, time.Now())

	result, err := f.svc.ToggleLike(context.Background(), viewer, id)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	change, ok := f.notifier.last()
	require.True(t, ok)
	assert.Equal(t, notifiedChange{Table: "likes", Action: ActionInsert}, change)

	// Second toggle hits the duplicate path and unlikes.
	result, err = f.svc.ToggleLike(context.Background(), viewer, id)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)

	change, ok = f.notifier.last()
	require.True(t, ok)
	assert.Equal(t, notifiedChange{Table: "likes", Action: ActionDelete}, change)
}

func TestToggleLikeUnknownImage(t *testing.T) {
	f := newImageFixture()

	_, err := f.svc.ToggleLike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestFeedPopularOrder(t *testing.T) {
	f := newImageFixture()
	owner := uuid.New()
	now := time.Now()

	older := f.seed(owner, domain.PrivacyPublic, now.Add(-time.Hour))
	newer := f.seed(owner, domain.PrivacyPublic, now)
	f.images.mu.Lock()
	f.images.images[older].LikesCount = 5
	f.images.mu.Unlock()

	images, err := f.svc.Feed(context.Background(), nil, "popular")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, older, images[0].ID, "popular feed sorts by like count")
	assert.Equal(t, newer, images[1].ID)
}
