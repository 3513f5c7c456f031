package client

import (
	"context"
	"errors"
	"sync"
)

// ErrLoginRequired signals that the caller should route to the login view.
// The server is never touched when it is returned.
var ErrLoginRequired = errors.New("login required")

// FeedStore holds the image view state a feed or detail view renders from.
// Like toggles are optimistic: the flag and counter flip before the remote
// call resolves, roll back on failure, and reconcile against the server's
// authoritative count on success. Toggles are serialized per image so rapid
// clicks cannot interleave.
type FeedStore struct {
	api      *Client
	session  *Session
	notifier Notifier

	mu     sync.Mutex
	images []Image

	togglesMu sync.Mutex
	toggles   map[string]*sync.Mutex
}

func NewFeedStore(api *Client, session *Session, notifier Notifier) *FeedStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &FeedStore{
		api:      api,
		session:  session,
		notifier: notifier,
		toggles:  make(map[string]*sync.Mutex),
	}
}

// SetImages replaces the view state wholesale. Refetches land here, which is
// also what reconciles any drifted optimistic counters.
func (f *FeedStore) SetImages(images []Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = make([]Image, len(images))
	copy(f.images, images)
}

// Refresh refetches the feed and replaces the view state.
func (f *FeedStore) Refresh(ctx context.Context, filter string) error {
	images, err := f.api.GetImages(ctx, filter)
	if err != nil {
		return err
	}
	f.SetImages(images)
	return nil
}

func (f *FeedStore) Images() []Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Image, len(f.images))
	copy(out, f.images)
	return out
}

func (f *FeedStore) Image(id string) (Image, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}

// ToggleLike runs the optimistic toggle for one image. Unauthenticated
// callers get ErrLoginRequired without any state change.
func (f *FeedStore) ToggleLike(ctx context.Context, imageID string) error {
	if !f.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	// One in-flight toggle per image; later clicks queue behind it and
	// compute from the settled state.
	lock := f.toggleLock(imageID)
	lock.Lock()
	defer lock.Unlock()

	prevLiked, prevCount, ok := f.snapshot(imageID)
	if !ok {
		return errors.New("image not in view state")
	}

	// Optimistic step: flip flag, move counter, render immediately.
	newCount := prevCount + 1
	if prevLiked {
		newCount = prevCount - 1
	}
	f.apply(imageID, !prevLiked, newCount)

	result, err := f.api.ToggleLike(ctx, imageID)
	if err != nil {
		// Roll back to the pre-toggle pair.
		f.apply(imageID, prevLiked, prevCount)
		f.notifier.Error("Something went wrong", "Could not update like. Please try again.")
		return err
	}

	// Reconcile with the authoritative server state.
	f.apply(imageID, result.Liked, result.LikesCount)
	return nil
}

func (f *FeedStore) toggleLock(imageID string) *sync.Mutex {
	f.togglesMu.Lock()
	defer f.togglesMu.Unlock()
	lock, ok := f.toggles[imageID]
	if !ok {
		lock = &sync.Mutex{}
		f.toggles[imageID] = lock
	}
	return lock
}

func (f *FeedStore) snapshot(imageID string) (liked bool, count int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.images {
		if f.images[i].ID == imageID {
			return f.images[i].LikedByUser, f.images[i].LikesCount, true
		}
	}
	return false, 0, false
}

func (f *FeedStore) apply(imageID string, liked bool, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.images {
		if f.images[i].ID == imageID {
			f.images[i].LikedByUser = liked
			f.images[i].LikesCount = count
			return
		}
	}
}

// ProfileStore holds one profile view and its optimistic follow toggle,
// with the same serialize/rollback/reconcile discipline as FeedStore.
type ProfileStore struct {
	api      *Client
	session  *Session
	notifier Notifier

	mu      sync.Mutex
	profile *Profile

	toggleMu sync.Mutex
}

func NewProfileStore(api *Client, session *Session, notifier Notifier) *ProfileStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ProfileStore{api: api, session: session, notifier: notifier}
}

func (p *ProfileStore) SetProfile(profile *Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if profile == nil {
		p.profile = nil
		return
	}
	cp := *profile
	p.profile = &cp
}

// Refresh refetches the profile by username and replaces the view state.
func (p *ProfileStore) Refresh(ctx context.Context, username string) error {
	profile, err := p.api.GetProfile(ctx, username)
	if err != nil {
		return err
	}
	p.SetProfile(profile)
	return nil
}

func (p *ProfileStore) Profile() *Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return nil
	}
	cp := *p.profile
	return &cp
}

// ToggleFollow runs the optimistic follow toggle for the held profile.
func (p *ProfileStore) ToggleFollow(ctx context.Context) error {
	if !p.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	p.toggleMu.Lock()
	defer p.toggleMu.Unlock()

	p.mu.Lock()
	if p.profile == nil {
		p.mu.Unlock()
		return errors.New("no profile in view state")
	}
	targetID := p.profile.ID
	prevFollowing := p.profile.IsFollowing
	prevCount := p.profile.FollowerCount
	p.mu.Unlock()

	newCount := prevCount + 1
	if prevFollowing {
		newCount = prevCount - 1
	}
	p.apply(!prevFollowing, newCount)

	result, err := p.api.ToggleFollow(ctx, targetID)
	if err != nil {
		p.apply(prevFollowing, prevCount)
		p.notifier.Error("Something went wrong", "Could not update follow. Please try again.")
		return err
	}

	p.apply(result.Following, result.FollowerCount)
	return nil
}

func (p *ProfileStore) apply(following bool, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return
	}
	p.profile.IsFollowing = following
	p.profile.FollowerCount = count
}
