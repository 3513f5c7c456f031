package client

import (
	"context"
	"log"
	"sync"
)

// Notifier is the toast surface: every session operation reports its outcome
// through it instead of letting errors escape to the view layer unseen.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Success(title, description string) { log.Printf("notify: %s - %s", title, description) }
func (LogNotifier) Error(title, description string)   { log.Printf("notify error: %s - %s", title, description) }

// AuthState is the snapshot handed to observers on every transition.
type AuthState struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Session is the process-wide auth store. It owns the current user and
// token, and is the only place that mutates them; everything else reads.
// Observers registered with OnAuthChange see every transition.
type Session struct {
	api      *Client
	notifier Notifier

	mu        sync.Mutex
	user      *User
	token     string
	isLoading bool

	observers map[int]func(AuthState)
	nextID    int
}

func NewSession(api *Client, notifier Notifier) *Session {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Session{
		api:       api,
		notifier:  notifier,
		isLoading: true,
		observers: make(map[int]func(AuthState)),
	}
}

// Restore performs the initial session check: if the transport already
// carries a token (e.g. restored from disk by the caller), the full user is
// fetched and the session becomes authenticated. Either way IsLoading
// resolves to false afterwards.
func (s *Session) Restore(ctx context.Context) {
	token := s.api.Token()
	if token == "" {
		s.setState(nil, "")
		return
	}

	var user User
	if err := s.api.get(ctx, "/api/v1/auth/me", &user); err != nil {
		log.Printf("session restore: %v", err)
		s.api.SetToken("")
		s.setState(nil, "")
		return
	}
	s.setState(&user, token)
}

// OnAuthChange registers an observer and returns its unsubscribe func.
func (s *Session) OnAuthChange(fn func(AuthState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AuthState{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.user != nil,
		IsLoading:       s.isLoading,
	}
}

func (s *Session) IsAuthenticated() bool { return s.State().IsAuthenticated }
func (s *Session) IsLoading() bool       { return s.State().IsLoading }
func (s *Session) User() *User           { return s.State().User }

// Login authenticates with email/password. On failure the local state stays
// unauthenticated and the error is surfaced through the notifier.
func (s *Session) Login(ctx context.Context, email, password string) error {
	var resp AuthResponse
	if err := s.api.post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp); err != nil {
		s.notifier.Error("Login failed", errDescription(err, "Please check your credentials and try again."))
		return err
	}

	s.api.SetToken(resp.AccessToken)
	s.setState(resp.User, resp.AccessToken)
	s.notifier.Success("Login successful", "Welcome back!")
	return nil
}

// Signup creates the account but does not authenticate: the account is not
// usable until verified, so the caller sends the user to the login view.
func (s *Session) Signup(ctx context.Context, email, password, username, fullName string) error {
	if err := s.api.post(ctx, "/api/v1/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"username":  username,
		"full_name": fullName,
	}, nil); err != nil {
		s.notifier.Error("Signup failed", errDescription(err, "Please check your information and try again."))
		return err
	}

	s.notifier.Success("Account created", "Welcome! Please verify your email to continue.")
	return nil
}

// Logout clears the local session unconditionally so the UI never sticks in
// an authenticated state.
func (s *Session) Logout(ctx context.Context) {
	s.api.SetToken("")
	s.setState(nil, "")
	s.notifier.Success("Logged out", "You have been successfully logged out.")
}

func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	if err := s.api.post(ctx, "/api/v1/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		s.notifier.Error("Password reset failed", errDescription(err, "An error occurred. Please try again."))
		return err
	}
	s.notifier.Success("Password reset email sent", "Check your email for a password reset link.")
	return nil
}

func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.api.post(ctx, "/api/v1/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": newPassword,
	}, nil); err != nil {
		s.notifier.Error("Password update failed", errDescription(err, "An error occurred. Please try again."))
		return err
	}
	s.notifier.Success("Password updated", "Your password has been successfully updated.")
	return nil
}

// UpdateProfile merges the given fields into local state before the remote
// write resolves. On failure the error is surfaced but local state is not
// rolled back; the next successful fetch reconciles it.
func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	s.mu.Lock()
	if s.user != nil {
		merged := *s.user
		applyUpdate(&merged, update)
		s.user = &merged
	}
	s.mu.Unlock()
	s.notifyObservers()

	var user User
	if err := s.api.patch(ctx, "/api/v1/profile", update, &user); err != nil {
		s.notifier.Error("Profile update failed", errDescription(err, "An error occurred. Please try again."))
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.notifyObservers()

	s.notifier.Success("Profile updated", "Your profile has been successfully updated.")
	return nil
}

func (s *Session) setState(user *User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.isLoading = false
	s.mu.Unlock()
	s.notifyObservers()
}

func (s *Session) notifyObservers() {
	state := s.State()

	s.mu.Lock()
	observers := make([]func(AuthState), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func applyUpdate(user *User, update ProfileUpdate) {
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.FullName != nil {
		user.FullName = update.FullName
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	if update.ProfileImageURL != nil {
		user.ProfileImageURL = update.ProfileImageURL
	}
}

func errDescription(err error, fallback string) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
