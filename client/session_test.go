package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWait = 2 * time.Second
	testTick = 10 * time.Millisecond
)

func TestSessionStartsLoading(t *testing.T) {
	session := NewSession(New("http://127.0.0.1:0"), &captureNotifier{})
	assert.True(t, session.IsLoading())
	assert.False(t, session.IsAuthenticated())
}

func TestRestoreWithoutToken(t *testing.T) {
	session := NewSession(New("http://127.0.0.1:0"), &captureNotifier{})
	session.Restore(context.Background())

	assert.False(t, session.IsLoading(), "loading resolves even without a token")
	assert.False(t, session.IsAuthenticated())
}

func TestRestoreWithValidToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer saved-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(User{ID: "user-1", Username: "ana"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("saved-token")
	session := NewSession(api, &captureNotifier{})
	session.Restore(context.Background())

	assert.True(t, session.IsAuthenticated())
	require.NotNil(t, session.User())
	assert.Equal(t, "ana", session.User().Username)
}

func TestRestoreWithRejectedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("stale-token")
	session := NewSession(api, &captureNotifier{})
	session.Restore(context.Background())

	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, api.Token(), "rejected token is cleared")
}

func TestLoginSetsStateAndNotifiesObservers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		json.NewEncoder(w).Encode(AuthResponse{
			User:        &User{ID: "user-1", Username: "ana"},
			AccessToken: "fresh-token",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	session := NewSession(api, &captureNotifier{})

	var transitions []AuthState
	unsubscribe := session.OnAuthChange(func(state AuthState) {
		transitions = append(transitions, state)
	})
	defer unsubscribe()

	require.NoError(t, session.Login(context.Background(), "ana@example.com", "Sup3rSecret"))

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "fresh-token", api.Token())
	require.NotEmpty(t, transitions)
	last := transitions[len(transitions)-1]
	assert.True(t, last.IsAuthenticated)
	assert.Equal(t, "ana", last.User.Username)
}

func TestLoginFailureLeavesStateAnonymous(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{
			"code": "INVALID_CREDENTIALS", "message": "invalid email or password",
		}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	notifier := &captureNotifier{}
	session := NewSession(api, notifier)

	err := session.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, api.Token())
	assert.Equal(t, 1, notifier.errorCount())
}

func TestSignupDoesNotAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{
			User:        &User{ID: "user-1", Username: "ana"},
			AccessToken: "unused",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	session := NewSession(api, &captureNotifier{})

	require.NoError(t, session.Signup(context.Background(), "ana@example.com", "Sup3rSecret", "ana", "Ana K"))

	// The account exists but the session stays anonymous until login.
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, api.Token())
}

func TestLogoutClearsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: "user-1", Username: "ana"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("saved-token")
	session := NewSession(api, &captureNotifier{})
	session.Restore(context.Background())
	require.True(t, session.IsAuthenticated())

	session.Logout(context.Background())

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.User())
	assert.Empty(t, api.Token())
}

func TestUpdateProfileMergesOptimistically(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: "user-1", Username: "ana"})
	})
	mux.HandleFunc("PATCH /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		<-release
		bio := "server bio"
		json.NewEncoder(w).Encode(User{ID: "user-1", Username: "ana", Bio: &bio})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("saved-token")
	session := NewSession(api, &captureNotifier{})
	session.Restore(context.Background())

	bio := "local bio"
	done := make(chan error, 1)
	go func() {
		done <- session.UpdateProfile(context.Background(), ProfileUpdate{Bio: &bio})
	}()

	// The merge is visible before the server responds.
	assert.Eventually(t, func() bool {
		user := session.User()
		return user != nil && user.Bio != nil && *user.Bio == "local bio"
	}, testWait, testTick)

	close(release)
	require.NoError(t, <-done)

	user := session.User()
	require.NotNil(t, user)
	require.NotNil(t, user.Bio)
	assert.Equal(t, "server bio", *user.Bio, "server response replaces the optimistic merge")
}

func TestOnAuthChangeUnsubscribe(t *testing.T) {
	session := NewSession(New("http://127.0.0.1:0"), &captureNotifier{})

	calls := 0
	unsubscribe := session.OnAuthChange(func(AuthState) { calls++ })

	session.Restore(context.Background())
	assert.Equal(t, 1, calls)

	unsubscribe()
	session.Logout(context.Background())
	assert.Equal(t, 1, calls, "unsubscribed observers stop firing")
}
