package client

import (
	"os"
	"strings"
	"sync"
)

// ThemeStore persists the single piece of local state this client keeps:
// the "dark"/"light" preference.
type ThemeStore struct {
	path string
	mu   sync.Mutex
}

func NewThemeStore(path string) *ThemeStore {
	return &ThemeStore{path: path}
}

func (t *ThemeStore) Theme() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.path)
	if err != nil {
		return "light"
	}
	theme := strings.TrimSpace(string(data))
	if theme != "dark" && theme != "light" {
		return "light"
	}
	return theme
}

func (t *ThemeStore) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		theme = "light"
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return os.WriteFile(t.path, []byte(theme), 0o600)
}
