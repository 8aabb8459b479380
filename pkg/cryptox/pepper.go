package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// pepperSize is the number of random bytes in a freshly generated pepper.
const pepperSize = 32

// The pepper is mixed into every password hash. It lives in a file next to
// the database (not in it) so a leaked database alone is not enough to
// brute force passwords.
var pepperState struct {
	mu     sync.Mutex
	path   string
	value  string
	loaded bool
}

// SetPepperPath sets the pepper file and forgets any previously loaded
// pepper. The file is created with a random pepper on first use.
func SetPepperPath(path string) {
	pepperState.mu.Lock()
	defer pepperState.mu.Unlock()

	pepperState.path = path
	pepperState.value = ""
	pepperState.loaded = false
}

// Pepper returns the current pepper, loading or creating the pepper file on
// first call.
func Pepper() (string, error) {
	pepperState.mu.Lock()
	defer pepperState.mu.Unlock()

	if pepperState.loaded {
		return pepperState.value, nil
	}
	if pepperState.path == "" {
		return "", errors.New("cryptox: pepper path not configured")
	}

	value, err := loadOrCreatePepper(pepperState.path)
	if err != nil {
		return "", err
	}

	pepperState.value = value
	pepperState.loaded = true
	return value, nil
}

func loadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return strings.TrimSpace(string(data)), nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	buf := make([]byte, pepperSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate pepper: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)

	// O_EXCL so two processes starting at once cannot both write a pepper.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return loadOrCreatePepper(path)
		}
		return "", fmt.Errorf("cryptox: write pepper: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(value); err != nil {
		return "", fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return value, nil
}
