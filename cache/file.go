package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/twiller-app/authkit"
)

var _ Store = FileStore{}

// A FileStore keeps the cached profile in a JSON file on disk,
// surviving restarts the way browser local storage survives page loads.
type FileStore struct {
	path string
}

// NewFileStore constructs a FileStore under dir,
// defaulting to the user's config directory when dir is "".
func NewFileStore(dir string) (FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return FileStore{}, err
		}
		dir = filepath.Join(base, "twiller")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return FileStore{}, err
	}

	return FileStore{path: filepath.Join(dir, authkit.CacheKey+".json")}, nil
}

// Get retrieves the profile from disk, reporting whether one is held.
func (fs FileStore) Get(ctx context.Context) (authkit.UserProfile, bool) {
	select {
	case <-ctx.Done():
		return authkit.UserProfile{}, false
	default:
		b, err := os.ReadFile(fs.path)
		if err != nil {
			return authkit.UserProfile{}, false
		}

		var profile authkit.UserProfile
		if err := json.Unmarshal(b, &profile); err != nil {
			return authkit.UserProfile{}, false
		}

		return profile, true
	}
}

// Set overwrites the profile on disk.
func (fs FileStore) Set(ctx context.Context, profile authkit.UserProfile) {
	select {
	case <-ctx.Done():
		return
	default:
		b, err := json.Marshal(profile)
		if err != nil {
			return
		}
		_ = os.WriteFile(fs.path, b, 0o600)
	}
}

// Clear removes the profile file; a missing file already means logged out.
func (fs FileStore) Clear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	default:
		_ = os.Remove(fs.path)
	}
}
