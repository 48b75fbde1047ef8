package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileManifestVersion is bumped when the on-disk format changes.
const fileManifestVersion = "1"

// File keeps entries as files in a directory, indexed by manifest.json.
type File struct {
	mu       sync.Mutex
	dir      string
	manifest fileManifest
	now      func() time.Time
}

type fileManifest struct {
	Version string                `json:"version"`
	Entries map[string]*fileEntry `json:"entries"`
}

type fileEntry struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	// Expires is a Unix time in seconds; zero never expires.
	Expires int64 `json:"expires,omitempty"`
}

// NewFile opens the cache rooted at dir, creating it if needed. A manifest
// that is corrupt or of another version is discarded.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	f := &File{
		dir:      dir,
		manifest: fileManifest{Version: fileManifestVersion, Entries: make(map[string]*fileEntry)},
		now:      time.Now,
	}

	data, err := os.ReadFile(f.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading cache manifest: %w", err)
	}
	var m fileManifest
	if err := json.Unmarshal(data, &m); err != nil || m.Version != fileManifestVersion {
		return f, nil
	}
	if m.Entries == nil {
		m.Entries = make(map[string]*fileEntry)
	}
	f.manifest = m
	return f, nil
}

func (f *File) manifestPath() string {
	return filepath.Join(f.dir, "manifest.json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.manifest.Entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if e.Expires != 0 && f.now().Unix() >= e.Expires {
		f.evict(key, e)
		return nil, ErrMiss
	}
	data, err := os.ReadFile(filepath.Join(f.dir, e.Filename))
	if err != nil {
		if os.IsNotExist(err) {
			delete(f.manifest.Entries, key)
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, nil
}

func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &fileEntry{Filename: key + ".bin", Size: len(value)}
	if ttl > 0 {
		e.Expires = f.now().Add(ttl).Unix()
	}
	if err := os.WriteFile(filepath.Join(f.dir, e.Filename), value, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	f.manifest.Entries[key] = e
	return f.saveManifest()
}

func (f *File) evict(key string, e *fileEntry) {
	delete(f.manifest.Entries, key)
	_ = os.Remove(filepath.Join(f.dir, e.Filename))
}

// Close writes the manifest.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveManifest()
}

func (f *File) saveManifest() error {
	data, err := json.MarshalIndent(f.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cache manifest: %w", err)
	}
	return os.WriteFile(f.manifestPath(), data, 0o644)
}
