package mcpserver

import (
	"sync"
	"time"

	"github.com/aellingwood/excerpt/internal/post"
)

// PostContext holds the posts of a directory, loaded on first use and
// reloaded after MarkDirty.
type PostContext struct {
	mu       sync.RWMutex
	dir      string
	docs     []*post.Document
	problems []string
	loadedAt time.Time
	dirty    bool
}

// NewPostContext creates a PostContext for dir.
func NewPostContext(dir string) *PostContext {
	return &PostContext{dir: dir, dirty: true}
}

// Load returns the posts, reloading them if dirty. Posts that fail to load
// are left out and reported by Problems.
func (pc *PostContext) Load() []*post.Document {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.dirty && !pc.loadedAt.IsZero() {
		return pc.docs
	}

	pc.docs, pc.problems = nil, nil
	if pc.dir != "" {
		docs, err := post.LoadDir(pc.dir)
		pc.docs = docs
		if err != nil {
			pc.problems = append(pc.problems, err.Error())
		}
	}
	pc.loadedAt = time.Now()
	pc.dirty = false
	return pc.docs
}

// Problems returns the load errors of the last Load.
func (pc *PostContext) Problems() []string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.problems
}

// Find returns the loaded post with the given slug.
func (pc *PostContext) Find(slug string) (*post.Document, bool) {
	for _, d := range pc.Load() {
		if d.Slug == slug {
			return d, true
		}
	}
	return nil, false
}

// MarkDirty marks the context as needing a reload.
func (pc *PostContext) MarkDirty() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.dirty = true
}
