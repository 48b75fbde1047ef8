package server

import (
	"sync"

	"github.com/aellingwood/excerpt/internal/post"
)

// store holds the posts loaded from the watched directories, by path.
type store struct {
	mu   sync.RWMutex
	docs map[string]*post.Document
}

func newStore() *store {
	return &store{docs: make(map[string]*post.Document)}
}

func (s *store) put(d *post.Document) {
	s.mu.Lock()
	s.docs[d.Path] = d
	s.mu.Unlock()
}

func (s *store) remove(path string) {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
}

// find returns the newest document with the given slug.
func (s *store) find(slug string) (*post.Document, bool) {
	for _, d := range s.list() {
		if d.Slug == slug {
			return d, true
		}
	}
	return nil, false
}

// list returns the documents newest first, then by path.
func (s *store) list() []*post.Document {
	s.mu.RLock()
	docs := make([]*post.Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	post.SortNewest(docs)
	return docs
}
