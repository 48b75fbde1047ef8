package server

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors post directories and reports the files that changed.
// Changes arriving within the debounce interval are coalesced into a single
// callback that lists every changed path once.
type Watcher struct {
	paths    []string
	onChange func(paths []string)
	debounce time.Duration
	log      zerolog.Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewWatcher creates a Watcher for paths. onChange receives the changed
// paths, sorted, after they have been quiet for debounce.
func NewWatcher(paths []string, debounce time.Duration, logger zerolog.Logger, onChange func(paths []string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: debounce,
		log:      logger.With().Str("component", "watcher").Logger(),
		done:     make(chan struct{}),
		pending:  make(map[string]struct{}),
	}
}

// Start begins watching. It blocks until Stop is called or a fatal error
// occurs.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	// fsnotify does not watch recursively; subdirectories are added one by
	// one, now and as they are created.
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			w.log.Warn().Str("path", p).Msg("watch path does not exist")
			continue
		}
		if info.IsDir() {
			err = w.addRecursive(p)
		} else {
			err = fsw.Add(p)
		}
		if err != nil {
			w.log.Warn().Err(err).Str("path", p).Msg("failed to watch")
		}
	}

	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					continue
				}
			}

			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.flush)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return fsw.Close()
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.log.Debug().Strs("paths", paths).Msg("posts changed")
	w.onChange(paths)
}

// Stop signals the watcher to stop monitoring files.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}

// addRecursive adds a directory and its subdirectories to the watcher.
// Hidden directories such as .git or the file cache are left out.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
