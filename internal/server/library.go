package server

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fotoroute/internal/feed"
	"fotoroute/internal/logging"
	"fotoroute/internal/model"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Library is a scanned photo directory whose route is kept in memory.
type Library struct {
	Root    string
	Pattern string
	Log     logrus.FieldLogger

	mu      sync.RWMutex
	route   *model.Route
	scanned time.Time
}

func NewLibrary(root string, log logrus.FieldLogger) *Library {
	if log == nil {
		log = logging.Discard()
	}
	return &Library{Root: root, Log: log}
}

func (l *Library) source() feed.DirSource {
	return feed.DirSource{Root: l.Root, Pattern: l.Pattern, Log: l.Log}
}

// Rescan rebuilds the route from disk.
func (l *Library) Rescan(ctx context.Context) error {
	r, err := l.source().Route(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.route = r
	l.scanned = time.Now()
	l.mu.Unlock()
	l.Log.WithField("photos", len(r.Photos)).Info("library scanned")
	return nil
}

// Route returns the last scanned route, scanning first if needed.
func (l *Library) Route(ctx context.Context) (*model.Route, error) {
	l.mu.RLock()
	r := l.route
	l.mu.RUnlock()
	if r != nil {
		return r, nil
	}
	if err := l.Rescan(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.route, nil
}

// Path resolves a library-relative filename to a path inside Root.
func (l *Library) Path(filename string) (string, error) {
	name, err := feed.CleanName(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.Root, name), nil
}

// Watch rescans after changes settle for debounce. It blocks until ctx is done.
// New subdirectories are watched as they appear.
func (l *Library) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := addDirs(w, l.Root); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// Best effort; a failed add only means a missed rescan.
				_ = addDirs(w, ev.Name)
			}
			if ev.Op.Has(fsnotify.Chmod) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Log.WithError(err).Error("fsnotify watcher error")
		case <-timerCh:
			timerCh = nil
			if err := l.Rescan(ctx); err != nil {
				l.Log.WithError(err).Warn("rescan failed")
			}
		}
	}
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
