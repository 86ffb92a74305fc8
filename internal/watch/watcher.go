// Package watch rebuilds the in-memory corpus when chapter files change.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 300 * time.Millisecond

// Watcher monitors a chapter directory and invokes a rebuild callback
// after file changes settle. Editors fire several events per save, so
// events are debounced before the callback runs.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *log.Logger
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, logger *log.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, logger: logger}, nil
}

// Run blocks until ctx is cancelled, calling onChange after each settled
// burst of .md file events.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".md" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Printf("Change detected: %s (%s)", filepath.Base(event.Name), event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
