// Package watch reports edits to a fixed set of files.
package watch

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals on Changed whenever one of its files is written, created
// or renamed into place. Bursts of events collapse into one pending signal.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
}

// New watches paths. Their parent directories are watched so that editors
// that save by renaming a temporary file are still noticed.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]bool, len(paths)),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Println("watch error:", err)
		}
	}
}

// Changed fires after one or more watched files changed.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
