package ui

import (
	"context"
	"os"
	"time"
)

// Watcher polls the modification times of the project's Java files and
// rescans when a file appears, changes or disappears.
type Watcher struct {
	server       *Server
	files        func() ([]string, error)
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewWatcher(s *Server, files func() ([]string, error), pollInterval time.Duration) *Watcher {
	return &Watcher{
		server:       s,
		files:        files,
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

// Run polls until ctx is done. The first poll only records the current
// state unless an earlier call already did.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if len(w.modTimes) == 0 {
		w.changed()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.changed() {
				if err := w.server.Rescan(ctx); err != nil {
					log.Warningf("rescan: %s", err)
				}
			}
		}
	}
}

// changed records the current modification times and reports whether they
// differ from the previous poll.
func (w *Watcher) changed() bool {
	paths, err := w.files()
	if err != nil {
		log.Warningf("list files: %s", err)
		return false
	}

	changed := false
	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true
		lastMod, known := w.modTimes[path]
		if !known || !info.ModTime().Equal(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = true
		}
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			changed = true
		}
	}
	return changed
}
