package gamedata

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tftnerd/internal/logging"
)

// Watch reloads the store whenever the scraper rewrites one of the data
// files, then invokes each onReload hook. It blocks until ctx is done.
// Reloads are debounced because a scrape run touches several files back
// to back.
func (s *Store) Watch(ctx context.Context, onReload ...func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	tracked := map[string]bool{
		s.championsFile: true,
		s.traitsFile:    true,
		s.compsFile:     true,
	}

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !tracked[filepath.Base(event.Name)] {
				continue
			}
			logging.Data("data file changed: %s", event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.Load(); err != nil {
				logging.Get(logging.CategoryData).Warn("reload after change failed: %v", err)
				continue
			}
			for _, hook := range onReload {
				hook()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryData).Warn("watcher error: %v", err)
		}
	}
}
