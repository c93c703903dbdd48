package cuelist

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/robmorgan/halo-cues/logger"
)

// ShowWatcher re-reads a show file whenever it changes on disk.
type ShowWatcher struct {
	path     string
	debounce time.Duration
	onChange func(*Show)
	watcher  *fsnotify.Watcher
	logger   *logrus.Entry
}

// NewShowWatcher watches path. onChange receives every show successfully read after a
// burst of writes has been quiet for debounce; a file that fails to parse is logged and
// skipped.
func NewShowWatcher(path string, debounce time.Duration, onChange func(*Show)) (*ShowWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve show path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &ShowWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  watcher,
		logger:   logger.GetProjectLogger().WithFields(logrus.Fields{"path": abs}),
	}, nil
}

// Run delivers changes until ctx is done, then closes the watcher.
func (w *ShowWatcher) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("Watching show file")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Show watcher shutdown")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Show watcher error")
		}
	}
}

func (w *ShowWatcher) reload() {
	show, err := LoadShowFile(w.path)
	if err != nil {
		w.logger.WithError(err).Error("Failed to reload show")
		return
	}
	w.logger.WithFields(logrus.Fields{"cues": len(show.Cues)}).Info("Reloaded show")
	w.onChange(show)
}
