package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher triggers a callback when batch files in the inbox change.
// Bursts of events are collapsed into one call after the debounce delay.
type Watcher struct {
	dir      string
	patterns []string
	debounce time.Duration
	logger   *zap.Logger
	onChange func(ctx context.Context)
}

// NewWatcher creates an inbox watcher for cfg.WatchDir.
func NewWatcher(cfg Config, logger *zap.Logger, onChange func(ctx context.Context)) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		dir:      cfg.WatchDir,
		patterns: cfg.WatchPatterns,
		debounce: debounce,
		logger:   logger,
		onChange: onChange,
	}
}

// Matches reports whether a path relative to the inbox is a batch file.
func (w *Watcher) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	err = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.logger.Info("Watching source inbox",
		zap.String("dir", w.dir),
		zap.Strings("patterns", w.patterns),
		zap.Duration("debounce", w.debounce),
	)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fsw.Add(event.Name)
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(w.dir, event.Name)
			if err != nil || !w.Matches(rel) {
				continue
			}

			w.logger.Debug("Inbox change", zap.String("path", rel), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Inbox watcher error", zap.Error(err))
		}
	}
}
