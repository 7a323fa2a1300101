package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the store when the catalog file changes, which in turn
// notifies the store's listeners. It watches the parent directory so editors
// that replace the file by rename are seen.
type Watcher struct {
	store  *Store
	fs     *fsnotify.Watcher
	target string
	settle time.Duration
	logger zerolog.Logger

	closeOnce sync.Once
}

// NewWatcher starts watching the directory of the store's catalog
func NewWatcher(store *Store, settle time.Duration, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	target, err := filepath.Abs(store.Path())
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	return &Watcher{
		store:  store,
		fs:     fsw,
		target: target,
		settle: settle,
		logger: logger,
	}, nil
}

// Run processes file events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	var settle *time.Timer
	var settleC <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("catalog file event")
			if w.settle <= 0 {
				w.reload()
				continue
			}
			if settle == nil {
				settle = time.NewTimer(w.settle)
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(w.settle)
			}
			settleC = settle.C

		case <-settleC:
			settleC = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

// Close stops the underlying file watcher
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) reload() {
	if err := w.store.Refresh(); err != nil {
		// Removed or half-written files are picked up by the next event or poll
		w.logger.Warn().Err(err).Msg("catalog reload after file event failed")
	}
}
