package local

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Changes reports writes to the database, from this process or another.
// Bursts of writes are coalesced into one signal per debounce window.
// The channel is closed when ctx is done.
func (b *Backend) Changes(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch data dir: %w", err)
	}
	if err := w.Add(b.dataDir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch data dir: %w", err)
	}

	out := make(chan struct{}, 1)
	go b.watchLoop(ctx, w, out)
	return out, nil
}

func (b *Backend) watchLoop(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer w.Close()

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
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), DBName) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(b.debounce)
			} else {
				timer.Reset(b.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default: // a signal is already pending
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			b.logger.Warn("watch error", "op", "changes", "err", err)
		}
	}
}
