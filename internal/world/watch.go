package world

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const levelReloadDebounce = 100 * time.Millisecond

// LevelWatcher reloads a level file when it changes on disk. The directory is
// watched instead of the file so editors that replace the file on save are
// still seen.
type LevelWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	Levels  chan Level
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	done    chan struct{}
}

func WatchLevel(path string) (*LevelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	lw := &LevelWatcher{
		path:    abs,
		watcher: w,
		Levels:  make(chan Level, 4),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go lw.run()
	return lw, nil
}

func (w *LevelWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Levels)
		close(w.Errors)
	})
	return err
}

func (w *LevelWatcher) run() {
	defer close(w.done)
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Saves often arrive as several events; load once they settle.
			if timer == nil {
				timer = time.NewTimer(levelReloadDebounce)
			} else {
				timer.Reset(levelReloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			level, err := LoadLevel(w.path)
			if err != nil {
				w.sendError(err)
				continue
			}
			slog.Info("Level reloaded", "path", w.path, "pillars", len(level.Pillars), "spawns", len(level.Spawns))
			select {
			case w.Levels <- level:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *LevelWatcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
		slog.Warn("Level watcher error dropped", "error", err)
	}
}
