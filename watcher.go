package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const catalogDebounce = 250 * time.Millisecond

// catalogWatcher reports writes to the catalog database, including its WAL
// and journal files, coalesced over a short debounce window.
type catalogWatcher struct {
	w       *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
	log     *slog.Logger
}

func watchCatalog(path string, debounce time.Duration, log *slog.Logger) (*catalogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	cw := &catalogWatcher{
		w:       w,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	go cw.run(filepath.Base(path), debounce)
	return cw, nil
}

func (cw *catalogWatcher) run(base string, debounce time.Duration) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case cw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.log.Warn("catalog watcher error", slog.Any("error", err))
		case <-cw.done:
			return
		}
	}
}

func (cw *catalogWatcher) Changes() <-chan struct{} {
	return cw.changed
}

func (cw *catalogWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		err = cw.w.Close()
	})
	return err
}

// waitForCatalogChange blocks until the next change. It yields nil once
// the watcher is closed.
func waitForCatalogChange(cw *catalogWatcher) tea.Cmd {
	if cw == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-cw.done:
			return nil
		default:
		}
		select {
		case <-cw.changed:
			return catalogChangedMsg{}
		case <-cw.done:
			return nil
		}
	}
}
