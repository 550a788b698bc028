package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 200 * time.Millisecond

// Watcher coalesces filesystem events on the config file (and any
// additional directories, typically generator script folders) into a
// single debounced change signal.
type Watcher struct {
	fw     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
}

// NewWatcher starts watching the given paths. Nonexistent paths are
// skipped so a vault without a scripts directory still works.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: start watcher: %w", err)
	}
	watched := 0
	for _, path := range paths {
		if err := fw.Add(path); err == nil {
			watched++
		}
	}
	if watched == 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("config: nothing to watch")
	}
	w := &Watcher{
		fw:     fw,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events delivers one signal per debounced burst of changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fire = timer.C
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}
