package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fsEvent is a file-system change notification
type fsEvent struct {
	Name string
	Op   fsnotify.Op
}

// fsWatcher abstracts the notification source so Watch can be driven
// without a real file system in tests
type fsWatcher interface {
	Add(path string) error
	Close() error
	Events() <-chan fsEvent
	Errors() <-chan error
}

// fsnotifyWatcher wraps fsnotify.Watcher to implement fsWatcher
type fsnotifyWatcher struct {
	watcher   *fsnotify.Watcher
	events    chan fsEvent
	errors    chan error
	done      chan struct{}
	closeOnce sync.Once
}

// newFSWatcher creates a new file system watcher using fsnotify
func newFSWatcher() (fsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fsnotifyWatcher{
		watcher: w,
		events:  make(chan fsEvent),
		errors:  make(chan error),
		done:    make(chan struct{}),
	}

	// Forward events until the watcher is closed
	go func() {
		defer close(fw.events)
		defer close(fw.errors)
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				select {
				case fw.events <- fsEvent{Name: event.Name, Op: event.Op}:
				case <-fw.done:
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case fw.errors <- err:
				case <-fw.done:
					return
				}
			case <-fw.done:
				return
			}
		}
	}()

	return fw, nil
}

func (w *fsnotifyWatcher) Add(path string) error {
	return w.watcher.Add(path)
}

func (w *fsnotifyWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *fsnotifyWatcher) Events() <-chan fsEvent {
	return w.events
}

func (w *fsnotifyWatcher) Errors() <-chan error {
	return w.errors
}

// Watch validates files under root as they are created or written and
// passes each report to fn. Events for one file are coalesced until no new
// event arrives for the debounce interval. Directories created while
// watching are watched too. Watch blocks until ctx is done and then returns
// nil; fn is called from Watch's goroutine.
func (s *Scanner) Watch(ctx context.Context, root string, fn func(Report)) error {
	w, err := newFSWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return s.watch(ctx, w, root, fn)
}

func (s *Scanner) watch(ctx context.Context, w fsWatcher, root string, fn func(Report)) error {
	defer w.Close()

	if err := s.addTree(w, root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	deb := newDebouncer(s.debounce)
	defer deb.stop()

	s.logger.Info("watching for changes", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if ev.Op&fsnotify.Create != 0 {
					if err := s.addTree(w, ev.Name); err != nil {
						s.logger.Warn("could not watch directory",
							slog.String("path", ev.Name),
							slog.Any("error", err))
					}
				}
				continue
			}
			if !info.Mode().IsRegular() || !s.selected(root, ev.Name) {
				continue
			}
			deb.schedule(ev.Name)

		case f := <-deb.ready:
			if !deb.take(f) {
				continue
			}
			report, err := s.ScanFile(ctx, f.path)
			if err != nil {
				// Only cancellation reaches here
				return nil
			}
			fn(report)

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// addTree watches dir and every directory below it.
func (s *Scanner) addTree(w fsWatcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}

// fired is sent by a debounce timer. gen identifies the timer so a callback
// that was already running when its path was rescheduled can be dropped.
type fired struct {
	path string
	gen  uint64
}

type pendingScan struct {
	timer *time.Timer
	gen   uint64
}

// debouncer coalesces events per path. Its methods are called from the
// watch goroutine; timer callbacks only send on ready.
type debouncer struct {
	delay   time.Duration
	ready   chan fired
	done    chan struct{}
	pending map[string]pendingScan
	gen     uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		ready:   make(chan fired),
		done:    make(chan struct{}),
		pending: make(map[string]pendingScan),
	}
}

// schedule starts a fresh timer for path, replacing any earlier one. A
// replaced timer whose callback already fired still delivers; take drops it.
func (d *debouncer) schedule(path string) {
	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
	}
	d.gen++
	f := fired{path: path, gen: d.gen}
	t := time.AfterFunc(d.delay, func() {
		select {
		case d.ready <- f:
		case <-d.done:
		}
	})
	d.pending[path] = pendingScan{timer: t, gen: f.gen}
}

// take reports whether f comes from the current timer for its path and, if
// so, clears the path.
func (d *debouncer) take(f fired) bool {
	p, ok := d.pending[f.path]
	if !ok || p.gen != f.gen {
		return false
	}
	delete(d.pending, f.path)
	return true
}

// stop cancels pending timers and releases callbacks blocked on ready.
func (d *debouncer) stop() {
	close(d.done)
	for _, p := range d.pending {
		p.timer.Stop()
	}
}
