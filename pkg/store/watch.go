package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventPlanChanged means tasks of Plan were added, edited or removed.
	EventPlanChanged EventType = iota

	// EventPlansInvalidated means the change could not be tied to one plan
	// (a new plan directory, the plan index, a watcher error); reload
	// everything.
	EventPlansInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Plan string
}

// Affects reports whether a view of plan should reload for ev.
func (ev Event) Affects(plan string) bool {
	return ev.Type == EventPlansInvalidated || ev.Plan == plan
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	dirs := &dirSet{w: w, seen: map[string]bool{}}
	if err := dirs.addTree(p.basePath); err != nil {
		dirs.close()
		return nil, err
	}

	events := make(chan Event, 64)
	send := func(ev Event) {
		select {
		case events <- ev:
		default:
			// consumer is behind; the next reload catches up
		}
	}

	go func() {
		defer close(events)
		defer dirs.close()
		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Debug("store: watcher error", "err", err)
				throttle.Enqueue(Event{Type: EventPlansInvalidated}, send)
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create != 0 && dirs.addIfDir(evt.Name) {
					throttle.Enqueue(Event{Type: EventPlansInvalidated}, send)
					continue
				}
				throttle.Enqueue(p.classify(evt.Name), send)
			}
		}
	}()

	return events, nil
}

// dirSet is the set of directories under watch. Plans live in their own
// directories, so new ones are picked up as they appear.
type dirSet struct {
	w    *fsnotify.Watcher
	seen map[string]bool
	once sync.Once
}

func (d *dirSet) addTree(base string) error {
	found, err := collectDirs(base)
	if err != nil {
		return fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range found {
		if err := d.w.Add(dir); err != nil {
			return fmt.Errorf("store: watch %s: %w", dir, err)
		}
		d.seen[dir] = true
	}
	return nil
}

// addIfDir starts watching path when it is a directory and reports whether
// it was one.
func (d *dirSet) addIfDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	dir := filepath.Clean(path)
	if !d.seen[dir] {
		if err := d.w.Add(dir); err != nil {
			slog.Warn("store: watch directory", "dir", dir, "err", err)
		} else {
			d.seen[dir] = true
		}
	}
	return true
}

func (d *dirSet) close() {
	d.once.Do(func() {
		if err := d.w.Close(); err != nil {
			slog.Warn("store: watcher close", "err", err)
		}
	})
}

// classify turns a changed path into the event views react to.
func (p *persistence) classify(path string) Event {
	if plan := p.planForPath(path); plan != "" {
		return Event{Type: EventPlanChanged, Plan: plan}
	}
	return Event{Type: EventPlansInvalidated}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// planForPath derives the plan from a diskv path.
func (p *persistence) planForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return ""
	}
	if rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) == 0 {
		return ""
	}
	encoded := parts[0]
	if len(parts) < 2 || encoded == "" || strings.HasPrefix(encoded, ".") {
		return ""
	}
	return fromPlan(encoded)
}

// eventThrottle coalesces a burst of writes into one event per plan.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{} // type -> plans
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	key := ev.Plan
	t.pending[ev.Type][key] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	if _, ok := pending[EventPlansInvalidated]; ok {
		send(Event{Type: EventPlansInvalidated})
		return
	}
	for plan := range pending[EventPlanChanged] {
		send(Event{Type: EventPlanChanged, Plan: plan})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
