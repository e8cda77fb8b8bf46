// Package reload re-applies the live-tunable configuration (the log level)
// when the config file changes or SIGHUP is received.
package reload

import (
	"context"
	"crypto/sha256"
	"os"
	"sync"
	"time"
)

const defaultPollInterval = 5 * time.Second

// Event reports that the watched file now has different content.
type Event struct {
	Path string
	Sum  [sha256.Size]byte
}

// fingerprint is what the watcher remembers about the file between polls.
// modTime and size gate the read; sum decides whether content changed.
type fingerprint struct {
	modTime time.Time
	size    int64
	sum     [sha256.Size]byte
}

// Watcher polls the config file selected at start-up and emits an Event
// when its content changes. A touch, or a rewrite with identical bytes, is
// not a change. Pending events coalesce: Events holds at most one.
type Watcher struct {
	path     string
	interval time.Duration
	events   chan Event

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher watches path every interval, or every 5s when interval is zero.
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{
		path:     path,
		interval: interval,
		events:   make(chan Event, 1),
	}
}

// Start begins polling. The content present at Start is the baseline.
// Calls after the first are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	baseline, _ := w.check(fingerprint{})
	go w.poll(ctx, baseline)
}

// Events returns the change notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop ends polling and waits for it to finish. Safe to call repeatedly
// and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Watcher) poll(ctx context.Context, last fingerprint) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		next, changed := w.check(last)
		last = next
		if !changed {
			continue
		}
		select {
		case w.events <- Event{Path: w.path, Sum: next.sum}:
		default:
		}
	}
}

// check compares the file against last. The file is only read when its
// mtime or size moved. A missing or unreadable file keeps last, so an
// editor's write-then-rename does not register as two changes.
func (w *Watcher) check(last fingerprint) (fingerprint, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return last, false
	}
	if info.ModTime().Equal(last.modTime) && info.Size() == last.size {
		return last, false
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return last, false
	}
	next := fingerprint{modTime: info.ModTime(), size: info.Size(), sum: sha256.Sum256(data)}
	return next, next.sum != last.sum
}
