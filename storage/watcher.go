package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/opencodereview/opencodereview/review"
)

// DefaultDebounceDelay is how long the watcher waits for further
// changes before reloading.
const DefaultDebounceDelay = 500 * time.Millisecond

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 16

// Event carries the result of reloading a watched review document.
type Event struct {
	// Path is the watched file.
	Path string

	// Review is the freshly loaded document, nil when Err is set.
	Review *review.Review

	// Err is the load failure, if any. The watcher keeps running.
	Err error
}

// Watcher reloads one review document whenever it changes on disk,
// debouncing bursts of writes. It watches the parent directory rather
// than the file itself, since editors commonly replace files on save.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	events   chan Event
}

// NewWatcher watches the review document at path. A non-positive
// debounce uses DefaultDebounceDelay; a nil logger uses slog.Default.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of reload results. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run processes filesystem events until the context is cancelled or
// the watcher is closed. Changes are debounced: the document is
// reloaded once per burst of writes.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("review file changed",
				slog.String("path", w.path),
				slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timerC:
			rev, err := Load(w.path)
			select {
			case w.events <- Event{Path: w.path, Review: rev, Err: err}:
			default:
				w.logger.Warn("dropping watch event, channel full",
					slog.String("path", w.path))
			}
		}
	}
}

// Close stops the underlying filesystem watcher, which unblocks Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
