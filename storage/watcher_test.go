package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencodereview/opencodereview/review"
)

func writeReviewFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "review.yaml")
	writeReviewFile(t, path, "version: \"0.1\"\nactivities:\n  - category: note\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeReviewFile(t, path, "version: \"0.1\"\nactivities:\n  - category: note\n  - category: closed\n")

	ev := waitForEvent(t, w.Events())
	require.NoError(t, ev.Err)
	assert.Equal(t, path, ev.Path)
	require.NotNil(t, ev.Review)
	assert.Equal(t, review.StatusClosed, ev.Review.Status())
}

func TestWatcher_ReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "review.yaml")
	writeReviewFile(t, path, "version: \"0.1\"\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeReviewFile(t, path, "activities:\n  - category: bogus\n")

	ev := waitForEvent(t, w.Events())
	require.Error(t, ev.Err)
	assert.Nil(t, ev.Review)

	// The watcher keeps running; a good write produces a good event.
	writeReviewFile(t, path, "activities:\n  - category: note\n")
	ev = waitForEvent(t, w.Events())
	require.NoError(t, ev.Err)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "review.yaml")
	writeReviewFile(t, path, "version: \"0.1\"\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeReviewFile(t, filepath.Join(dir, "other.yaml"), "unrelated: true\n")

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for sibling write: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ClosedChannelAfterCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "review.yaml")
	writeReviewFile(t, path, "version: \"0.1\"\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, open := <-w.Events()
	assert.False(t, open)
}
