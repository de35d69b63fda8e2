// Package clip provides a unified text clipboard across platforms. Backend
// selection at runtime:
//
//	clip_display.go — golang.design/x/clipboard (X11/cgo, Windows, macOS)
//	clip_exec.go    — atotto/clipboard, shells out to xclip/xsel/pbcopy
//	headless        — no-op stub for containers and CI
//
// The OS clipboard can be transiently locked by another process, so Read and
// Write retry a bounded number of times and then give up — a failed cycle is
// skipped, never fatal.
package clip

import (
	"errors"
	"log/slog"
	"time"
)

// ErrNoText is returned by ReadText when the clipboard holds no text.
var ErrNoText = errors.New("clipboard holds no text")

const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// Backend is the interface all clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. Returns ErrNoText when
	// the clipboard is empty or holds a non-text format.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Watch returns a channel that receives a signal whenever the clipboard
	// changes. The channel is never closed; sends are coalescing. All current
	// backends implement this by polling.
	Watch() <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}

// New selects the best available backend: the display backend when the
// native clipboard initialises, otherwise the exec backend when a helper
// tool is present, otherwise a headless no-op.
func New(pollInterval time.Duration) Backend {
	if b, err := newDisplayBackend(pollInterval); err == nil {
		return b
	} else {
		slog.Debug("display clipboard unavailable", "err", err)
	}
	if b, err := newExecBackend(pollInterval); err == nil {
		return b
	} else {
		slog.Debug("exec clipboard unavailable", "err", err)
	}
	slog.Warn("no clipboard available, running headless")
	return &headlessBackend{watchCh: make(chan struct{})}
}

// readRetry calls read until it succeeds, the clipboard is confirmed empty,
// or the attempts run out.
func readRetry(read func() (string, error)) (string, error) {
	var err error
	for i := 0; i < retryAttempts; i++ {
		if i > 0 {
			time.Sleep(retryBackoff)
		}
		var s string
		s, err = read()
		if err == nil || errors.Is(err, ErrNoText) {
			return s, err
		}
	}
	return "", err
}

// writeRetry calls write until it succeeds or the attempts run out.
func writeRetry(write func() error) error {
	var err error
	for i := 0; i < retryAttempts; i++ {
		if i > 0 {
			time.Sleep(retryBackoff)
		}
		if err = write(); err == nil {
			return nil
		}
	}
	return err
}

// headlessBackend is a no-op for environments without any clipboard
// (headless servers, containers). It never produces Watch events and
// silently discards writes.
type headlessBackend struct {
	watchCh chan struct{}
}

func (b *headlessBackend) Name() string              { return "headless (no-op)" }
func (b *headlessBackend) ReadText() (string, error) { return "", ErrNoText }
func (b *headlessBackend) WriteText(string) error    { return nil }
func (b *headlessBackend) Watch() <-chan struct{}    { return b.watchCh }
func (b *headlessBackend) Close()                    {}
