package clip

import (
	"bytes"
	"fmt"
	"time"

	"golang.design/x/clipboard"
)

// displayBackend talks to the native clipboard via golang.design/x/clipboard.
// Change notification is implemented by polling, matching the trigger model
// across all platforms.
type displayBackend struct {
	watchCh  chan struct{}
	done     chan struct{}
	interval time.Duration
	lastText []byte
}

// newDisplayBackend initialises the native clipboard. Fails on headless
// hosts (no X11/Wayland) and when the binary was built without cgo.
func newDisplayBackend(pollInterval time.Duration) (Backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	b := &displayBackend{
		watchCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		interval: pollInterval,
		lastText: clipboard.Read(clipboard.FmtText),
	}
	go b.poll()
	return b, nil
}

func (b *displayBackend) Name() string { return "native clipboard (poll)" }

func (b *displayBackend) poll() {
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text := clipboard.Read(clipboard.FmtText)
			if !bytes.Equal(text, b.lastText) {
				b.lastText = text
				select {
				case b.watchCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *displayBackend) ReadText() (string, error) {
	return readRetry(func() (string, error) {
		text := clipboard.Read(clipboard.FmtText)
		if len(text) == 0 {
			return "", ErrNoText
		}
		return string(text), nil
	})
}

func (b *displayBackend) WriteText(text string) error {
	// The poller will fire for our own write; the engine's last-seen memory
	// absorbs that extra cycle.
	return writeRetry(func() error {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	})
}

func (b *displayBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *displayBackend) Close()                 { close(b.done) }
