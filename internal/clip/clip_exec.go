package clip

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"
)

// execBackend shells out to the platform clipboard helper (xclip/xsel on
// X11, wl-clipboard on Wayland, pbcopy/pbpaste on macOS) via
// atotto/clipboard. Slower than the native backend but needs no cgo.
type execBackend struct {
	watchCh  chan struct{}
	done     chan struct{}
	interval time.Duration
	lastText string
}

func newExecBackend(pollInterval time.Duration) (Backend, error) {
	if clipboard.Unsupported {
		return nil, errors.New("no clipboard helper found (xclip/xsel/wl-clipboard)")
	}
	last, _ := clipboard.ReadAll()
	b := &execBackend{
		watchCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		interval: pollInterval,
		lastText: last,
	}
	go b.poll()
	return b, nil
}

func (b *execBackend) Name() string { return "exec clipboard (poll)" }

func (b *execBackend) poll() {
	t := time.NewTicker(b.interval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text, err := clipboard.ReadAll()
			if err != nil {
				continue
			}
			if text != b.lastText {
				b.lastText = text
				select {
				case b.watchCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *execBackend) ReadText() (string, error) {
	return readRetry(func() (string, error) {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", ErrNoText
		}
		return text, nil
	})
}

func (b *execBackend) WriteText(text string) error {
	return writeRetry(func() error {
		return clipboard.WriteAll(text)
	})
}

func (b *execBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *execBackend) Close()                 { close(b.done) }
