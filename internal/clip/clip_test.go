package clip

import (
	"errors"
	"testing"
)

func TestReadRetryRecoversFromTransientFailure(t *testing.T) {
	attempts := 0
	got, err := readRetry(func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("clipboard busy")
		}
		return "hello", nil
	})
	if err != nil {
		t.Fatalf("readRetry() error = %v", err)
	}
	if got != "hello" || attempts != 3 {
		t.Fatalf("got %q after %d attempts", got, attempts)
	}
}

func TestReadRetryGivesUp(t *testing.T) {
	busy := errors.New("clipboard busy")
	attempts := 0
	_, err := readRetry(func() (string, error) {
		attempts++
		return "", busy
	})
	if !errors.Is(err, busy) {
		t.Fatalf("readRetry() error = %v, want %v", err, busy)
	}
	if attempts != retryAttempts {
		t.Fatalf("attempts = %d, want %d", attempts, retryAttempts)
	}
}

// An empty clipboard is an answer, not a transient failure — no retries.
func TestReadRetryDoesNotRetryNoText(t *testing.T) {
	attempts := 0
	_, err := readRetry(func() (string, error) {
		attempts++
		return "", ErrNoText
	})
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("readRetry() error = %v, want ErrNoText", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestWriteRetry(t *testing.T) {
	attempts := 0
	err := writeRetry(func() error {
		attempts++
		if attempts < 2 {
			return errors.New("clipboard busy")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("writeRetry() error = %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestHeadlessBackend(t *testing.T) {
	b := &headlessBackend{watchCh: make(chan struct{})}
	if _, err := b.ReadText(); !errors.Is(err, ErrNoText) {
		t.Fatalf("ReadText() error = %v, want ErrNoText", err)
	}
	if err := b.WriteText("dropped"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	select {
	case <-b.Watch():
		t.Fatal("headless backend must never produce watch events")
	default:
	}
}
