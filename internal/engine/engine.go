// Package engine implements the single-shot reformat decision: given the
// current clipboard text, decide whether it is a Zotero citation, transform
// it for the active output mode, and remember what was seen so the engine
// never retriggers on content it produced itself.
package engine

import (
	"log/slog"
	"slices"
	"sync"

	"go.klb.dev/zotclip/internal/citation"
	"go.klb.dev/zotclip/internal/prefs"
)

// Kind classifies the result of one Process call.
type Kind int

const (
	// Unchanged — empty input, already-seen input, or a transformation
	// that produced no change (including an unknown mode).
	Unchanged Kind = iota
	// NotACitation — new content that does not match the citation shape.
	NotACitation
	// Reformatted — the clipboard should be replaced with Transformed.
	Reformatted
)

func (k Kind) String() string {
	switch k {
	case NotACitation:
		return "not-a-citation"
	case Reformatted:
		return "reformatted"
	default:
		return "unchanged"
	}
}

// Outcome is the result of one Process call. Original and Transformed are
// set only for Reformatted.
type Outcome struct {
	Kind        Kind
	Original    string
	Transformed string
}

// Observer is notified after every successful reformat.
type Observer func(original, transformed string)

// Engine decides and transforms. Safe for concurrent Process calls — the
// check-and-update of the last-seen text is serialized by a mutex, so two
// overlapping triggers cannot both decide "changed".
type Engine struct {
	store *prefs.Store

	mu        sync.Mutex
	lastSeen  string
	observers []Observer
}

// New returns an Engine reading the active mode from store.
func New(store *prefs.Store) *Engine {
	return &Engine{store: store}
}

// AddObserver registers fn to run synchronously after each reformat, in
// registration order. A panicking observer is logged and skipped; it never
// blocks later observers or the caller's outcome.
func (e *Engine) AddObserver(fn Observer) {
	e.mu.Lock()
	e.observers = append(e.observers, fn)
	e.mu.Unlock()
}

// Process examines text and returns what, if anything, should happen to the
// clipboard. It does not touch the clipboard itself: on Reformatted the
// caller writes Outcome.Transformed back. The last-seen memory is advanced
// to the transformed text so the engine's own write-back does not retrigger.
func (e *Engine) Process(text string) Outcome {
	e.mu.Lock()

	if text == "" || text == e.lastSeen {
		e.mu.Unlock()
		return Outcome{Kind: Unchanged}
	}
	e.lastSeen = text

	m, ok := citation.Parse(text)
	if !ok {
		e.mu.Unlock()
		return Outcome{Kind: NotACitation}
	}

	out, ok := m.Render(e.store.Mode())
	if !ok || out == text {
		e.mu.Unlock()
		return Outcome{Kind: Unchanged}
	}

	e.lastSeen = out
	// Snapshot so observers run outside the lock — an observer may call back
	// into the engine without deadlocking.
	observers := slices.Clone(e.observers)
	e.mu.Unlock()

	for _, fn := range observers {
		notify(fn, text, out)
	}
	return Outcome{Kind: Reformatted, Original: text, Transformed: out}
}

// notify runs one observer, containing any panic.
func notify(fn Observer, original, transformed string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("observer panicked", "panic", r)
		}
	}()
	fn(original, transformed)
}
