package paging

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// DefaultPageSize is the page size every listing endpoint is called with
const DefaultPageSize = 10

// Fetcher retrieves the page a ticket addresses
type Fetcher[T any, S comparable] func(ctx context.Context, t Ticket[S]) (Page[T], error)

// ErrorReporter receives fetch failures. Loads are never retried automatically.
type ErrorReporter interface {
	ReportError(name string, cursor int, err error)
}

// SlogReporter logs fetch failures at error level
type SlogReporter struct {
	Logger *slog.Logger
}

// ReportError implements ErrorReporter
func (r SlogReporter) ReportError(name string, cursor int, err error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("page load failed", "list", name, "page", cursor, "error", err)
}

// Loader owns the listing state of one view
type Loader[T any, S comparable] struct {
	name     string
	size     int
	fetch    Fetcher[T, S]
	reporter ErrorReporter

	mu    sync.Mutex
	state State[T, S]
}

// New creates a loader for the initial selection. size <= 0 uses
// DefaultPageSize; a nil reporter logs through slog.Default.
func New[T any, S comparable](name string, size int, selection S, fetch Fetcher[T, S], reporter ErrorReporter) *Loader[T, S] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if reporter == nil {
		reporter = SlogReporter{}
	}
	return &Loader[T, S]{
		name:     name,
		size:     size,
		fetch:    fetch,
		reporter: reporter,
		state:    NewState[T](selection),
	}
}

// Name returns the list name used in logs
func (l *Loader[T, S]) Name() string { return l.name }

// PageSize returns the fixed page size
func (l *Loader[T, S]) PageSize() int { return l.size }

// Begin claims the next page. ok is false when a fetch is in flight or the
// listing is exhausted; the caller must then do nothing.
func (l *Loader[T, S]) Begin() (Ticket[S], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		t  Ticket[S]
		ok bool
	)
	l.state, t, ok = l.state.Begin(l.size)
	return t, ok
}

// Fetch runs the fetcher for a ticket without touching state
func (l *Loader[T, S]) Fetch(ctx context.Context, t Ticket[S]) (Page[T], error) {
	return l.fetch(ctx, t)
}

// Complete applies the result of a fetch started with Begin
func (l *Loader[T, S]) Complete(t Ticket[S], page Page[T], err error) Outcome {
	l.mu.Lock()
	var outcome Outcome
	if err != nil {
		l.state, outcome = l.state.Fail(t)
	} else {
		l.state, outcome = l.state.Receive(t, page)
	}
	l.mu.Unlock()

	if outcome == OutcomeFailed {
		l.reporter.ReportError(l.name, t.Cursor, err)
	}
	return outcome
}

// LoadNext fetches the next page synchronously
func (l *Loader[T, S]) LoadNext(ctx context.Context) (Outcome, error) {
	t, ok := l.Begin()
	if !ok {
		return OutcomeSkipped, nil
	}
	page, err := l.fetch(ctx, t)
	outcome := l.Complete(t, page, err)
	if outcome == OutcomeFailed {
		return outcome, err
	}
	return outcome, nil
}

// Reset empties the listing under the current selection
func (l *Loader[T, S]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = l.state.Reset()
}

// Select switches the selection, resetting the listing when it changed
func (l *Loader[T, S]) Select(selection S) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var changed bool
	l.state, changed = l.state.Select(selection)
	return changed
}

// Snapshot returns a copy of the current state
func (l *Loader[T, S]) Snapshot() State[T, S] {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state
	s.Items = slices.Clone(s.Items)
	return s
}

// Items returns a copy of the accumulated items
func (l *Loader[T, S]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.state.Items)
}

// Len returns the number of accumulated items
func (l *Loader[T, S]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state.Items)
}

// HasMore reports whether another page may exist
func (l *Loader[T, S]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.HasMore
}

// Loading reports whether a fetch is in flight
func (l *Loader[T, S]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Loading
}

// Cursor returns the index of the next page to fetch
func (l *Loader[T, S]) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Cursor
}

// Selection returns the filter the listing is loaded for
func (l *Loader[T, S]) Selection() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Selection
}

// Phase returns the current loading phase
func (l *Loader[T, S]) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Phase()
}

// LoadAll keeps loading until the listing is exhausted or maxPages pages
// have been applied (maxPages <= 0 means no limit)
func (l *Loader[T, S]) LoadAll(ctx context.Context, maxPages int) error {
	for pages := 0; maxPages <= 0 || pages < maxPages; {
		outcome, err := l.LoadNext(ctx)
		switch outcome {
		case OutcomeSkipped:
			return nil
		case OutcomeFailed:
			return err
		case OutcomeApplied:
			pages++
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
