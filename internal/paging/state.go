// Package paging accumulates server-paginated listings one page at a time.
//
// State is a plain value with pure transition methods (Begin, Receive, Fail,
// Reset, Select). Loader wraps a State with a fetch function and a mutex so it
// can be driven from Bubble Tea commands or synchronously from the CLI.
package paging

import (
	"slices"
)

// Phase is the observable state of a listing
type Phase int

const (
	PhaseIdle      Phase = iota // more pages may exist, nothing in flight
	PhaseLoading                // one fetch in flight
	PhaseExhausted              // the last page has been received
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome reports what a transition did
type Outcome int

const (
	OutcomeSkipped Outcome = iota // guard refused the load
	OutcomeApplied                // page merged into the list
	OutcomeFailed                 // fetch failed; cursor and has-more kept
	OutcomeStale                  // response belonged to a previous selection and was dropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Page is one server response.
// Termination is signalled by a short page, by Last, or by TotalPages.
type Page[T any] struct {
	Items      []T
	Last       bool
	TotalPages int // 0 when the endpoint does not report it
}

// Ticket identifies a dispatched fetch. It carries the selection and
// generation that were current when the fetch was issued.
type Ticket[S comparable] struct {
	Cursor    int
	Size      int
	Selection S
	gen       uint64
}

// State is the accumulated listing for one selection
type State[T any, S comparable] struct {
	Items     []T
	Cursor    int
	HasMore   bool
	Loading   bool
	Selection S

	gen uint64
}

// NewState returns an empty listing for the given selection
func NewState[T any, S comparable](selection S) State[T, S] {
	return State[T, S]{HasMore: true, Selection: selection}
}

// Phase derives the phase from the flags
func (s State[T, S]) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case !s.HasMore:
		return PhaseExhausted
	default:
		return PhaseIdle
	}
}

// Begin handles "load requested". It refuses while a fetch is in flight or
// after the last page; otherwise it marks the state loading and returns the
// ticket for the current cursor.
func (s State[T, S]) Begin(size int) (State[T, S], Ticket[S], bool) {
	if s.Loading || !s.HasMore {
		return s, Ticket[S]{}, false
	}
	s.Loading = true
	return s, Ticket[S]{Cursor: s.Cursor, Size: size, Selection: s.Selection, gen: s.gen}, true
}

// Receive handles "page received"
func (s State[T, S]) Receive(t Ticket[S], page Page[T]) (State[T, S], Outcome) {
	if !s.owns(t) {
		s.Loading = false
		return s, OutcomeStale
	}

	if t.Cursor == 0 {
		s.Items = slices.Clone(page.Items)
	} else {
		s.Items = slices.Concat(s.Items, page.Items)
	}

	if len(page.Items) < t.Size || page.Last || (page.TotalPages > 0 && t.Cursor+1 >= page.TotalPages) {
		s.HasMore = false
	}
	s.Cursor = t.Cursor + 1
	s.Loading = false
	return s, OutcomeApplied
}

// Fail handles "page failed". Cursor and HasMore are untouched so the next
// trigger retries the same page.
func (s State[T, S]) Fail(t Ticket[S]) (State[T, S], Outcome) {
	s.Loading = false
	if !s.owns(t) {
		return s, OutcomeStale
	}
	return s, OutcomeFailed
}

// Reset clears the accumulated items. A fetch already in flight stays
// counted as in flight; its response will be dropped as stale.
func (s State[T, S]) Reset() State[T, S] {
	s.Items = nil
	s.Cursor = 0
	s.HasMore = true
	s.gen++
	return s
}

// Select handles "selection changed". It resets only when the selection
// actually differs and reports whether it did.
func (s State[T, S]) Select(selection S) (State[T, S], bool) {
	if selection == s.Selection {
		return s, false
	}
	s = s.Reset()
	s.Selection = selection
	return s, true
}

func (s State[T, S]) owns(t Ticket[S]) bool {
	return t.gen == s.gen && t.Selection == s.Selection
}
