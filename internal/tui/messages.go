package tui

import (
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TickMsg drives the spinner animation
type TickMsg struct{}

// StatusMsg flashes a toast in the status bar
type StatusMsg struct {
	Text  string
	IsErr bool
}

// ClearStatusMsg clears the toast it was scheduled for
type ClearStatusMsg struct {
	Seq int
}

// PushScreenMsg opens a screen on top of the current one
type PushScreenMsg struct {
	Screen screen
}

// PopScreenMsg returns to the previous screen
type PopScreenMsg struct{}

// PageLoadedMsg carries a finished page fetch. Source is the loader that
// issued it; only the owning screen applies the result.
type PageLoadedMsg struct {
	Source any
	Err    error

	apply func() paging.Outcome
}

// Apply merges the page into its loader. Must be called from Update.
func (m PageLoadedMsg) Apply() paging.Outcome {
	if m.apply == nil {
		return paging.OutcomeSkipped
	}
	return m.apply()
}

// searchDebounceMsg fires after the keyword stopped changing
type searchDebounceMsg struct {
	Seq int
}

// BoxOfficeLoadedMsg signals that the default top list has been loaded
type BoxOfficeLoadedMsg struct {
	Movies []domain.Movie
	Err    error
}

// BadgesLoadedMsg signals that the badge history has been loaded
type BadgesLoadedMsg struct {
	Events []domain.BadgeEvent
	Err    error
}

// HistoryLoadedMsg signals that the match-up history has been loaded
type HistoryLoadedMsg struct {
	Items []domain.MatchUpSummary
	Err   error
}

// MatchUpLoadedMsg signals that a match-up record was fetched for editing
type MatchUpLoadedMsg struct {
	MatchID int64
	MatchUp *domain.MatchUp
	Err     error
}

// PickResultsMsg carries the candidates for the match-up movie picker
type PickResultsMsg struct {
	Query  string
	Movies []domain.Movie
	Err    error
}

// MoviePickedMsg is sent when a movie is chosen in the picker
type MoviePickedMsg struct {
	Movie domain.Movie
}

// ReviewSubmittedMsg signals the result of a review submission
type ReviewSubmittedMsg struct {
	MovieID int64
	Err     error
}

// MatchUpSavedMsg signals the result of an admin match-up edit
type MatchUpSavedMsg struct {
	MatchID int64
	Err     error
}

// VoteCastMsg signals the result of a vote
type VoteCastMsg struct {
	MatchID int64
	MovieID int64
	Err     error
}
