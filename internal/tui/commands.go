package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/matchup"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/review"
	"github.com/mmcdole/cookie/internal/service"
)

// Command factories for async operations

// loadPageCmd claims the next page of a loader and fetches it in the
// background. It returns nil when the loader refuses (a fetch is already in
// flight or the listing is exhausted). The result is applied only when the
// owning screen handles the PageLoadedMsg.
func loadPageCmd[T any, S comparable](l *paging.Loader[T, S], timeout time.Duration) tea.Cmd {
	t, ok := l.Begin()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := l.Fetch(ctx, t)
		return PageLoadedMsg{
			Source: l,
			Err:    err,
			apply:  func() paging.Outcome { return l.Complete(t, page, err) },
		}
	}
}

// LoadBoxOfficeCmd loads the default top list
func LoadBoxOfficeCmd(svc *service.SearchService, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		movies, err := svc.BoxOffice(ctx)
		return BoxOfficeLoadedMsg{Movies: movies, Err: err}
	}
}

// LoadBadgesCmd loads the point/badge history
func LoadBadgesCmd(svc *service.UserService, refresh bool, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		events, err := svc.BadgeHistory(ctx, refresh)
		return BadgesLoadedMsg{Events: events, Err: err}
	}
}

// LoadHistoryCmd loads the match-up history
func LoadHistoryCmd(svc *service.MatchUpService, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := svc.History(ctx)
		return HistoryLoadedMsg{Items: items, Err: err}
	}
}

// LoadMatchUpCmd loads one match-up record for the editor
func LoadMatchUpCmd(svc *service.MatchUpService, matchID int64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		m, err := svc.Get(ctx, matchID)
		return MatchUpLoadedMsg{MatchID: matchID, MatchUp: m, Err: err}
	}
}

// PickMoviesCmd searches candidates for a match-up slot
func PickMoviesCmd(svc *service.SearchService, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		movies, err := svc.Pick(ctx, query)
		return PickResultsMsg{Query: query, Movies: movies, Err: err}
	}
}

// SubmitReviewCmd sends a snapshot of the review form
func SubmitReviewCmd(svc *service.ReviewService, form review.Form, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := form.Submit(ctx, svc)
		return ReviewSubmittedMsg{MovieID: form.MovieID(), Err: err}
	}
}

// SaveMatchUpCmd sends a snapshot of the match-up editor
func SaveMatchUpCmd(svc *service.MatchUpService, editor matchup.Editor, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := editor.Submit(ctx, svc)
		return MatchUpSavedMsg{MatchID: editor.MatchID(), Err: err}
	}
}

// CastVoteCmd sends a vote built from the ballot
func CastVoteCmd(svc *service.MatchUpService, matchID, movieID int64, vote domain.Vote, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := svc.Vote(ctx, matchID, movieID, vote)
		return VoteCastMsg{MatchID: matchID, MovieID: movieID, Err: err}
	}
}

// debounceCmd fires a searchDebounceMsg after delay
func debounceCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{Seq: seq}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the toast with the given seq
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// StatusCmd flashes a toast
func StatusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text, IsErr: isErr}
	}
}

// ErrorCmd flashes an error toast
func ErrorCmd(err error, what string) tea.Cmd {
	return func() tea.Msg {
		return ErrMsg{Err: err, Context: what}
	}
}

// PushCmd opens a screen
func PushCmd(s screen) tea.Cmd {
	return func() tea.Msg {
		return PushScreenMsg{Screen: s}
	}
}

// PopCmd returns to the previous screen
func PopCmd() tea.Msg {
	return PopScreenMsg{}
}
