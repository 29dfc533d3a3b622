// Package matchup holds the admin match-up editor, the vote ballot and the
// D-Day countdown.
package matchup

import (
	"context"
	"fmt"

	"github.com/mmcdole/cookie/internal/domain"
)

// Slots is the number of movies in a match-up
const Slots = 2

// updater saves a match-up (consumer-defined interface)
type updater interface {
	Update(ctx context.Context, matchID int64, update domain.MatchUpUpdate) error
}

// Editor is the edit form over one match-up record. Start and End hold
// edit-field values (YYYY-MM-DDTHH:mm).
type Editor struct {
	matchID int64

	Title string
	Type  domain.MatchUpType
	Start string
	End   string

	slots [Slots]*domain.MatchUpMovie
}

// NewEditor creates an empty editor for a match-up id
func NewEditor(matchID int64) *Editor {
	return &Editor{matchID: matchID}
}

// Load fills the editor from a server record
func (e *Editor) Load(m *domain.MatchUp) {
	e.Clear()
	if m == nil {
		return
	}
	if m.ID != 0 {
		e.matchID = m.ID
	}
	e.Title = m.Title
	e.Type = m.Type
	e.Start = ToEditField(m.StartTime)
	e.End = ToEditField(m.EndTime)
	for i := 0; i < Slots && i < len(m.Movies); i++ {
		mv := m.Movies[i]
		e.slots[i] = &mv
	}
}

// MatchID returns the record being edited
func (e *Editor) MatchID() int64 { return e.matchID }

// Slot returns the movie in slot i, or nil when it is empty
func (e *Editor) Slot(i int) *domain.MatchUpMovie {
	if i < 0 || i >= Slots {
		return nil
	}
	return e.slots[i]
}

// Pick puts a movie chosen in the search dialog into the first empty slot.
// With both slots taken it replaces the second one. Returns the slot index.
func (e *Editor) Pick(movie domain.Movie) int {
	picked := &domain.MatchUpMovie{ID: movie.ID, Title: movie.Title, Poster: movie.Poster}
	if e.slots[0] == nil {
		e.slots[0] = picked
		return 0
	}
	e.slots[Slots-1] = picked
	return Slots - 1
}

// ClearSlot empties slot i so the next pick lands there
func (e *Editor) ClearSlot(i int) {
	if i >= 0 && i < Slots {
		e.slots[i] = nil
	}
}

// CycleType steps through unset, SHOW and GENRE
func (e *Editor) CycleType() {
	switch e.Type {
	case domain.MatchUpUnset:
		e.Type = domain.MatchUpShow
	case domain.MatchUpShow:
		e.Type = domain.MatchUpGenre
	default:
		e.Type = domain.MatchUpUnset
	}
}

// Payload builds the update body. Empty slots are sent as blank movies.
func (e *Editor) Payload() (domain.MatchUpUpdate, error) {
	start, err := ToWire(e.Start)
	if err != nil {
		return domain.MatchUpUpdate{}, fmt.Errorf("start: %w", err)
	}
	end, err := ToWire(e.End)
	if err != nil {
		return domain.MatchUpUpdate{}, fmt.Errorf("end: %w", err)
	}

	movies := make([]domain.MatchUpMovie, Slots)
	for i, s := range e.slots {
		if s != nil {
			movies[i] = domain.MatchUpMovie{Title: s.Title, Poster: s.Poster}
		}
	}

	return domain.MatchUpUpdate{
		Title:     e.Title,
		Movies:    movies,
		Type:      e.Type,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// Submit saves the edit and clears the form on success
func (e *Editor) Submit(ctx context.Context, u updater) error {
	payload, err := e.Payload()
	if err != nil {
		return err
	}
	if err := u.Update(ctx, e.matchID, payload); err != nil {
		return err
	}
	e.Clear()
	return nil
}

// Clear empties every field and slot
func (e *Editor) Clear() {
	e.Title = ""
	e.Type = domain.MatchUpUnset
	e.Start = ""
	e.End = ""
	e.slots = [Slots]*domain.MatchUpMovie{}
}
