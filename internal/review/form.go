// Package review holds the local state of the review authoring form.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/cookie/internal/domain"
)

// MaxRating is the number of rating icons. A rating of 0 means not yet rated.
const MaxRating = 5

// creator sends a finished review (consumer-defined interface)
type creator interface {
	Create(ctx context.Context, review domain.NewReview) error
}

// Form is the review being written for one movie
type Form struct {
	movieID int64
	title   string

	Rating  int
	Body    string
	Spoiler bool
}

// NewForm creates an empty form for a movie taken from the navigation context
func NewForm(movieID int64, title string) *Form {
	return &Form{movieID: movieID, title: title}
}

// MovieID returns the fixed movie id
func (f *Form) MovieID() int64 { return f.movieID }

// Title returns the movie title shown above the form
func (f *Form) Title() string { return f.title }

// SetRating selects the icon at index, giving a rating of index+1.
// Out-of-range indexes are clamped.
func (f *Form) SetRating(index int) {
	f.Rating = max(0, min(index+1, MaxRating))
}

// AdjustRating moves the rating by delta within 0..MaxRating
func (f *Form) AdjustRating(delta int) {
	f.Rating = max(0, min(f.Rating+delta, MaxRating))
}

// ToggleSpoiler flips the spoiler flag
func (f *Form) ToggleSpoiler() {
	f.Spoiler = !f.Spoiler
}

// Rated reports whether a rating was chosen
func (f *Form) Rated() bool {
	return f.Rating > 0
}

// Payload packages the form. An unset rating is sent as 0.
func (f *Form) Payload() domain.NewReview {
	return domain.NewReview{
		MovieID: f.movieID,
		Score:   f.Rating,
		Content: f.Body,
		Spoiler: f.Spoiler,
	}
}

// Submit sends the form. Local state is kept when sending fails so the user
// can retry.
func (f *Form) Submit(ctx context.Context, c creator) error {
	if f.movieID <= 0 {
		return fmt.Errorf("%w: no movie selected", domain.ErrInvalidInput)
	}
	if err := c.Create(ctx, f.Payload()); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// Reset discards everything the user entered. Cancel uses it before
// returning to the previous screen.
func (f *Form) Reset() {
	f.Rating = 0
	f.Body = ""
	f.Spoiler = false
}

// Icons renders the rating as filled and empty markers
func (f *Form) Icons(filled, empty string) string {
	return strings.Repeat(filled, f.Rating) + strings.Repeat(empty, MaxRating-f.Rating)
}
