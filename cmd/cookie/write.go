package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/matchup"
	"github.com/mmcdole/cookie/internal/review"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// nowFunc is the clock for D-Day labels
var nowFunc = time.Now

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Write reviews.",
}

var reviewWriteCmd = &cobra.Command{
	Use:   "write <movieId>",
	Short: "Post a review for a movie.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, _ := cmd.Flags().GetInt("rating")
		body, _ := cmd.Flags().GetString("body")
		spoiler, _ := cmd.Flags().GetBool("spoiler")

		movieID, err := parseID("movie id", args[0])
		if err != nil {
			return err
		}
		if rating < 0 || rating > review.MaxRating {
			return fmt.Errorf("%w: rating must be between 0 and %d", domain.ErrInvalidInput, review.MaxRating)
		}
		if err := cli.requireSession(); err != nil {
			return err
		}

		form := review.NewForm(movieID, "")
		form.Rating = rating
		form.Body = body
		form.Spoiler = spoiler
		if err := form.Submit(cmd.Context(), cli.reviews); err != nil {
			return fmt.Errorf("posting review: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Review posted")
		return nil
	},
}

var matchupCmd = &cobra.Command{
	Use:   "matchup",
	Short: "Browse, edit and vote in match-ups.",
}

var matchupEditCmd = &cobra.Command{
	Use:   "edit <matchId>",
	Short: "Edit a match-up (admin session required).",
	Long: `Load a match-up, apply the given changes and save it.
Times use the YYYY-MM-DDTHH:mm form. The first --movie searches for a title
and places the best match into slot 1, the second into slot 2. A slot with no
--movie keeps its movie.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := parseID("match id", args[0])
		if err != nil {
			return err
		}
		if err := cli.requireSession(); err != nil {
			return err
		}
		if !cli.cfg.Server.Admin {
			cli.logger.Warn("editing match-up without an admin session", "match", matchID)
		}

		ctx := cmd.Context()
		current, err := cli.matchUps.Get(ctx, matchID)
		if err != nil {
			return err
		}

		editor := matchup.NewEditor(matchID)
		editor.Load(current)
		if err := applyEdits(editor, cmd.Flags()); err != nil {
			return err
		}

		keywords, _ := cmd.Flags().GetStringArray("movie")
		if err := pickMovies(ctx, editor, cli.search, keywords, cmd.OutOrStdout()); err != nil {
			return err
		}

		if err := editor.Submit(ctx, cli.matchUps); err != nil {
			return fmt.Errorf("saving match-up: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Match-up saved")
		return nil
	},
}

type moviePicker interface {
	Pick(ctx context.Context, keyword string) ([]domain.Movie, error)
}

// pickMovies puts the best match for the i-th keyword into slot i. Slots
// without a keyword keep their movie.
func pickMovies(ctx context.Context, e *matchup.Editor, picker moviePicker, keywords []string, w io.Writer) error {
	if len(keywords) > matchup.Slots {
		return fmt.Errorf("%w: at most %d --movie values", domain.ErrInvalidInput, matchup.Slots)
	}
	for i, kw := range keywords {
		movies, err := picker.Pick(ctx, kw)
		if err != nil {
			return err
		}
		if len(movies) == 0 {
			return fmt.Errorf("%w: no movie matches %q", domain.ErrNotFound, kw)
		}
		e.ClearSlot(i)
		slot := e.Pick(movies[0])
		fmt.Fprintf(w, "slot %d: %s\n", slot+1, movies[0].Title)
	}
	return nil
}

// applyEdits copies the changed flags into the editor
func applyEdits(e *matchup.Editor, flags *pflag.FlagSet) error {
	if flags.Changed("title") {
		e.Title, _ = flags.GetString("title")
	}
	if flags.Changed("type") {
		s, _ := flags.GetString("type")
		t, err := domain.ParseMatchUpType(s)
		if err != nil {
			return err
		}
		e.Type = t
	}
	if flags.Changed("start") {
		e.Start, _ = flags.GetString("start")
	}
	if flags.Changed("end") {
		e.End, _ = flags.GetString("end")
	}
	_, err := e.Payload()
	return err
}

var matchupVoteCmd = &cobra.Command{
	Use:   "vote <matchId> <movieId>",
	Short: "Vote for a movie in a match-up.",
	Long: "Vote for a movie, naming what stood out (--charm) and how it felt (--emotion).\n\n" +
		"Charm tags:   " + tagKeys(matchup.CharmTags) + "\n" +
		"Emotion tags: " + tagKeys(matchup.EmotionTags),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		charm, _ := cmd.Flags().GetStringSlice("charm")
		emotion, _ := cmd.Flags().GetStringSlice("emotion")

		matchID, err := parseID("match id", args[0])
		if err != nil {
			return err
		}
		movieID, err := parseID("movie id", args[1])
		if err != nil {
			return err
		}
		ballot, err := buildBallot(matchID, movieID, charm, emotion)
		if err != nil {
			return err
		}
		if err := cli.requireSession(); err != nil {
			return err
		}

		if err := ballot.Submit(cmd.Context(), cli.matchUps); err != nil {
			if errors.Is(err, domain.ErrRejected) {
				return fmt.Errorf("vote not accepted, you may have voted already: %w", err)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Vote cast")
		return nil
	},
}

// buildBallot turns tag flags into a ballot, rejecting unknown tags
func buildBallot(matchID, movieID int64, charm, emotion []string) (*matchup.Ballot, error) {
	b := matchup.NewBallot(matchID, movieID)
	for _, tag := range charm {
		if tag = strings.TrimSpace(tag); !b.CharmSelected(tag) && !b.ToggleCharm(tag) {
			return nil, fmt.Errorf("%w: unknown charm tag %q", domain.ErrInvalidInput, tag)
		}
	}
	for _, tag := range emotion {
		if tag = strings.TrimSpace(tag); !b.EmotionSelected(tag) && !b.ToggleEmotion(tag) {
			return nil, fmt.Errorf("%w: unknown emotion tag %q", domain.ErrInvalidInput, tag)
		}
	}
	return b, nil
}

func tagKeys(tags []matchup.Tag) string {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = t.Key
	}
	return strings.Join(keys, ", ")
}

func init() {
	reviewWriteCmd.Flags().Int("rating", 0, "rating from 1 to 5 (0 leaves it unrated)")
	reviewWriteCmd.Flags().String("body", "", "review text")
	reviewWriteCmd.Flags().Bool("spoiler", false, "mark the review as a spoiler")
	reviewCmd.AddCommand(reviewWriteCmd)

	matchupEditCmd.Flags().String("title", "", "match-up title")
	matchupEditCmd.Flags().String("type", "", "match-up type: SHOW, GENRE or empty")
	matchupEditCmd.Flags().String("start", "", "start time, YYYY-MM-DDTHH:mm")
	matchupEditCmd.Flags().String("end", "", "end time, YYYY-MM-DDTHH:mm")
	matchupEditCmd.Flags().StringArray("movie", nil, "movie title to search and place in a slot (repeatable)")

	matchupVoteCmd.Flags().StringSlice("charm", nil, "charm tags, comma separated")
	matchupVoteCmd.Flags().StringSlice("emotion", nil, "emotion tags, comma separated")

	matchupCmd.AddCommand(historyCmd, matchupEditCmd, matchupVoteCmd)
	rootCmd.AddCommand(reviewCmd, matchupCmd)
}
