package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/matchup"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/spf13/cobra"
)

// addListingFlags registers --pages and --output
func addListingFlags(cmd *cobra.Command, paged bool) {
	if paged {
		cmd.Flags().Int("pages", 1, "number of pages to load (0 loads everything)")
	}
	cmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
}

var searchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Search movies by title, actor or director.",
	Long:  "Search movies. Without a keyword the box-office top list is shown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("type")
		pages, _ := cmd.Flags().GetInt("pages")
		format, _ := cmd.Flags().GetString("output")

		kind, err := domain.ParseSearchType(kindFlag)
		if err != nil {
			return err
		}
		if err := cli.requireSession(); err != nil {
			return err
		}

		query := service.SearchQuery{Type: kind, Keyword: strings.Join(args, " ")}

		var movies []domain.Movie
		if query.Blank() {
			movies, err = cli.search.BoxOffice(cmd.Context())
		} else {
			loader := cli.search.NewLoader(query)
			err = loader.LoadAll(cmd.Context(), pages)
			movies = loader.Items()
		}
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), format, movies, func(tw *tabwriter.Writer) {
			if len(movies) == 0 {
				fmt.Fprintln(tw, "No results.")
				return
			}
			fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tSCORE\tDETAIL")
			for _, m := range movies {
				title := m.Title
				if m.Rank > 0 {
					title = fmt.Sprintf("%d. %s", m.Rank, m.Title)
				}
				detail := strings.Join(nonEmpty(m.Director, m.ActorName, m.Genre, m.Country), ", ")
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\n", m.ID, title, m.Year(), m.Score, detail)
			}
		})
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <movieId>",
	Short: "List the reviews of a movie.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spoilerOnly, _ := cmd.Flags().GetBool("spoiler")
		sortFlag, _ := cmd.Flags().GetString("sort")
		pages, _ := cmd.Flags().GetInt("pages")
		format, _ := cmd.Flags().GetString("output")

		movieID, err := parseID("movie id", args[0])
		if err != nil {
			return err
		}
		sort, err := domain.ParseReviewSort(sortFlag)
		if err != nil {
			return err
		}
		if err := cli.requireSession(); err != nil {
			return err
		}

		feed := cli.reviews.NewFeed(movieID, domain.ReviewFilter{SpoilerOnly: spoilerOnly, Sort: sort})
		if err := feed.LoadAll(cmd.Context(), pages); err != nil {
			return err
		}
		reviews := feed.Items()

		return render(cmd.OutOrStdout(), format, reviews, func(tw *tabwriter.Writer) {
			if title := feed.Header().Title; title != "" {
				fmt.Fprintf(tw, "Reviews of %s (%s)\n\n", title, sort)
			}
			if len(reviews) == 0 {
				fmt.Fprintln(tw, "No reviews yet.")
				return
			}
			fmt.Fprintln(tw, "ID\tUSER\tSCORE\tLIKES\tCOMMENTS\tREVIEW")
			for _, r := range reviews {
				content := r.Preview()
				if r.Spoiler && !spoilerOnly {
					content = "[spoiler hidden, use --spoiler]"
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.User.DisplayName(), r.RoundedScore(), r.Likes, r.Comments, oneLine(content))
			}
		})
	},
}

var likedCmd = &cobra.Command{
	Use:   "liked",
	Short: "List the movies you liked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		format, _ := cmd.Flags().GetString("output")

		if err := cli.requireSession(); err != nil {
			return err
		}

		loader := cli.user.NewLikedLoader()
		if err := loader.LoadAll(cmd.Context(), pages); err != nil {
			return err
		}
		movies := loader.Items()

		return render(cmd.OutOrStdout(), format, movies, func(tw *tabwriter.Writer) {
			if len(movies) == 0 {
				fmt.Fprintln(tw, "No liked movies yet.")
				return
			}
			fmt.Fprintln(tw, "TITLE\tRELEASED\tCOUNTRY\tLIKES\tREVIEWS")
			for _, m := range movies {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", m.Title, m.ReleasedAt, m.Country, m.Likes, m.Reviews)
			}
		})
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show your point and badge history, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		format, _ := cmd.Flags().GetString("output")

		if err := cli.requireSession(); err != nil {
			return err
		}

		events, err := cli.user.BadgeHistory(cmd.Context(), refresh)
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), format, events, func(tw *tabwriter.Writer) {
			if len(events) == 0 {
				fmt.Fprintln(tw, "No points earned yet.")
				return
			}
			fmt.Fprintln(tw, "DATE\tACTION\tPOINTS\tBADGE")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%+d\t%s\n",
					ev.CreatedAt.Local().Format("2006-01-02 15:04"), ev.Action, ev.Points, ev.Badge)
			}
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past and running match-ups.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")

		if err := cli.requireSession(); err != nil {
			return err
		}

		items, err := cli.matchUps.History(cmd.Context())
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), format, items, func(tw *tabwriter.Writer) {
			if len(items) == 0 {
				fmt.Fprintln(tw, "No match-ups yet.")
				return
			}
			for _, m := range items {
				fmt.Fprintf(tw, "%s\t%s\n", m.String(), matchup.DDay(m.EndAt, nowFunc()))
			}
		})
	},
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// oneLine keeps table rows on a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	searchCmd.Flags().StringP("type", "t", string(domain.SearchMovie), "search by: movie, actor or director")
	addListingFlags(searchCmd, true)

	reviewsCmd.Flags().Bool("spoiler", false, "only spoiler reviews")
	reviewsCmd.Flags().String("sort", string(domain.SortLatest), "sort order: latest or popular")
	addListingFlags(reviewsCmd, true)

	addListingFlags(likedCmd, true)

	badgesCmd.Flags().Bool("refresh", false, "bypass the cache")
	addListingFlags(badgesCmd, false)

	addListingFlags(historyCmd, false)

	rootCmd.AddCommand(searchCmd, reviewsCmd, likedCmd, badgesCmd)
}
