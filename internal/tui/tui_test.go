package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/log"
	"github.com/mmcdole/cookie/internal/review"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes

type searchCall struct {
	Type    domain.SearchType
	Keyword string
	Page    int
}

type fakeSearchRepo struct {
	mu    sync.Mutex
	calls []searchCall
}

func (f *fakeSearchRepo) Search(_ context.Context, kind domain.SearchType, keyword string, page domain.PageRequest) ([]domain.Movie, bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{kind, keyword, page.Page})
	f.mu.Unlock()

	movies := make([]domain.Movie, page.Size)
	for i := range movies {
		n := page.Page*page.Size + i
		movies[i] = domain.Movie{ID: int64(n + 1), Title: fmt.Sprintf("%s %d", keyword, n)}
	}
	return movies, page.Page >= 2, nil
}

func (f *fakeSearchRepo) BoxOffice(context.Context) ([]domain.Movie, error) {
	return []domain.Movie{{ID: 1, Title: "Dune", Rank: 1}, {ID: 2, Title: "Tenet", Rank: 2}}, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	filters []domain.ReviewFilter
	created *domain.NewReview
	err     error
}

func (f *fakeReviewRepo) MovieReviews(_ context.Context, movieID int64, filter domain.ReviewFilter, page domain.PageRequest) (*domain.ReviewFeed, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()

	reviews := make([]domain.Review, page.Size)
	for i := range reviews {
		reviews[i] = domain.Review{
			ID:      int64(i + 1),
			Content: fmt.Sprintf("%s review %d", filter.Sort, page.Page*page.Size+i),
			Score:   4,
		}
	}
	return &domain.ReviewFeed{MovieID: movieID, Title: "Dune", TotalPages: 3, Reviews: reviews}, nil
}

func (f *fakeReviewRepo) CreateReview(_ context.Context, r domain.NewReview) error {
	if f.err != nil {
		return f.err
	}
	f.created = &r
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) LikedMovies(_ context.Context, page domain.PageRequest) ([]domain.LikedMovie, int, error) {
	movies := make([]domain.LikedMovie, page.Size)
	for i := range movies {
		movies[i] = domain.LikedMovie{Title: fmt.Sprintf("liked %d", page.Page*page.Size+i)}
	}
	return movies, 2, nil
}

func (fakeUserRepo) BadgeHistory(context.Context) ([]domain.BadgeEvent, error) {
	return nil, nil
}

type fakeMatchUpRepo struct {
	matchUp *domain.MatchUp
	updated *domain.MatchUpUpdate
	vote    *domain.Vote
	voteErr error
}

func (f *fakeMatchUpRepo) MatchUpHistory(context.Context) ([]domain.MatchUpSummary, error) {
	return nil, nil
}

func (f *fakeMatchUpRepo) GetMatchUp(context.Context, int64) (*domain.MatchUp, error) {
	return f.matchUp, nil
}

func (f *fakeMatchUpRepo) UpdateMatchUp(_ context.Context, _ int64, u domain.MatchUpUpdate) error {
	f.updated = &u
	return nil
}

func (f *fakeMatchUpRepo) Vote(_ context.Context, _, _ int64, v domain.Vote) error {
	if f.voteErr != nil {
		return f.voteErr
	}
	f.vote = &v
	return nil
}

type fixture struct {
	search   *fakeSearchRepo
	reviews  *fakeReviewRepo
	matchUps *fakeMatchUpRepo
	svc      Services
	opts     Options
}

func newFixture() *fixture {
	logger := log.NullLogger()
	f := &fixture{
		search:   &fakeSearchRepo{},
		reviews:  &fakeReviewRepo{},
		matchUps: &fakeMatchUpRepo{},
		opts: Options{
			PrefetchThreshold: 3,
			Timeout:           time.Second,
			Debounce:          time.Millisecond,
			Clock:             func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
		},
	}
	f.svc = Services{
		Search:   service.NewSearchService(f.search, nil, 10, logger),
		Reviews:  service.NewReviewService(f.reviews, 10, logger),
		User:     service.NewUserService(fakeUserRepo{}, nil, 10, logger),
		MatchUps: service.NewMatchUpService(f.matchUps, nil, logger),
	}
	return f
}

func (f *fixture) env() *env {
	return &env{svc: f.svc, opts: f.opts.withDefaults()}
}

// Helpers

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// msgsOf runs a command and flattens batches. Only use it on commands
// that return immediately (no ticks or cursor blinks).
func msgsOf(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, msgsOf(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[M tea.Msg](t *testing.T, cmd tea.Cmd) M {
	t.Helper()
	for _, msg := range msgsOf(cmd) {
		if m, ok := msg.(M); ok {
			return m
		}
	}
	var zero M
	t.Fatalf("no %T produced", zero)
	return zero
}

// Search

func TestSearchDebounceLoadsFirstPage(t *testing.T) {
	f := newFixture()
	s := newSearchScreen(f.env())

	s.Update(runes("a"))
	require.Equal(t, 1, s.seq)
	assert.Empty(t, f.search.calls, "nothing is sent while typing")

	// an older debounce tick is ignored
	_, cmd := s.Update(searchDebounceMsg{Seq: 0})
	assert.Nil(t, cmd)

	_, cmd = s.Update(searchDebounceMsg{Seq: 1})
	require.NotNil(t, cmd)
	s.Update(find[PageLoadedMsg](t, cmd))

	assert.Equal(t, []searchCall{{domain.SearchMovie, "a", 0}}, f.search.calls)
	assert.Equal(t, 10, s.list.ItemCount())
	assert.Equal(t, "a 0", s.list.Rows()[0].Title)
}

func TestSearchStaleResponseStartsCurrentQuery(t *testing.T) {
	f := newFixture()
	s := newSearchScreen(f.env())

	s.Update(runes("a"))
	_, first := s.Update(searchDebounceMsg{Seq: s.seq})
	require.NotNil(t, first)

	// keyword changes while the first page is in flight
	s.Update(runes("b"))
	_, cmd := s.Update(searchDebounceMsg{Seq: s.seq})
	assert.Nil(t, cmd, "one fetch in flight per loader")

	_, retry := s.Update(find[PageLoadedMsg](t, first))
	require.NotNil(t, retry, "stale page triggers the current query")
	assert.Equal(t, 0, s.list.ItemCount(), "stale rows are dropped")

	s.Update(find[PageLoadedMsg](t, retry))
	require.Len(t, f.search.calls, 2)
	assert.Equal(t, "ab", f.search.calls[1].Keyword)
	assert.Equal(t, "ab 0", s.list.Rows()[0].Title)
}

func TestSearchPrefetchesNearEnd(t *testing.T) {
	f := newFixture()
	s := newSearchScreen(f.env())
	s.list.SetSize(80, 30)

	s.Update(runes("x"))
	_, cmd := s.Update(searchDebounceMsg{Seq: s.seq})
	s.Update(find[PageLoadedMsg](t, cmd))

	s.Update(keyOf(tea.KeyEsc)) // leave the keyword input
	_, cmd = s.Update(runes("G"))
	s.Update(find[PageLoadedMsg](t, cmd))

	assert.Equal(t, 20, s.list.ItemCount())
	assert.Equal(t, 1, f.search.calls[1].Page)
}

func TestSearchTabSwitchResetsListing(t *testing.T) {
	f := newFixture()
	s := newSearchScreen(f.env())

	s.Update(runes("nolan"))
	_, cmd := s.Update(searchDebounceMsg{Seq: s.seq})
	s.Update(find[PageLoadedMsg](t, cmd))

	_, cmd = s.Update(keyOf(tea.KeyTab))
	assert.Equal(t, 0, s.list.ItemCount())
	s.Update(find[PageLoadedMsg](t, cmd))

	assert.Equal(t, domain.SearchActor, f.search.calls[1].Type)
	assert.Equal(t, 0, f.search.calls[1].Page)
}

func TestSearchBlankShowsBoxOffice(t *testing.T) {
	f := newFixture()
	s := newSearchScreen(f.env())

	s.Update(BoxOfficeLoadedMsg{Movies: []domain.Movie{{ID: 1, Title: "Dune", Rank: 1}}})
	require.Equal(t, 1, s.list.ItemCount())
	assert.Equal(t, "1. Dune", s.list.Rows()[0].Title)

	s.Update(keyOf(tea.KeyEsc))
	_, cmd := s.Update(keyOf(tea.KeyEnter))
	push := find[PushScreenMsg](t, cmd)
	rs, ok := push.Screen.(*reviewsScreen)
	require.True(t, ok)
	assert.Equal(t, int64(1), rs.feed.MovieID())
	assert.Empty(t, f.search.calls)
}

// Reviews

func TestReviewSortChangeDropsStalePage(t *testing.T) {
	f := newFixture()
	s := newReviewsScreen(f.env(), 7, "Dune")

	first := s.Init()
	require.NotNil(t, first)

	_, cmd := s.Update(runes("s"))
	assert.Nil(t, cmd, "latest page still in flight")

	_, retry := s.Update(find[PageLoadedMsg](t, first))
	require.NotNil(t, retry)
	s.Update(find[PageLoadedMsg](t, retry))

	require.Len(t, f.reviews.filters, 2)
	assert.Equal(t, domain.SortLatest, f.reviews.filters[0].Sort)
	assert.Equal(t, domain.SortPopular, f.reviews.filters[1].Sort)
	assert.Equal(t, "popular review 0", s.list.Rows()[0].Detail)
	assert.Equal(t, "Dune", s.Title())
}

func TestReviewRowMasksSpoilers(t *testing.T) {
	r := domain.Review{Content: "the ending", Spoiler: true, Score: 4.5, Likes: 2, Comments: 1}

	row := reviewRow(r, false)
	assert.Equal(t, spoilerMask, row.Detail)
	assert.True(t, row.Warn)
	assert.Equal(t, "Anonymous  ●●●●●", row.Title)

	row = reviewRow(r, true)
	assert.Equal(t, "the ending", row.Detail)
	assert.False(t, row.Warn)
}

func TestReviewSubmittedRefreshesFeed(t *testing.T) {
	f := newFixture()
	s := newReviewsScreen(f.env(), 7, "Dune")
	s.Update(find[PageLoadedMsg](t, s.Init()))

	_, cmd := s.Update(ReviewSubmittedMsg{MovieID: 8})
	assert.Nil(t, cmd, "other movie")

	_, cmd = s.Update(ReviewSubmittedMsg{MovieID: 7})
	require.NotNil(t, cmd)
	assert.Equal(t, 0, s.list.ItemCount())
}

// Review form

func TestFormSubmit(t *testing.T) {
	f := newFixture()
	form := review.NewForm(7, "Dune")
	s := newFormScreen(f.env(), form)

	s.Update(runes("4"))
	assert.Equal(t, 4, form.Rating)

	s.Update(keyOf(tea.KeyTab))
	s.Update(runes("great"))
	s.Update(keyOf(tea.KeyTab))
	s.Update(keyOf(tea.KeySpace))
	assert.True(t, form.Spoiler)

	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	submitted := find[ReviewSubmittedMsg](t, cmd)
	require.NoError(t, submitted.Err)
	assert.Equal(t, &domain.NewReview{MovieID: 7, Score: 4, Content: "great", Spoiler: true}, f.reviews.created)

	_, cmd = s.Update(submitted)
	find[PopScreenMsg](t, cmd)
	assert.Equal(t, 0, form.Rating)
	assert.Empty(t, form.Body)
	assert.False(t, form.Spoiler)
}

func TestFormSubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture()
	f.reviews.err = domain.ErrServerOffline
	form := review.NewForm(7, "Dune")
	s := newFormScreen(f.env(), form)

	s.Update(runes("3"))
	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	submitted := find[ReviewSubmittedMsg](t, cmd)
	require.ErrorIs(t, submitted.Err, domain.ErrServerOffline)

	_, cmd = s.Update(submitted)
	find[ErrMsg](t, cmd)
	assert.Equal(t, 3, form.Rating)
	assert.False(t, s.submitting)
}

func TestFormCancelDiscardsDraft(t *testing.T) {
	f := newFixture()
	form := review.NewForm(7, "Dune")
	s := newFormScreen(f.env(), form)

	s.Update(runes("5"))
	_, cmd := s.Update(keyOf(tea.KeyEsc))
	find[PopScreenMsg](t, cmd)
	assert.Equal(t, 0, form.Rating)
}

// Match-ups

func sampleHistory() []domain.MatchUpSummary {
	return []domain.MatchUpSummary{{
		ID:      3,
		Title:   "Nolan vs Villeneuve",
		StartAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}}
}

func TestHistoryRows(t *testing.T) {
	f := newFixture()
	s := newHistoryScreen(f.env())
	s.Update(HistoryLoadedMsg{Items: sampleHistory()})

	require.Equal(t, 1, s.list.ItemCount())
	row := s.list.Rows()[0]
	assert.Equal(t, "3. Nolan vs Villeneuve (2025-03-01 ~ 2025-03-12)", row.Title)
	assert.Equal(t, "D-1", row.Badge)
}

func TestHistoryEditNeedsAdmin(t *testing.T) {
	f := newFixture()
	s := newHistoryScreen(f.env())
	s.Update(HistoryLoadedMsg{Items: sampleHistory()})

	_, cmd := s.Update(keyOf(tea.KeyEnter))
	status := find[StatusMsg](t, cmd)
	assert.True(t, status.IsErr)

	f.opts.Admin = true
	s = newHistoryScreen(f.env())
	s.Update(HistoryLoadedMsg{Items: sampleHistory()})

	_, cmd = s.Update(keyOf(tea.KeyEnter))
	push := find[PushScreenMsg](t, cmd)
	ed, ok := push.Screen.(*editorScreen)
	require.True(t, ok)
	assert.Equal(t, int64(3), ed.editor.MatchID())
}

func TestHistoryVotePrompt(t *testing.T) {
	f := newFixture()
	s := newHistoryScreen(f.env())
	s.Update(HistoryLoadedMsg{Items: sampleHistory()})

	s.Update(runes("v"))
	require.True(t, s.Capturing())

	s.Update(runes("12"))
	_, cmd := s.Update(keyOf(tea.KeyEnter))
	push := find[PushScreenMsg](t, cmd)
	b, ok := push.Screen.(*ballotScreen)
	require.True(t, ok)
	assert.Equal(t, int64(3), b.ballot.MatchID)
	assert.Equal(t, int64(12), b.ballot.MovieID)
	assert.False(t, s.Capturing())
}

func TestHistoryVotePromptRejectsBadID(t *testing.T) {
	f := newFixture()
	s := newHistoryScreen(f.env())
	s.Update(HistoryLoadedMsg{Items: sampleHistory()})

	s.Update(runes("v"))
	s.Update(runes("abc"))
	_, cmd := s.Update(keyOf(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.True(t, s.Capturing(), "prompt stays open")
	assert.Contains(t, s.prompt.View(), "movie id must be a positive number")

	_, cmd = s.Update(keyOf(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.False(t, s.Capturing())
}

func TestEditorLoadPickAndSave(t *testing.T) {
	f := newFixture()
	f.matchUps.matchUp = &domain.MatchUp{
		ID:        7,
		Title:     "Nolan night",
		Type:      domain.MatchUpShow,
		StartTime: "2025-03-10-14:30:00",
		EndTime:   "2025-03-17-14:30:00",
		Movies: []domain.MatchUpMovie{
			{ID: 1, Title: "Inception", Poster: "i.jpg"},
			{ID: 2, Title: "Tenet", Poster: "t.jpg"},
		},
	}
	s := newEditorScreen(f.env(), 7)

	// what LoadMatchUpCmd would deliver
	m, err := f.svc.MatchUps.Get(context.Background(), 7)
	require.NoError(t, err)
	s.Update(MatchUpLoadedMsg{MatchID: 7, MatchUp: m})
	assert.Equal(t, "Nolan night", s.inputs[editTitle].Value())
	assert.Equal(t, "2025-03-10T14:30", s.inputs[editStart].Value())

	s.Update(MoviePickedMsg{Movie: domain.Movie{ID: 9, Title: "Arrival", Poster: "a.jpg"}})
	assert.Equal(t, "Arrival", s.editor.Slot(1).Title)

	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	saved := find[MatchUpSavedMsg](t, cmd)
	require.NoError(t, saved.Err)
	require.NotNil(t, f.matchUps.updated)
	assert.Equal(t, domain.MatchUpUpdate{
		Title: "Nolan night",
		Movies: []domain.MatchUpMovie{
			{Title: "Inception", Poster: "i.jpg"},
			{Title: "Arrival", Poster: "a.jpg"},
		},
		Type:      domain.MatchUpShow,
		StartTime: "2025-03-10-14:30:00",
		EndTime:   "2025-03-17-14:30:00",
	}, *f.matchUps.updated)

	_, cmd = s.Update(saved)
	find[PopScreenMsg](t, cmd)
	assert.Nil(t, s.editor.Slot(0))
	assert.Empty(t, s.inputs[editTitle].Value())
}

func TestEditorRejectsBadDateLocally(t *testing.T) {
	f := newFixture()
	s := newEditorScreen(f.env(), 7)
	s.Update(MatchUpLoadedMsg{MatchID: 7, MatchUp: &domain.MatchUp{ID: 7}})

	s.inputs[editStart].SetValue("next friday")
	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	errMsg := find[ErrMsg](t, cmd)
	assert.ErrorIs(t, errMsg.Err, domain.ErrInvalidInput)
	assert.Nil(t, f.matchUps.updated)
	assert.False(t, s.saving)
}

func TestBallotVote(t *testing.T) {
	f := newFixture()
	s := newBallotScreen(f.env(), sampleHistory()[0], 12)

	s.Update(keyOf(tea.KeySpace)) // ost
	s.Update(runes("j"))
	s.Update(runes("j"))
	s.Update(keyOf(tea.KeySpace)) // story

	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	cast := find[VoteCastMsg](t, cmd)
	require.NoError(t, cast.Err)
	require.NotNil(t, f.matchUps.vote)
	assert.Equal(t, 1, f.matchUps.vote.CharmPoint["ost"])
	assert.Equal(t, 1, f.matchUps.vote.CharmPoint["story"])
	assert.Equal(t, 0, f.matchUps.vote.CharmPoint["direction"])

	_, cmd = s.Update(cast)
	find[PopScreenMsg](t, cmd)
}

func TestBallotRejected(t *testing.T) {
	f := newFixture()
	f.matchUps.voteErr = fmt.Errorf("%w: ALREADY_VOTED", domain.ErrRejected)
	s := newBallotScreen(f.env(), sampleHistory()[0], 12)

	_, cmd := s.Update(keyOf(tea.KeyCtrlS))
	cast := find[VoteCastMsg](t, cmd)

	_, cmd = s.Update(cast)
	status := find[StatusMsg](t, cmd)
	assert.True(t, status.IsErr)
	assert.Contains(t, status.Text, "voted already")
}

// App

func newTestModel(t *testing.T, f *fixture) Model {
	t.Helper()
	m := NewModel(f.svc, f.opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestTypingDoesNotTriggerGlobalKeys(t *testing.T) {
	m := newTestModel(t, newFixture())

	m, _ = update(m, runes("q"))
	m, _ = update(m, runes("2"))

	s := m.roots[RootSearch].(*searchScreen)
	assert.Equal(t, "q2", s.input.Value())
	assert.Equal(t, RootSearch, m.active)
}

func TestRootSwitchAndBackgroundLoad(t *testing.T) {
	m := newTestModel(t, newFixture())
	m, _ = update(m, keyOf(tea.KeyEsc)) // leave the keyword input

	m, cmd := update(m, runes("2"))
	require.Equal(t, RootLiked, m.active)
	page := find[PageLoadedMsg](t, cmd)

	// switch away before the page arrives
	m, _ = update(m, runes("1"))
	m, _ = update(m, page)

	liked := m.roots[RootLiked].(*likedScreen)
	assert.Equal(t, 10, liked.list.ItemCount())
	assert.False(t, liked.loader.Loading())
}

func TestPushAndPop(t *testing.T) {
	f := newFixture()
	m := newTestModel(t, f)
	m, _ = update(m, keyOf(tea.KeyEsc))

	m, _ = update(m, PushScreenMsg{Screen: newBallotScreen(m.env, sampleHistory()[0], 1)})
	require.Equal(t, 2, m.Stack.Len())
	assert.Equal(t, []string{"Search", "Vote"}, m.Stack.Breadcrumb())
	assert.Contains(t, m.View(), "Vote")

	m, _ = update(m, keyOf(tea.KeyEsc))
	assert.Equal(t, 1, m.Stack.Len())

	m, _ = update(m, keyOf(tea.KeyEsc))
	assert.Equal(t, 1, m.Stack.Len(), "root is never popped")

	m, _ = update(m, PushScreenMsg{Screen: newBallotScreen(m.env, sampleHistory()[0], 1)})
	m, _ = update(m, PopScreenMsg{})
	assert.Equal(t, 1, m.Stack.Len())
}

func TestStatusToastClearsBySeq(t *testing.T) {
	m := newTestModel(t, newFixture())

	m, _ = update(m, StatusMsg{Text: "first"})
	m, _ = update(m, StatusMsg{Text: "second"})
	m, _ = update(m, ClearStatusMsg{Seq: 1})
	assert.Equal(t, "second", m.StatusMsg, "an older clear does not remove a newer toast")

	m, _ = update(m, ClearStatusMsg{Seq: 2})
	assert.Empty(t, m.StatusMsg)
}

func TestErrMsgToast(t *testing.T) {
	m := newTestModel(t, newFixture())

	m, _ = update(m, ErrMsg{Err: fmt.Errorf("wrapped: %w", domain.ErrAuthFailed), Context: "loading"})
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "cookie login")

	m, _ = update(m, ErrMsg{Err: domain.ErrRejected, Context: "voting"})
	assert.Equal(t, "voting: request rejected by server", m.StatusMsg)
}
