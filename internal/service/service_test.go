package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/cookie/internal/api"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// === fakes ===

type fakeSearchRepo struct {
	pages     map[SearchQuery][][]domain.Movie
	boxOffice []domain.Movie
	boxCalls  int
	calls     []domain.PageRequest
	err       error
}

func (f *fakeSearchRepo) Search(_ context.Context, kind domain.SearchType, keyword string, page domain.PageRequest) ([]domain.Movie, bool, error) {
	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, false, f.err
	}
	pages := f.pages[SearchQuery{Type: kind, Keyword: keyword}]
	if page.Page >= len(pages) {
		return nil, true, nil
	}
	return pages[page.Page], page.Page == len(pages)-1, nil
}

func (f *fakeSearchRepo) BoxOffice(context.Context) ([]domain.Movie, error) {
	f.boxCalls++
	return f.boxOffice, f.err
}

type fakeReviewRepo struct {
	feeds   map[domain.ReviewFilter]*domain.ReviewFeed
	created []domain.NewReview
	err     error
}

func (f *fakeReviewRepo) MovieReviews(_ context.Context, movieID int64, filter domain.ReviewFilter, page domain.PageRequest) (*domain.ReviewFeed, error) {
	if f.err != nil {
		return nil, f.err
	}
	feed, ok := f.feeds[filter]
	if !ok {
		return nil, domain.ErrNotFound
	}
	start := page.Page * page.Size
	end := min(start+page.Size, len(feed.Reviews))
	out := *feed
	out.MovieID = movieID
	if start < len(feed.Reviews) {
		out.Reviews = feed.Reviews[start:end]
	} else {
		out.Reviews = nil
	}
	return &out, nil
}

func (f *fakeReviewRepo) CreateReview(_ context.Context, review domain.NewReview) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, review)
	return nil
}

type fakeUserRepo struct {
	liked      [][]domain.LikedMovie
	badges     []domain.BadgeEvent
	badgeCalls int
}

func (f *fakeUserRepo) LikedMovies(_ context.Context, page domain.PageRequest) ([]domain.LikedMovie, int, error) {
	if page.Page >= len(f.liked) {
		return nil, len(f.liked), nil
	}
	return f.liked[page.Page], len(f.liked), nil
}

func (f *fakeUserRepo) BadgeHistory(context.Context) ([]domain.BadgeEvent, error) {
	f.badgeCalls++
	return f.badges, nil
}

type fakeMatchUpRepo struct {
	history      []domain.MatchUpSummary
	historyCalls int
	matchUp      *domain.MatchUp
	updates      []domain.MatchUpUpdate
	votes        []domain.Vote
	err          error
}

func (f *fakeMatchUpRepo) MatchUpHistory(context.Context) ([]domain.MatchUpSummary, error) {
	f.historyCalls++
	return f.history, f.err
}

func (f *fakeMatchUpRepo) GetMatchUp(context.Context, int64) (*domain.MatchUp, error) {
	return f.matchUp, f.err
}

func (f *fakeMatchUpRepo) UpdateMatchUp(_ context.Context, _ int64, update domain.MatchUpUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeMatchUpRepo) Vote(_ context.Context, _, _ int64, vote domain.Vote) error {
	if f.err != nil {
		return f.err
	}
	f.votes = append(f.votes, vote)
	return nil
}

func newMemoryCache(t *testing.T) *store.CacheStore {
	t.Helper()
	c, err := store.NewCacheStore("", "", time.Hour)
	require.NoError(t, err)
	return c
}

func movies(prefix string, n int) []domain.Movie {
	out := make([]domain.Movie, n)
	for i := range out {
		out[i] = domain.Movie{ID: int64(i + 1), Title: fmt.Sprintf("%s %d", prefix, i+1)}
	}
	return out
}

// === search ===

func TestSearchLoaderFollowsLastFlag(t *testing.T) {
	q := SearchQuery{Type: domain.SearchMovie, Keyword: "dark"}
	repo := &fakeSearchRepo{pages: map[SearchQuery][][]domain.Movie{
		q: {movies("dark", 10), movies("dark", 10)},
	}}
	svc := NewSearchService(repo, nil, 10, nil)
	loader := svc.NewLoader(q)

	require.NoError(t, loader.LoadAll(context.Background(), 0))
	assert.Equal(t, 20, loader.Len())
	assert.False(t, loader.HasMore())
	assert.Len(t, repo.calls, 2)
}

func TestSearchLoaderTrimsKeyword(t *testing.T) {
	q := SearchQuery{Type: domain.SearchActor, Keyword: "kim"}
	repo := &fakeSearchRepo{pages: map[SearchQuery][][]domain.Movie{q: {movies("kim", 3)}}}
	loader := NewSearchService(repo, nil, 10, nil).NewLoader(SearchQuery{Type: domain.SearchActor, Keyword: "  kim "})

	_, err := loader.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, loader.Len())
}

func TestSearchLoaderBlankKeyword(t *testing.T) {
	repo := &fakeSearchRepo{}
	loader := NewSearchService(repo, nil, 10, nil).NewLoader(SearchQuery{Type: domain.SearchMovie})

	outcome, err := loader.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, paging.OutcomeApplied, outcome)
	assert.Equal(t, paging.PhaseExhausted, loader.Phase())
	assert.Empty(t, repo.calls)
}

func TestSearchLoaderMalformedPageCanRetry(t *testing.T) {
	bodies := []string{
		`{"response": {"error": "backend hiccup"}}`,
		`{"response": [{"movieId": 1, "title": "Dune"}], "last": true}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		body := bodies[0]
		bodies = bodies[1:]
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	loader := NewSearchService(client, nil, 10, nil).NewLoader(SearchQuery{Type: domain.SearchMovie, Keyword: "dune"})

	outcome, err := loader.LoadNext(context.Background())
	assert.Equal(t, paging.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.True(t, loader.HasMore())
	assert.Equal(t, 0, loader.Cursor())
	assert.False(t, loader.Loading())

	outcome, err = loader.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, paging.OutcomeApplied, outcome)
	assert.Equal(t, 1, loader.Len())
	assert.False(t, loader.HasMore())
}

func TestBoxOfficeUsesCache(t *testing.T) {
	repo := &fakeSearchRepo{boxOffice: movies("top", 10)}
	svc := NewSearchService(repo, newMemoryCache(t), 10, nil)

	first, err := svc.BoxOffice(context.Background())
	require.NoError(t, err)
	second, err := svc.BoxOffice(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.boxCalls)
}

func TestBoxOfficeError(t *testing.T) {
	repo := &fakeSearchRepo{err: domain.ErrServerOffline}
	_, err := NewSearchService(repo, newMemoryCache(t), 10, nil).BoxOffice(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestPickRanksResults(t *testing.T) {
	q := SearchQuery{Type: domain.SearchMovie, Keyword: "dark"}
	repo := &fakeSearchRepo{pages: map[SearchQuery][][]domain.Movie{q: {{
		{ID: 1, Title: "The Dark Knight"},
		{ID: 2, Title: "Dark"},
	}}}}

	got, err := NewSearchService(repo, nil, 10, nil).Pick(context.Background(), " dark ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)

	got, err = NewSearchService(repo, nil, 10, nil).Pick(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// === reviews ===

func reviewList(n int) []domain.Review {
	out := make([]domain.Review, n)
	for i := range out {
		out[i] = domain.Review{ID: int64(i + 1)}
	}
	return out
}

func TestReviewFeedUsesTotalPages(t *testing.T) {
	latest := domain.ReviewFilter{Sort: domain.SortLatest}
	repo := &fakeReviewRepo{feeds: map[domain.ReviewFilter]*domain.ReviewFeed{
		latest: {Title: "Oldboy", Poster: "o.jpg", TotalPages: 2, Reviews: reviewList(20)},
	}}
	feed := NewReviewService(repo, 10, nil).NewFeed(5, domain.ReviewFilter{})

	require.NoError(t, feed.LoadAll(context.Background(), 0))
	assert.Equal(t, 20, feed.Len())
	assert.False(t, feed.HasMore())
	assert.Equal(t, FeedHeader{MovieID: 5, Title: "Oldboy", Poster: "o.jpg"}, feed.Header())
	assert.Equal(t, latest, feed.Selection())
}

func TestReviewFeedFilterChange(t *testing.T) {
	latest := domain.ReviewFilter{Sort: domain.SortLatest}
	popular := domain.ReviewFilter{Sort: domain.SortPopular}
	repo := &fakeReviewRepo{feeds: map[domain.ReviewFilter]*domain.ReviewFeed{
		latest:  {TotalPages: 3, Reviews: reviewList(30)},
		popular: {TotalPages: 1, Reviews: reviewList(4)},
	}}
	feed := NewReviewService(repo, 10, nil).NewFeed(1, latest)

	_, err := feed.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, feed.Len())

	require.True(t, feed.Select(popular))
	assert.Equal(t, 0, feed.Len())

	_, err = feed.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, feed.Len())
	assert.False(t, feed.HasMore())
}

func TestReviewFeedFailureKeepsItems(t *testing.T) {
	latest := domain.ReviewFilter{Sort: domain.SortLatest}
	repo := &fakeReviewRepo{feeds: map[domain.ReviewFilter]*domain.ReviewFeed{
		latest: {TotalPages: 3, Reviews: reviewList(30)},
	}}
	feed := NewReviewService(repo, 10, nil).NewFeed(1, latest)

	_, err := feed.LoadNext(context.Background())
	require.NoError(t, err)

	repo.err = domain.ErrServerOffline
	outcome, err := feed.LoadNext(context.Background())
	assert.Equal(t, paging.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Equal(t, 10, feed.Len())
	assert.Equal(t, 1, feed.Cursor())
	assert.True(t, feed.HasMore())
}

func TestCreateReview(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := NewReviewService(repo, 10, nil)

	require.NoError(t, svc.Create(context.Background(), domain.NewReview{MovieID: 3, Score: 4}))
	assert.Len(t, repo.created, 1)

	repo.err = errors.New("boom")
	assert.Error(t, svc.Create(context.Background(), domain.NewReview{MovieID: 3}))
}

// === user ===

func TestLikedLoader(t *testing.T) {
	repo := &fakeUserRepo{liked: [][]domain.LikedMovie{
		make([]domain.LikedMovie, 10),
		make([]domain.LikedMovie, 10),
	}}
	loader := NewUserService(repo, nil, 10, nil).NewLikedLoader()

	require.NoError(t, loader.LoadAll(context.Background(), 0))
	// the full second page ends the list because totalPages is reached
	assert.Equal(t, 20, loader.Len())
	assert.False(t, loader.HasMore())
}

func TestBadgeHistorySortedNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	repo := &fakeUserRepo{badges: []domain.BadgeEvent{
		{Action: "a", CreatedAt: day(1)},
		{Action: "b", CreatedAt: day(3)},
		{Action: "c", CreatedAt: day(2)},
		{Action: "d", CreatedAt: day(3)},
	}}
	svc := NewUserService(repo, newMemoryCache(t), 10, nil)

	events, err := svc.BadgeHistory(context.Background(), false)
	require.NoError(t, err)

	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, actions)
	// the repository slice is untouched
	assert.Equal(t, "a", repo.badges[0].Action)

	_, err = svc.BadgeHistory(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.badgeCalls)

	_, err = svc.BadgeHistory(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.badgeCalls)
}

// === match-ups ===

func TestMatchUpHistoryCachedUntilUpdate(t *testing.T) {
	repo := &fakeMatchUpRepo{history: []domain.MatchUpSummary{{ID: 1, Title: "A"}}}
	svc := NewMatchUpService(repo, newMemoryCache(t), nil)

	_, err := svc.History(context.Background())
	require.NoError(t, err)
	_, err = svc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.historyCalls)

	require.NoError(t, svc.Update(context.Background(), 1, domain.MatchUpUpdate{Title: "B"}))
	_, err = svc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.historyCalls)
}

func TestMatchUpVoteError(t *testing.T) {
	repo := &fakeMatchUpRepo{err: domain.ErrRejected}
	err := NewMatchUpService(repo, nil, nil).Vote(context.Background(), 1, 2, domain.Vote{})
	assert.ErrorIs(t, err, domain.ErrRejected)
}

// === session ===

type fakeSessionStore struct {
	saved   *domain.Session
	cleared bool
}

func (f *fakeSessionStore) SaveSession(s domain.Session) error {
	f.saved = &s
	return nil
}

func (f *fakeSessionStore) ClearSession() error {
	f.cleared = true
	return nil
}

type fakeTokenHolder struct{ token string }

func (f *fakeTokenHolder) SetToken(token string) { f.token = token }

type fakeAuthenticator struct {
	session *domain.Session
	err     error
}

func (f fakeAuthenticator) Login(context.Context, string, string) (*domain.Session, error) {
	return f.session, f.err
}

func TestSessionLoginAndLogout(t *testing.T) {
	st := &fakeSessionStore{}
	client := &fakeTokenHolder{}
	cache := newMemoryCache(t)
	require.NoError(t, cache.SaveBadgeHistory([]domain.BadgeEvent{{Action: "old user"}}))

	svc := NewSessionService(fakeAuthenticator{session: &domain.Session{AccessToken: "tok", Nickname: "neo"}}, st, client, cache, nil)

	session, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "neo", session.Nickname)
	assert.Equal(t, "tok", client.token)
	assert.Equal(t, "tok", st.saved.AccessToken)
	_, ok := cache.GetBadgeHistory()
	assert.False(t, ok)

	require.NoError(t, svc.Logout())
	assert.True(t, st.cleared)
	assert.Empty(t, client.token)
}

func TestSessionLoginFailure(t *testing.T) {
	st := &fakeSessionStore{}
	svc := NewSessionService(fakeAuthenticator{err: domain.ErrAuthFailed}, st, &fakeTokenHolder{}, nil, nil)

	_, err := svc.Login(context.Background(), "a@b.c", "bad")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Nil(t, st.saved)
}

func TestSessionAdoptRejectsEmptyToken(t *testing.T) {
	svc := NewSessionService(fakeAuthenticator{}, &fakeSessionStore{}, &fakeTokenHolder{}, nil, nil)
	assert.ErrorIs(t, svc.Adopt(domain.Session{AccessToken: "  "}), domain.ErrInvalidInput)
}
