package store

import (
	"testing"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryOnlyRoundTrip(t *testing.T) {
	s, err := NewCacheStore("", "", time.Minute)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetBoxOffice()
	assert.False(t, ok)

	require.NoError(t, s.SaveBoxOffice([]domain.Movie{{ID: 1, Title: "Alien"}}))
	movies, ok := s.GetBoxOffice()
	require.True(t, ok)
	assert.Equal(t, "Alien", movies[0].Title)
}

func TestEntriesExpire(t *testing.T) {
	clock := newClock()
	s, err := NewCacheStore("", "", 10*time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	require.NoError(t, s.SaveMatchUpHistory([]domain.MatchUpSummary{{ID: 1, Title: "A"}}))

	clock.Advance(9 * time.Minute)
	_, ok := s.GetMatchUpHistory()
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = s.GetMatchUpHistory()
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	clock := newClock()

	s, err := NewCacheStore(dir, "http://cookie.example.com/", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	events := []domain.BadgeEvent{{Action: "review", Points: 10, CreatedAt: clock.now}}
	require.NoError(t, s.SaveBadgeHistory(events))
	require.NoError(t, s.Close())

	reopened, err := NewCacheStore(dir, "HTTP://COOKIE.EXAMPLE.COM", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.GetBadgeHistory()
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].Points)
	assert.True(t, got[0].CreatedAt.Equal(clock.now))
}

func TestServersAreIsolated(t *testing.T) {
	dir := t.TempDir()

	a, err := NewCacheStore(dir, "http://a.example.com", time.Hour)
	require.NoError(t, err)
	require.NoError(t, a.SaveBoxOffice([]domain.Movie{{ID: 1}}))
	require.NoError(t, a.Close())

	b, err := NewCacheStore(dir, "http://b.example.com", time.Hour)
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.GetBoxOffice()
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	s, err := NewCacheStore(t.TempDir(), "http://a.example.com", time.Hour)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveBoxOffice([]domain.Movie{{ID: 1}}))
	require.NoError(t, s.SaveBadgeHistory([]domain.BadgeEvent{{Action: "vote"}}))

	s.InvalidateUser()
	_, ok := s.GetBadgeHistory()
	assert.False(t, ok)
	_, ok = s.GetBoxOffice()
	assert.True(t, ok)

	s.InvalidateAll()
	_, ok = s.GetBoxOffice()
	assert.False(t, ok)

	// buckets are recreated
	require.NoError(t, s.SaveBoxOffice([]domain.Movie{{ID: 2}}))
	_, ok = s.GetBoxOffice()
	assert.True(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	s, err := NewCacheStore("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, s.TTL())
}

var _ domain.CacheStore = (*CacheStore)(nil)
