package store

import (
	"testing"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/stretchr/testify/suite"
	bolt "go.etcd.io/bbolt"
)

// DiskStoreTestSuite runs against a bolt file in a temp dir
type DiskStoreTestSuite struct {
	suite.Suite

	dir   string
	clock *fakeClock
	store *CacheStore
}

func (s *DiskStoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.clock = newClock()
	s.store = s.open()
}

func (s *DiskStoreTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *DiskStoreTestSuite) open() *CacheStore {
	store, err := NewCacheStore(s.dir, "http://cookie.example.com", 10*time.Minute, WithClock(s.clock.Now))
	s.Require().NoError(err)
	return store
}

func (s *DiskStoreTestSuite) reopen() {
	s.Require().NoError(s.store.Close())
	s.store = s.open()
}

func TestDiskStoreTestSuite(t *testing.T) {
	suite.Run(t, new(DiskStoreTestSuite))
}

func (s *DiskStoreTestSuite) TestExpiredEntryIsDeletedFromDisk() {
	s.Require().NoError(s.store.SaveMatchUpHistory([]domain.MatchUpSummary{{ID: 1, Title: "A"}}))

	s.clock.Advance(11 * time.Minute)
	_, ok := s.store.GetMatchUpHistory()
	s.False(ok)

	// winding the clock back does not resurrect it
	s.clock.Advance(-11 * time.Minute)
	s.reopen()
	_, ok = s.store.GetMatchUpHistory()
	s.False(ok)
}

func (s *DiskStoreTestSuite) TestInvalidateAllSurvivesReopen() {
	s.Require().NoError(s.store.SaveBoxOffice([]domain.Movie{{ID: 1, Title: "Dune"}}))
	s.store.InvalidateAll()

	s.reopen()
	_, ok := s.store.GetBoxOffice()
	s.False(ok)

	s.Require().NoError(s.store.SaveBoxOffice([]domain.Movie{{ID: 2, Title: "Tenet"}}))
	s.reopen()
	movies, ok := s.store.GetBoxOffice()
	s.Require().True(ok)
	s.Equal("Tenet", movies[0].Title)
}

func (s *DiskStoreTestSuite) TestCorruptEntryReadsAsMiss() {
	s.Require().NoError(s.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUser).Put([]byte(keyBadgeHistory), []byte("{not json"))
	}))

	_, ok := s.store.GetBadgeHistory()
	s.False(ok)

	s.Require().NoError(s.store.SaveBadgeHistory([]domain.BadgeEvent{{Action: "vote", Points: 5}}))
	events, ok := s.store.GetBadgeHistory()
	s.Require().True(ok)
	s.Equal(5, events[0].Points)
}
