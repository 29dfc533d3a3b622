package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketListings = []byte("listings")
	bucketUser     = []byte("user")
)

// Keys
const (
	keyBoxOffice      = "search:boxoffice"
	keyMatchUpHistory = "matchups:history"
	keyBadgeHistory   = "badges:history"
)

// DefaultTTL is used when the store is created with a non-positive ttl
const DefaultTTL = 10 * time.Minute

// entry is the stored envelope; SavedAt drives expiry
type entry struct {
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// CacheStore implements domain.CacheStore using BoltDB, with an in-memory
// layer in front of it.
type CacheStore struct {
	db    *bolt.DB
	ttl   time.Duration
	clock domain.Clock

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Option configures a CacheStore
type Option func(*CacheStore)

// WithClock overrides the time source used for expiry
func WithClock(clock domain.Clock) Option {
	return func(s *CacheStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewCacheStore opens the cache for a server. An empty baseCacheDir keeps
// everything in memory.
func NewCacheStore(baseCacheDir, serverURL string, ttl time.Duration, opts ...Option) (*CacheStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &CacheStore{
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}

	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "cookie.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketListings, bucketUser} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close releases the database
func (s *CacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// TTL returns how long entries stay fresh
func (s *CacheStore) TTL() time.Duration {
	return s.ttl
}

// === Generic helpers ===

func (s *CacheStore) read(bucket []byte, key string) []byte {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data
}

// get decodes a fresh entry into dest. Expired entries are deleted.
func (s *CacheStore) get(bucket []byte, key string, dest any) bool {
	data := s.read(bucket, key)
	if data == nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.delete(bucket, key)
		return false
	}
	if s.clock().Sub(e.SavedAt) >= s.ttl {
		s.delete(bucket, key)
		return false
	}
	return json.Unmarshal(e.Data, dest) == nil
}

func (s *CacheStore) set(bucket []byte, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{SavedAt: s.clock(), Data: payload})
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *CacheStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Box office ===

// GetBoxOffice returns the cached top list while fresh
func (s *CacheStore) GetBoxOffice() ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.get(bucketListings, keyBoxOffice, &movies)
	return movies, ok
}

// SaveBoxOffice caches the top list
func (s *CacheStore) SaveBoxOffice(movies []domain.Movie) error {
	return s.set(bucketListings, keyBoxOffice, movies)
}

// === Match-up history ===

// GetMatchUpHistory returns the cached match-up history while fresh
func (s *CacheStore) GetMatchUpHistory() ([]domain.MatchUpSummary, bool) {
	var items []domain.MatchUpSummary
	ok := s.get(bucketListings, keyMatchUpHistory, &items)
	return items, ok
}

// SaveMatchUpHistory caches the match-up history
func (s *CacheStore) SaveMatchUpHistory(items []domain.MatchUpSummary) error {
	return s.set(bucketListings, keyMatchUpHistory, items)
}

// === Badge history (per signed-in user) ===

// GetBadgeHistory returns the cached badge history while fresh
func (s *CacheStore) GetBadgeHistory() ([]domain.BadgeEvent, bool) {
	var events []domain.BadgeEvent
	ok := s.get(bucketUser, keyBadgeHistory, &events)
	return events, ok
}

// SaveBadgeHistory caches the badge history
func (s *CacheStore) SaveBadgeHistory(events []domain.BadgeEvent) error {
	return s.set(bucketUser, keyBadgeHistory, events)
}

// InvalidateUser drops data tied to the signed-in user
func (s *CacheStore) InvalidateUser() {
	s.delete(bucketUser, keyBadgeHistory)
}

// InvalidateAll wipes every cached listing
func (s *CacheStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketListings, bucketUser} {
			tx.DeleteBucket(bucket)
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
