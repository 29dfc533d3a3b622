package domain

import "time"

// CacheStore keeps slow-changing listings between runs.
// Entries older than the store's TTL read as misses.
type CacheStore interface {
	GetBoxOffice() ([]Movie, bool)
	SaveBoxOffice(movies []Movie) error

	GetMatchUpHistory() ([]MatchUpSummary, bool)
	SaveMatchUpHistory(items []MatchUpSummary) error

	GetBadgeHistory() ([]BadgeEvent, bool)
	SaveBadgeHistory(events []BadgeEvent) error

	// InvalidateUser drops data tied to the signed-in user
	InvalidateUser()

	// InvalidateAll wipes every cached listing
	InvalidateAll()

	Close() error
}

// Clock returns the current time; injected so TTL and D-Day logic can be tested
type Clock func() time.Time
