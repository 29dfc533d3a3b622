package matchup

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
)

// Tag is a selectable vote reason
type Tag struct {
	Key   string // wire key
	Label string
}

// CharmTags are the "what was attractive" reasons, in display order
var CharmTags = []Tag{
	{"ost", "OST"},
	{"direction", "Direction"},
	{"story", "Story"},
	{"dialogue", "Dialogue"},
	{"visual", "Visuals"},
	{"acting", "Acting"},
	{"specialEffect", "Effects & CG"},
}

// EmotionTags are the "how did it feel" reasons, in display order
var EmotionTags = []Tag{
	{"touching", "Touching"},
	{"angry", "Angry"},
	{"joy", "Joy"},
	{"immersion", "Immersion"},
	{"tension", "Tension"},
	{"empathy", "Empathy"},
	{"excited", "Excited"},
}

// voter casts a ballot (consumer-defined interface)
type voter interface {
	Vote(ctx context.Context, matchID, movieID int64, vote domain.Vote) error
}

// Ballot is the tag selection for one movie of a match-up
type Ballot struct {
	MatchID int64
	MovieID int64

	charm   map[string]bool
	emotion map[string]bool
}

// NewBallot creates an empty ballot
func NewBallot(matchID, movieID int64) *Ballot {
	return &Ballot{
		MatchID: matchID,
		MovieID: movieID,
		charm:   make(map[string]bool),
		emotion: make(map[string]bool),
	}
}

// ToggleCharm flips a charm tag. Unknown keys are ignored.
func (b *Ballot) ToggleCharm(key string) bool {
	return toggle(b.charm, CharmTags, key)
}

// ToggleEmotion flips an emotion tag. Unknown keys are ignored.
func (b *Ballot) ToggleEmotion(key string) bool {
	return toggle(b.emotion, EmotionTags, key)
}

func toggle(selected map[string]bool, known []Tag, key string) bool {
	for _, t := range known {
		if t.Key == key {
			selected[key] = !selected[key]
			return true
		}
	}
	return false
}

// CharmSelected reports whether a charm tag is on
func (b *Ballot) CharmSelected(key string) bool { return b.charm[key] }

// EmotionSelected reports whether an emotion tag is on
func (b *Ballot) EmotionSelected(key string) bool { return b.emotion[key] }

// Vote builds the payload; every known tag is present as 0 or 1
func (b *Ballot) Vote() domain.Vote {
	return domain.Vote{
		CharmPoint:   points(b.charm, CharmTags),
		EmotionPoint: points(b.emotion, EmotionTags),
	}
}

func points(selected map[string]bool, known []Tag) map[string]int {
	out := make(map[string]int, len(known))
	for _, t := range known {
		if selected[t.Key] {
			out[t.Key] = 1
		} else {
			out[t.Key] = 0
		}
	}
	return out
}

// Submit casts the ballot
func (b *Ballot) Submit(ctx context.Context, v voter) error {
	return v.Vote(ctx, b.MatchID, b.MovieID, b.Vote())
}

// DDay labels the time left until end: "voting closed" once it has
// passed, "D-Day" on the last day, "D-n" before that.
func DDay(end, now time.Time) string {
	days := int(math.Ceil(end.Sub(now).Hours()/24)) - 1
	switch {
	case days < 0:
		return "voting closed"
	case days == 0:
		return "D-Day"
	default:
		return "D-" + strconv.Itoa(days)
	}
}
