package matchup

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/cookie/internal/domain"
)

// Layouts of the two timestamp representations
const (
	EditLayout = "2006-01-02T15:04"    // what the admin types
	WireLayout = "2006-01-02-15:04:05" // what the server sends and expects
)

// ToEditField converts a wire timestamp to the edit-field form by cutting
// fixed offsets out of the dash-separated parts: "2025-03-10-14:30:00"
// becomes "2025-03-10T14:30". Anything with fewer than three parts gives "".
func ToEditField(wire string) string {
	if wire == "" {
		return ""
	}
	parts := strings.Split(wire, "-")
	if len(parts) < 3 {
		return ""
	}

	day := prefix(parts[2], 2)
	var clock string
	if len(parts) > 3 {
		clock = prefix(parts[3], 5)
	} else if len(parts[2]) > 3 {
		// "2025-03-10 14:30:00" and "2025-03-10T14:30:00" keep the clock in the day part
		clock = prefix(parts[2][3:], 5)
	}
	return fmt.Sprintf("%s-%s-%sT%s", parts[0], parts[1], day, clock)
}

// ToWire converts an edit-field value back to the wire form by replacing the
// "T" with "-" and appending ":00". An empty field stays empty.
func ToWire(field string) (string, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return "", nil
	}
	if _, err := time.Parse(EditLayout, field); err != nil {
		return "", fmt.Errorf("%w: %q is not YYYY-MM-DDTHH:mm", domain.ErrInvalidInput, field)
	}
	return strings.Replace(field, "T", "-", 1) + ":00", nil
}

// ParseWire parses a wire timestamp in local time
func ParseWire(wire string) (time.Time, error) {
	t, err := time.ParseInLocation(WireLayout, strings.TrimSpace(wire), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a match-up timestamp", domain.ErrInvalidInput, wire)
	}
	return t, nil
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
