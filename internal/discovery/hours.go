package discovery

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OpenStatus is the derived availability of a listing at a point in time.
type OpenStatus int

const (
	// StatusUnknown means the hours are absent, malformed, or silent about today.
	StatusUnknown OpenStatus = iota
	StatusOpen
	StatusClosed
)

// String implements fmt.Stringer.
func (s OpenStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its lowercase name.
func (s OpenStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	closedLiteral  = "Closed"
	rangeSeparator = "–"
)

// Hours around Google Maps exports commonly put a narrow no-break space before AM/PM.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})[ \x{00A0}\x{202F}]*(AM|PM)$`)

// WeeklyHours maps English weekday names ("Monday") to "Closed" or "<start>–<end>".
type WeeklyHours map[string]string

// ParseOpeningHours decodes the JSON weekly hours document stored on a listing.
func ParseOpeningHours(raw string) (WeeklyHours, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var hours WeeklyHours
	if err := json.Unmarshal([]byte(raw), &hours); err != nil || hours == nil {
		return nil, false
	}
	return hours, true
}

// Status derives whether the hours document marks the listing open at now.
// The weekday and clock of now are taken in now's own location.
func Status(openingHours string, now time.Time) OpenStatus {
	hours, ok := ParseOpeningHours(openingHours)
	if !ok {
		return StatusUnknown
	}
	return hours.StatusAt(now)
}

// IsOpenNow reports whether the listing is open at now. Unknown counts as not open.
func IsOpenNow(openingHours string, now time.Time) bool {
	return Status(openingHours, now) == StatusOpen
}

// StatusAt evaluates the entry for now's weekday.
func (w WeeklyHours) StatusAt(now time.Time) OpenStatus {
	entry, ok := w[now.Weekday().String()]
	if !ok {
		return StatusUnknown
	}
	entry = strings.TrimSpace(entry)
	if entry == closedLiteral {
		return StatusClosed
	}

	open, closing, ok := parseRange(entry)
	if !ok {
		return StatusUnknown
	}

	current := now.Hour()*100 + now.Minute()
	if current >= open && current <= closing {
		return StatusOpen
	}
	return StatusClosed
}

// parseRange splits "9:00 AM–6:00 PM" into its HHMM-like bounds. Ranges that
// cross midnight come out with closing < open and therefore never match.
func parseRange(entry string) (int, int, bool) {
	parts := strings.Split(entry, rangeSeparator)
	if len(parts) != 2 {
		return 0, 0, false
	}
	open, ok := parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	closing, ok := parseClock(parts[1])
	if !ok {
		return 0, 0, false
	}
	return open, closing, true
}

// parseClock encodes a 12-hour clock time as hour*100+minute, mapping 12 to 0
// and adding 1200 for PM.
func parseClock(value string) (int, bool) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(match[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(match[2])
	if err != nil || minute > 59 {
		return 0, false
	}
	if hour == 12 {
		hour = 0
	}
	encoded := hour*100 + minute
	if match[3] == "PM" {
		encoded += 1200
	}
	return encoded, true
}
