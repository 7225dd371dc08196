package publish

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// User-supplied schedule times are interpreted in Gulf Standard Time, a
// fixed UTC+4 zone with no daylight saving.
var gstZone = time.FixedZone("GST", 4*60*60)

// scheduleLayout is the accepted schedule time format. HTML datetime-local
// values use a T separator, which is normalized to a space first.
const scheduleLayout = "2006-01-02 15:04"

// MinLeadTime is how far in the future a scheduled post must be. The Graph
// API rejects anything closer; validating here avoids half-dispatched
// records.
const MinLeadTime = 20 * time.Minute

// ErrScheduleTooSoon indicates the schedule time is not far enough in the
// future. No platform call is made for the record.
var ErrScheduleTooSoon = fmt.Errorf("post must be scheduled at least %d minutes in the future", int(MinLeadTime.Minutes()))

// ErrInvalidScheduleTime marks an unparseable schedule time.
var ErrInvalidScheduleTime = errors.New("invalid schedule time")

// ParseGST parses a schedule time string as GST and converts it to UTC.
func ParseGST(raw string) (time.Time, error) {
	normalized := strings.Replace(strings.TrimSpace(raw), "T", " ", 1)
	t, err := time.ParseInLocation(scheduleLayout, normalized, gstZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD HH:MM)", ErrInvalidScheduleTime, raw)
	}
	return t.UTC(), nil
}

// validateSchedule converts the raw GST time and enforces the minimum lead
// time against now.
func validateSchedule(raw string, now time.Time) (time.Time, error) {
	publishAt, err := ParseGST(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !publishAt.After(now.UTC().Add(MinLeadTime)) {
		return time.Time{}, ErrScheduleTooSoon
	}
	return publishAt, nil
}
