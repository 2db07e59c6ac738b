package domain

import (
	"strings"
	"time"
)

// TimeLayout is the wire format for all order and after-sale timestamps.
// Values are interpreted as UTC; age calculations subtract the stored
// instant from an injected "now", both in UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Time wraps time.Time to marshal in the dashboard's wire format.
type Time struct {
	time.Time
}

// NewTime builds a wire Time from a time.Time, truncated to seconds in UTC.
func NewTime(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Second)}
}

// ParseTime accepts the wire layout or RFC3339; empty input yields a zero Time.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, nil
	}
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return Time{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Time{}, err
	}
	return Time{t.UTC()}, nil
}

func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// DateString returns the calendar-day portion used for trend bucketing.
func (t Time) DateString() string {
	return t.UTC().Format("2006-01-02")
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
