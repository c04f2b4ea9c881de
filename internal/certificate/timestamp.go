package certificate

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the layout of NotBefore and NotAfter,
// e.g. "Jan 05 00:00:00 2030 GMT". Space-padded days are accepted too.
const TimestampLayout = "Jan _2 15:04:05 2006 MST"

// ErrTimestampFormat reports a NotBefore/NotAfter value that does not match TimestampLayout.
var ErrTimestampFormat = errors.New("timestamp does not match layout")

const secondsPerDay = 24 * 60 * 60

// FormatTimestamp renders t in UTC using the GMT zone abbreviation.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("Jan 02 15:04:05 2006") + " GMT"
}

// ParseTimestamp parses a value produced by FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrTimestampFormat, value, err)
	}
	return t.UTC(), nil
}

// wholeDays returns the whole days from one instant to another, rounded
// toward negative infinity. Spans may exceed the range of time.Duration.
func wholeDays(from, to time.Time) int {
	secs := to.Unix() - from.Unix()
	if to.Nanosecond() < from.Nanosecond() {
		secs--
	}
	days := secs / secondsPerDay
	if secs < 0 && secs%secondsPerDay != 0 {
		days--
	}
	return int(days)
}
