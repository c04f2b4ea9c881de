package monitor

import (
	"fmt"
	"time"
)

// DailySchedule fires once a day at Hour:Minute in the clock's location.
type DailySchedule struct {
	Hour   int
	Minute int
}

// Next returns the first scheduled time strictly after t.
func (d DailySchedule) Next(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d DailySchedule) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}
