// Package availability turns a restaurant's weekly ordering schedule and
// timezone into an "open now" decision and the next opening instant.
package availability

import (
	"sync"
	"time"
)

// DefaultTimezone applies when a restaurant has no timezone configured.
const DefaultTimezone = "Europe/Sofia"

// Result is the ordering availability at one instant. NextOpenAt is in UTC
// and only set when ordering is closed and a future window exists.
type Result struct {
	AvailableNow bool       `json:"availableNow"`
	NextOpenAt   *time.Time `json:"nextOpenAt"`
}

var alwaysOpen = Result{AvailableNow: true}

// Scheduler computes availability. The zero value falls back to DefaultTimezone.
type Scheduler struct {
	defaultZone string
	locations   sync.Map
}

// NewScheduler builds a Scheduler that resolves empty timezones to defaultZone.
func NewScheduler(defaultZone string) *Scheduler {
	return &Scheduler{defaultZone: defaultZone}
}

var defaultScheduler = NewScheduler(DefaultTimezone)

// Compute evaluates the schedule with the package default timezone fallback.
func Compute(now time.Time, timezone string, schedule *WeeklySchedule) Result {
	return defaultScheduler.Compute(now, timezone, schedule)
}

// Compute reports whether ordering is open at now in the given IANA timezone
// and, when closed, the next opening instant within a week. A nil schedule or
// an unknown timezone means ordering is always open. So does a hand-built
// schedule with an enabled day lacking a Start < End window.
func (s *Scheduler) Compute(now time.Time, timezone string, schedule *WeeklySchedule) Result {
	if schedule == nil || !schedule.wellFormed() {
		return alwaysOpen
	}
	loc, ok := s.location(timezone)
	if !ok {
		return alwaysOpen
	}

	local := now.In(loc)
	today := weekdayIndex(local.Weekday())
	nowClock := ClockTime(local.Hour()*60 + local.Minute())

	rule := schedule.Days[today]
	if rule.Enabled && nowClock >= *rule.Start && nowClock < *rule.End {
		return alwaysOpen
	}

	// Offset 7 is today next week, for schedules with a single enabled day.
	for offset := 0; offset <= 7; offset++ {
		rule := schedule.Days[(today+offset)%7]
		if !rule.Enabled {
			continue
		}
		if offset == 0 && nowClock >= *rule.Start {
			continue
		}
		openAt := time.Date(local.Year(), local.Month(), local.Day()+offset,
			rule.Start.Hour(), rule.Start.Minute(), 0, 0, loc).UTC()
		return Result{AvailableNow: false, NextOpenAt: &openAt}
	}
	return Result{AvailableNow: false}
}

// ValidTimezone reports whether the IANA zone name can be loaded.
func (s *Scheduler) ValidTimezone(timezone string) bool {
	_, ok := s.location(timezone)
	return ok
}

func (s *Scheduler) location(timezone string) (*time.Location, bool) {
	if timezone == "" {
		timezone = s.defaultZone
		if timezone == "" {
			timezone = DefaultTimezone
		}
	}
	if cached, ok := s.locations.Load(timezone); ok {
		return cached.(*time.Location), true
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, false
	}
	s.locations.Store(timezone, loc)
	return loc, true
}

func weekdayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
