package availability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidSchedule is returned by ParseSchedule for any shape or rule violation.
var ErrInvalidSchedule = errors.New("invalid ordering schedule")

// DayKeys are the wire keys of the weekly schedule, Monday first.
var DayKeys = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ClockTime is a local wall-clock time of day, in minutes since midnight.
type ClockTime int

// ParseClockTime parses a strict 24h "HH:MM" value.
func ParseClockTime(value string) (ClockTime, bool) {
	match := clockPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return ClockTime(hours*60 + minutes), true
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// DayRule is the ordering window of one weekday. Enabled rules always carry
// Start < End. Disabled rules keep whatever well-formed times they were given.
type DayRule struct {
	Enabled bool
	Start   *ClockTime
	End     *ClockTime
}

func (d DayRule) wellFormed() bool {
	if !d.Enabled {
		return true
	}
	return d.Start != nil && d.End != nil && *d.Start < *d.End
}

func (s *WeeklySchedule) wellFormed() bool {
	for _, rule := range s.Days {
		if !rule.wellFormed() {
			return false
		}
	}
	return true
}

// WeeklySchedule is a validated weekly ordering schedule, Monday first.
// Windows never span midnight.
type WeeklySchedule struct {
	Days [7]DayRule
}

type wireDay struct {
	Enabled bool    `json:"enabled"`
	Start   *string `json:"start"`
	End     *string `json:"end"`
}

type wireSchedule struct {
	Days map[string]wireDay `json:"days"`
}

// ParseSchedule validates raw schedule JSON of the form
// {"days":{"mon":{"enabled":true,"start":"09:00","end":"17:00"},...}}.
// Every weekday must be present; enabled is a boolean; start and end are
// strings or null; enabled days need well-formed times with start before end.
func ParseSchedule(raw []byte) (*WeeklySchedule, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil || root == nil {
		return nil, fmt.Errorf("%w: schedule must be an object", ErrInvalidSchedule)
	}
	var days map[string]json.RawMessage
	if err := json.Unmarshal(root["days"], &days); err != nil || days == nil {
		return nil, fmt.Errorf("%w: days must be an object", ErrInvalidSchedule)
	}

	var schedule WeeklySchedule
	for i, key := range DayKeys {
		rule, err := parseDay(days[key])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, key, err)
		}
		schedule.Days[i] = rule
	}
	return &schedule, nil
}

func parseDay(raw json.RawMessage) (DayRule, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return DayRule{}, errors.New("day must be an object")
	}

	var flag *bool
	if err := json.Unmarshal(fields["enabled"], &flag); err != nil || flag == nil {
		return DayRule{}, errors.New("enabled must be a boolean")
	}
	enabled := *flag
	start, err := optionalString(fields, "start")
	if err != nil {
		return DayRule{}, err
	}
	end, err := optionalString(fields, "end")
	if err != nil {
		return DayRule{}, err
	}

	rule := DayRule{Enabled: enabled}
	startClock, startOK := clockFrom(start)
	endClock, endOK := clockFrom(end)
	if startOK {
		rule.Start = &startClock
	}
	if endOK {
		rule.End = &endClock
	}

	if !enabled {
		return rule, nil
	}
	if !startOK || !endOK {
		return DayRule{}, errors.New("enabled day needs HH:MM start and end")
	}
	if startClock >= endClock {
		return DayRule{}, errors.New("start must be before end")
	}
	return rule, nil
}

// optionalString accepts a JSON string or null. A missing key is rejected.
func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%s must be a string or null", key)
	}
	return &value, nil
}

func clockFrom(value *string) (ClockTime, bool) {
	if value == nil {
		return 0, false
	}
	return ParseClockTime(*value)
}

// FromStored parses a persisted schedule. Absent or invalid data yields nil,
// which Compute treats as "always open".
func FromStored(raw []byte) *WeeklySchedule {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	schedule, err := ParseSchedule(trimmed)
	if err != nil {
		return nil
	}
	return schedule
}

// MarshalJSON renders the schedule in its wire shape.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := wireSchedule{Days: make(map[string]wireDay, len(DayKeys))}
	for i, key := range DayKeys {
		rule := s.Days[i]
		out.Days[key] = wireDay{
			Enabled: rule.Enabled,
			Start:   clockString(rule.Start),
			End:     clockString(rule.End),
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses and validates the wire shape.
func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSchedule(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

func clockString(c *ClockTime) *string {
	if c == nil {
		return nil
	}
	value := c.String()
	return &value
}
