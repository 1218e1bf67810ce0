package availability

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseScheduleAccepts(t *testing.T) {
	t.Parallel()

	schedule, err := ParseSchedule(scheduleJSON("09:00-17:30", "mon", "fri"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mon := schedule.Days[0]
	if !mon.Enabled || *mon.Start != ClockTime(9*60) || *mon.End != ClockTime(17*60+30) {
		t.Fatalf("unexpected monday rule %+v", mon)
	}
	if schedule.Days[1].Enabled || schedule.Days[1].Start != nil {
		t.Fatalf("unexpected tuesday rule %+v", schedule.Days[1])
	}
	if !schedule.Days[4].Enabled {
		t.Fatal("expected friday enabled")
	}
}

func TestParseScheduleRejects(t *testing.T) {
	t.Parallel()

	valid := `"tue":{"enabled":false,"start":null,"end":null},"wed":{"enabled":false,"start":null,"end":null},"thu":{"enabled":false,"start":null,"end":null},"fri":{"enabled":false,"start":null,"end":null},"sat":{"enabled":false,"start":null,"end":null},"sun":{"enabled":false,"start":null,"end":null}`
	withMonday := func(mon string) []byte {
		return []byte(`{"days":{"mon":` + mon + `,` + valid + `}}`)
	}

	cases := map[string][]byte{
		"not an object":      []byte(`[]`),
		"null":               []byte(`null`),
		"missing days":       []byte(`{}`),
		"days not object":    []byte(`{"days":"mon"}`),
		"missing weekday":    []byte(`{"days":{` + valid + `}}`),
		"enabled not bool":   withMonday(`{"enabled":"yes","start":"09:00","end":"17:00"}`),
		"missing enabled":    withMonday(`{"start":"09:00","end":"17:00"}`),
		"enabled null":       withMonday(`{"enabled":null,"start":"09:00","end":"17:00"}`),
		"start not string":   withMonday(`{"enabled":false,"start":900,"end":null}`),
		"missing start key":  withMonday(`{"enabled":false,"end":null}`),
		"enabled null start": withMonday(`{"enabled":true,"start":null,"end":"17:00"}`),
		"single digit hour":  withMonday(`{"enabled":true,"start":"9:00","end":"17:00"}`),
		"hour out of range":  withMonday(`{"enabled":true,"start":"09:00","end":"24:00"}`),
		"minute overflow":    withMonday(`{"enabled":true,"start":"09:60","end":"17:00"}`),
		"start equals end":   withMonday(`{"enabled":true,"start":"09:00","end":"09:00"}`),
		"overnight window":   withMonday(`{"enabled":true,"start":"22:00","end":"02:00"}`),
	}

	for name, raw := range cases {
		if _, err := ParseSchedule(raw); !errors.Is(err, ErrInvalidSchedule) {
			t.Fatalf("%s: expected ErrInvalidSchedule, got %v", name, err)
		}
	}
}

func TestParseScheduleDisabledDayKeepsWellTypedTimes(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"days":{
		"mon":{"enabled":false,"start":"later","end":"10:00"},
		"tue":{"enabled":false,"start":null,"end":null},
		"wed":{"enabled":false,"start":null,"end":null},
		"thu":{"enabled":false,"start":null,"end":null},
		"fri":{"enabled":false,"start":null,"end":null},
		"sat":{"enabled":false,"start":null,"end":null},
		"sun":{"enabled":false,"start":null,"end":null}}}`)
	schedule, err := ParseSchedule(raw)
	if err != nil {
		t.Fatalf("disabled days accept any string: %v", err)
	}
	if schedule.Days[0].Start != nil {
		t.Fatal("unparseable start should not be retained")
	}
	if schedule.Days[0].End == nil || schedule.Days[0].End.String() != "10:00" {
		t.Fatalf("expected end 10:00, got %v", schedule.Days[0].End)
	}
}

func TestWeeklyScheduleJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := mustSchedule(t, scheduleJSON("08:15-23:45", "sat", "sun"))
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded WeeklySchedule
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	again, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if string(again) != string(encoded) {
		t.Fatalf("round trip changed schedule:\n%s\n%s", encoded, again)
	}
	if !decoded.Days[5].Enabled || decoded.Days[5].Start.String() != "08:15" {
		t.Fatalf("unexpected saturday %+v", decoded.Days[5])
	}
}

func TestFromStored(t *testing.T) {
	t.Parallel()

	if FromStored(nil) != nil || FromStored([]byte(" null ")) != nil {
		t.Fatal("absent schedule should be nil")
	}
	if FromStored([]byte(`{"days":{}}`)) != nil {
		t.Fatal("invalid schedule should be nil")
	}
	if FromStored(scheduleJSON("09:00-17:00", "mon")) == nil {
		t.Fatal("valid schedule should parse")
	}
}

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	if c, ok := ParseClockTime("23:59"); !ok || c.Hour() != 23 || c.Minute() != 59 {
		t.Fatalf("unexpected parse %v %v", c, ok)
	}
	for _, bad := range []string{"", "7:30", "07:3", "07-30", "ab:cd", "007:30", " 07:30"} {
		if _, ok := ParseClockTime(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
