package schedule

import (
	"testing"
	"time"
)

func TestComputeNextRun(t *testing.T) {
	// Thursday 2024-02-15 10:30 UTC
	now := time.Date(2024, 2, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		sched Schedule
		now   time.Time
		want  time.Time
	}{
		{
			name:  "daily fires tomorrow at the configured time",
			sched: Schedule{Frequency: FreqDaily, TimeOfDay: "08:00"},
			want:  time.Date(2024, 2, 16, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "daily never fires today even before the configured time",
			sched: Schedule{Frequency: FreqDaily, TimeOfDay: "23:00"},
			want:  time.Date(2024, 2, 16, 23, 0, 0, 0, time.UTC),
		},
		{
			name:  "weekly advances to the next target weekday",
			sched: Schedule{Frequency: FreqWeekly, DayOfWeek: 1, TimeOfDay: "09:15"},
			// next Monday after Thursday the 15th
			want: time.Date(2024, 2, 19, 9, 15, 0, 0, time.UTC),
		},
		{
			name:  "weekly on the same weekday waits a full week",
			sched: Schedule{Frequency: FreqWeekly, DayOfWeek: 4, TimeOfDay: "09:15"},
			want:  time.Date(2024, 2, 22, 9, 15, 0, 0, time.UTC),
		},
		{
			name:  "monthly fires on the chosen day of next month",
			sched: Schedule{Frequency: FreqMonthly, DayOfMonth: 10, TimeOfDay: "08:00"},
			want:  time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "monthly clamps day 31 to the month end",
			sched: Schedule{
				Frequency: FreqMonthly, DayOfMonth: 31, TimeOfDay: "08:00",
			},
			now: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC),
			// January now, February next: leap year caps at 29
			want: time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "quarterly fires on the first day three months out",
			sched: Schedule{Frequency: FreqQuarterly, TimeOfDay: "06:00"},
			want:  time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC),
		},
		{
			name:  "trigger schedules have no clock",
			sched: Schedule{Frequency: FreqTrigger, TriggerEvent: "records_ingested"},
			want:  time.Time{},
		},
		{
			name:  "blank time of day defaults to 08:00",
			sched: Schedule{Frequency: FreqDaily},
			want:  time.Date(2024, 2, 16, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := tt.now
			if from.IsZero() {
				from = now
			}
			got := ComputeNextRun(&tt.sched, from)
			if !got.Equal(tt.want) {
				t.Errorf("ComputeNextRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in         string
		wantHour   int
		wantMinute int
	}{
		{"14:45", 14, 45},
		{"06:30:15", 6, 30},
		{"", 8, 0},
		{"not a time", 8, 0},
	}

	for _, tt := range tests {
		h, m := parseTimeOfDay(tt.in)
		if h != tt.wantHour || m != tt.wantMinute {
			t.Errorf("parseTimeOfDay(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.wantHour, tt.wantMinute)
		}
	}
}
