package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m int) time.Time {
	return time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday", time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"thursday", time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"across month", time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfWeek(tt.now))
		})
	}
}

func TestAdjustScheduleToCurrentWeek(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC) // Thursday
	lessons := []Lesson{
		{Name: "Math", Day: Monday, StartTime: clock(8, 0), EndTime: clock(8, 45)},
		{Name: "History", Day: Friday, StartTime: clock(13, 15), EndTime: clock(14, 0)},
		{Name: "Broken", Day: Day("SATURDAY"), StartTime: clock(9, 0), EndTime: clock(10, 0)},
	}

	got := AdjustScheduleToCurrentWeek(lessons, now)

	require.Len(t, got, 2)
	assert.Equal(t, CalendarEntry{
		Title: "Math",
		Start: time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 12, 8, 45, 0, 0, time.UTC),
	}, got[0])
	assert.Equal(t, CalendarEntry{
		Title: "History",
		Start: time.Date(2026, 10, 16, 13, 15, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC),
	}, got[1])
}

func TestAdjustScheduleToCurrentWeek_Empty(t *testing.T) {
	got := AdjustScheduleToCurrentWeek(nil, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
