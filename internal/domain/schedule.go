package domain

import (
	"time"
)

// CalendarEntry is one item in the big calendar feed.
type CalendarEntry struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// weekdayOffset maps a lesson day to its distance from Monday.
var weekdayOffset = map[Day]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
}

// StartOfWeek returns Monday 00:00 of the week containing now, in now's location.
// Sunday belongs to the week that ends on it.
func StartOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// AdjustScheduleToCurrentWeek projects weekly lessons onto the week containing
// now, keeping each lesson's clock times. Lessons on an unknown day are dropped.
func AdjustScheduleToCurrentWeek(lessons []Lesson, now time.Time) []CalendarEntry {
	monday := StartOfWeek(now)
	entries := make([]CalendarEntry, 0, len(lessons))
	for _, l := range lessons {
		offset, ok := weekdayOffset[l.Day]
		if !ok {
			continue
		}
		day := monday.AddDate(0, 0, offset)
		entries = append(entries, CalendarEntry{
			Title: l.Name,
			Start: atClock(day, l.StartTime),
			End:   atClock(day, l.EndTime),
		})
	}
	return entries
}

func atClock(day, clock time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location())
}
