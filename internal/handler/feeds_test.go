package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DukeRupert/schooldash/internal/domain"
)

func newFeedMux(dash *fakeDashboard, cal *fakeCalendar) *http.ServeMux {
	h := NewFeedHandler(dash, cal, discardLogger())
	h.now = fixedNow
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, func(next http.Handler) http.Handler { return next })
	return mux
}

func serveFeed(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withRole(httptest.NewRequest("GET", path, nil), domain.RoleAdmin, "admin1"))
	return rec
}

func TestCountChart(t *testing.T) {
	mux := newFeedMux(&fakeDashboard{split: domain.SexSplit{Boys: 55, Girls: 45}}, &fakeCalendar{})

	rec := serveFeed(mux, "/api/charts/count")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got domain.SexSplit
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Boys != 55 || got.Girls != 45 {
		t.Errorf("split = %+v", got)
	}
}

func TestAttendanceChart(t *testing.T) {
	mux := newFeedMux(&fakeDashboard{}, &fakeCalendar{})

	rec := serveFeed(mux, "/api/charts/attendance")

	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "Mon" || got[0]["present"] != float64(3) {
		t.Errorf("body = %v", got)
	}
}

func TestFinanceChart_Year(t *testing.T) {
	tests := []struct {
		query    string
		want     int
		wantYear int
	}{
		{"", http.StatusOK, 2026},
		{"?year=2024", http.StatusOK, 2024},
		{"?year=abc", http.StatusBadRequest, 0},
		{"?year=-1", http.StatusBadRequest, 0},
		{"?year=4294969322", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			dash := &fakeDashboard{}
			mux := newFeedMux(dash, &fakeCalendar{})

			rec := serveFeed(mux, "/api/charts/finance"+tt.query)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if dash.financeOf != tt.wantYear {
				t.Errorf("year = %d, want %d", dash.financeOf, tt.wantYear)
			}
		})
	}
}

func TestCalendarEvents(t *testing.T) {
	start := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []domain.Event{
		{ID: 3, Title: "Sports Day", StartTime: start, EndTime: start.Add(2 * time.Hour)},
	}}
	mux := newFeedMux(&fakeDashboard{}, cal)

	rec := serveFeed(mux, "/api/calendar/events?date=2026-10-20")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if want := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC); !cal.eventsDay.Equal(want) {
		t.Errorf("day = %v, want %v", cal.eventsDay, want)
	}
	var got []EventView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Sports Day" || !got[0].Start.Equal(start) {
		t.Errorf("events = %+v", got)
	}
}

func TestCalendarEvents_DefaultsToToday(t *testing.T) {
	cal := &fakeCalendar{}
	mux := newFeedMux(&fakeDashboard{}, cal)

	rec := serveFeed(mux, "/api/calendar/events")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !cal.eventsDay.Equal(fixedNow()) {
		t.Errorf("day = %v, want today", cal.eventsDay)
	}
}

func TestCalendarEvents_BadDate(t *testing.T) {
	mux := newFeedMux(&fakeDashboard{}, &fakeCalendar{})

	rec := serveFeed(mux, "/api/calendar/events?date=20-10-2026")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCalendarSchedule(t *testing.T) {
	entry := domain.CalendarEntry{Title: "Math", Start: fixedNow(), End: fixedNow().Add(time.Hour)}

	t.Run("teacher", func(t *testing.T) {
		cal := &fakeCalendar{entries: []domain.CalendarEntry{entry}}
		rec := serveFeed(newFeedMux(&fakeDashboard{}, cal), "/api/calendar/schedule?type=teacherId&id=t1")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if cal.teacherID != "t1" {
			t.Errorf("teacherID = %q", cal.teacherID)
		}
		var got []domain.CalendarEntry
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Math" {
			t.Errorf("entries = %+v", got)
		}
	})

	t.Run("class", func(t *testing.T) {
		cal := &fakeCalendar{}
		rec := serveFeed(newFeedMux(&fakeDashboard{}, cal), "/api/calendar/schedule?type=classId&id=4")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(cal.classIDs) != 1 || cal.classIDs[0] != 4 {
			t.Errorf("classIDs = %v", cal.classIDs)
		}
	})

	for name, query := range map[string]string{
		"missing id":       "?type=teacherId",
		"bad class id":     "?type=classId&id=x",
		"class id too big": "?type=classId&id=4294967300",
		"unknown type":     "?type=roomId&id=1",
		"missing type":     "?id=1",
	} {
		t.Run(name, func(t *testing.T) {
			rec := serveFeed(newFeedMux(&fakeDashboard{}, &fakeCalendar{}), "/api/calendar/schedule"+query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
