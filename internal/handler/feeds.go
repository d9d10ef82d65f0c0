// This file implements the JSON feeds behind the dashboard charts and
// calendars. The widgets themselves render client-side.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/service"
)

// EventView is an event as the calendar widget consumes it.
type EventView struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ClassName   string    `json:"className,omitempty"`
}

// FeedHandler serves /api/charts/* and /api/calendar/*.
type FeedHandler struct {
	dashboard service.DashboardService
	calendar  service.CalendarService
	logger    *slog.Logger
	now       func() time.Time
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(dashboard service.DashboardService, calendar service.CalendarService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		dashboard: dashboard,
		calendar:  calendar,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes registers the feeds. Chart data is admin only; calendar
// feeds are open to every signed-in role through the route access map.
func (h *FeedHandler) RegisterRoutes(mux *http.ServeMux, requireAdmin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/charts/count", requireAdmin(http.HandlerFunc(h.CountChart)))
	mux.Handle("GET /api/charts/attendance", requireAdmin(http.HandlerFunc(h.AttendanceChart)))
	mux.Handle("GET /api/charts/finance", requireAdmin(http.HandlerFunc(h.FinanceChart)))
	mux.HandleFunc("GET /api/calendar/events", h.Events)
	mux.HandleFunc("GET /api/calendar/schedule", h.Schedule)
}

// =============================================================================
// Charts
// =============================================================================

// CountChart returns the boys/girls split of students.
func (h *FeedHandler) CountChart(w http.ResponseWriter, r *http.Request) {
	split, err := h.dashboard.StudentSexSplit(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

// AttendanceChart returns present/absent counts for Monday to Friday of the
// current week.
func (h *FeedHandler) AttendanceChart(w http.ResponseWriter, r *http.Request) {
	days, err := h.dashboard.WeekAttendance(r.Context(), h.now())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// FinanceChart returns income and expense per month of ?year=, defaulting
// to the current year.
func (h *FeedHandler) FinanceChart(w http.ResponseWriter, r *http.Request) {
	const op = "FeedHandler.FinanceChart"

	year := h.now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.ParseInt(v, 10, 32)
		if err != nil || y < 1 {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "year must be a positive number"))
			return
		}
		year = int(y)
	}

	months, err := h.dashboard.Finance(r.Context(), year)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

// =============================================================================
// Calendars
// =============================================================================

// Events returns the events starting on ?date=YYYY-MM-DD, defaulting to today.
func (h *FeedHandler) Events(w http.ResponseWriter, r *http.Request) {
	const op = "FeedHandler.Events"

	day := h.now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.ParseInLocation(time.DateOnly, v, day.Location())
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "date must look like 2006-01-02"))
			return
		}
		day = d
	}

	events, err := h.calendar.EventsOn(r.Context(), day)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = EventView{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Start:       e.StartTime,
			End:         e.EndTime,
			ClassName:   e.ClassName,
		}
	}
	writeJSON(w, http.StatusOK, views)
}

// Schedule returns a teacher's (?type=teacherId) or a class's (?type=classId)
// lessons projected onto the current week.
func (h *FeedHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	const op = "FeedHandler.Schedule"

	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "id is required"))
		return
	}

	var (
		entries []domain.CalendarEntry
		err     error
	)
	switch q.Get("type") {
	case "teacherId":
		entries, err = h.calendar.TeacherSchedule(r.Context(), id, h.now())
	case "classId":
		classID, convErr := strconv.ParseInt(id, 10, 32)
		if convErr != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "classId must be a number"))
			return
		}
		entries, err = h.calendar.ClassSchedule(r.Context(), []int{int(classID)}, h.now())
	default:
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "type must be teacherId or classId"))
		return
	}
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
