// This file implements the home redirect and the four role dashboards.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/service"
)

// latestAnnouncements is how many announcements each dashboard shows.
const latestAnnouncements = 3

// =============================================================================
// Template Data Types
// =============================================================================

// AdminDashboardData contains data for the admin dashboard.
type AdminDashboardData struct {
	PageData
	Counts        *domain.UserCounts
	Today         time.Time
	Year          int
	Events        []domain.Event
	Announcements []domain.Announcement
}

// TeacherDashboardData contains data for the teacher dashboard.
type TeacherDashboardData struct {
	PageData
	ScheduleURL   string
	Announcements []domain.Announcement
}

// StudentDashboardData contains data for the student dashboard.
type StudentDashboardData struct {
	PageData
	Class         *domain.Class
	ScheduleURL   string
	Today         time.Time
	Events        []domain.Event
	Announcements []domain.Announcement
}

// ChildSchedule is one child's timetable on the parent dashboard.
type ChildSchedule struct {
	Student     domain.Student
	ScheduleURL string
}

// ParentDashboardData contains data for the parent dashboard.
type ParentDashboardData struct {
	PageData
	Children      []ChildSchedule
	Announcements []domain.Announcement
}

// =============================================================================
// Handler Configuration
// =============================================================================

// DashboardHandler serves "/" and the role dashboards.
type DashboardHandler struct {
	dashboard service.DashboardService
	calendar  service.CalendarService
	renderer  *Renderer
	logger    *slog.Logger
	now       func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	dashboard service.DashboardService,
	calendar service.CalendarService,
	renderer *Renderer,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		calendar:  calendar,
		renderer:  renderer,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes registers the home and dashboard routes. Role checks for the
// dashboards come from the route access map.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", h.Home)
	mux.HandleFunc("GET /admin", h.Admin)
	mux.HandleFunc("GET /teacher", h.Teacher)
	mux.HandleFunc("GET /student", h.Student)
	mux.HandleFunc("GET /parent", h.Parent)
}

// ScheduleURL is the calendar feed for a teacher ("teacherId") or a class
// ("classId").
func ScheduleURL(kind, id string) string {
	q := url.Values{}
	q.Set("type", kind)
	q.Set("id", id)
	return "/api/calendar/schedule?" + q.Encode()
}

// =============================================================================
// GET /
// =============================================================================

// Home sends signed-in users to their dashboard and shows the public home
// page to everyone else.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		NotFoundResponse(w, r, h.logger)
		return
	}

	if id := auth.GetIdentityFromRequest(r); id != nil {
		http.Redirect(w, r, id.Role.HomePath(), http.StatusSeeOther)
		return
	}

	h.renderer.RenderHTTP(w, "public/home", newPageData(r, "School Dashboard"))
}

// =============================================================================
// Role dashboards
// =============================================================================

// Admin renders the user count cards, today's events and the latest
// announcements. Charts load from /api/charts/*.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now()

	counts, err := h.dashboard.UserCounts(ctx)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	events, err := h.calendar.EventsOn(ctx, now)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	announcements, err := h.calendar.LatestAnnouncements(ctx, domain.Scope{}, latestAnnouncements)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderHTTP(w, "dashboards/admin", AdminDashboardData{
		PageData:      newPageData(r, "Admin"),
		Counts:        counts,
		Today:         now,
		Year:          now.Year(),
		Events:        events,
		Announcements: announcements,
	})
}

// Teacher renders the teacher's weekly schedule and announcements.
func (h *DashboardHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	id := auth.GetIdentityFromRequest(r)
	if id == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	announcements, err := h.calendar.LatestAnnouncements(r.Context(), domain.ScopeFor(*id), latestAnnouncements)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderHTTP(w, "dashboards/teacher", TeacherDashboardData{
		PageData:      newPageData(r, "Teacher"),
		ScheduleURL:   ScheduleURL("teacherId", id.UserID),
		Announcements: announcements,
	})
}

// Student renders the student's class schedule, today's events and
// announcements.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	id := auth.GetIdentityFromRequest(r)
	if id == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}
	ctx := r.Context()
	now := h.now()

	class, err := h.calendar.StudentClass(ctx, id.UserID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	events, err := h.calendar.EventsOn(ctx, now)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	announcements, err := h.calendar.LatestAnnouncements(ctx, domain.ScopeFor(*id), latestAnnouncements)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderHTTP(w, "dashboards/student", StudentDashboardData{
		PageData:      newPageData(r, "Student"),
		Class:         class,
		ScheduleURL:   ScheduleURL("classId", strconv.Itoa(class.ID)),
		Today:         now,
		Events:        events,
		Announcements: announcements,
	})
}

// Parent renders one schedule per child plus announcements.
func (h *DashboardHandler) Parent(w http.ResponseWriter, r *http.Request) {
	id := auth.GetIdentityFromRequest(r)
	if id == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}
	ctx := r.Context()

	children, err := h.calendar.Children(ctx, id.UserID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	announcements, err := h.calendar.LatestAnnouncements(ctx, domain.ScopeFor(*id), latestAnnouncements)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	schedules := make([]ChildSchedule, len(children))
	for i, child := range children {
		schedules[i] = ChildSchedule{
			Student:     child,
			ScheduleURL: ScheduleURL("classId", strconv.Itoa(child.ClassID)),
		}
	}

	h.renderer.RenderHTTP(w, "dashboards/parent", ParentDashboardData{
		PageData:      newPageData(r, "Parent"),
		Children:      schedules,
		Announcements: announcements,
	})
}
