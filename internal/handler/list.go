// This file implements the paginated list pages under /list/{entity}.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/pagination"
	"github.com/DukeRupert/schooldash/internal/service"
)

// =============================================================================
// Template Data Types
// =============================================================================

// Column is a table header. Class hides secondary columns on small screens.
type Column struct {
	Header string
	Class  string
}

// Cell is one table cell. Img and Sub turn it into the photo + name + caption
// layout used for people.
type Cell struct {
	Text string
	Sub  string
	Img  string
	Href string
}

// Row is one table row.
type Row struct {
	Cells []Cell
}

// ListPageData contains data for every list page.
type ListPageData struct {
	PageData
	Entity  string
	Columns []Column
	Rows    []Row
	Total   int
	Search  string
	Window  pagination.Window
	BaseURL *url.URL
}

// =============================================================================
// Entity Registry
// =============================================================================

type fetchFunc func(ctx context.Context, p domain.ListParams) (rows []Row, total int, err error)

type listSource struct {
	title   string
	columns []Column
	fetch   fetchFunc
}

// rowsOf adapts a typed list operation into a fetchFunc.
func rowsOf[T any](list func(context.Context, domain.ListParams) (*domain.ListResult[T], error), toRow func(T) Row) fetchFunc {
	return func(ctx context.Context, p domain.ListParams) ([]Row, int, error) {
		res, err := list(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]Row, 0, len(res.Items))
		for _, item := range res.Items {
			rows = append(rows, toRow(item))
		}
		return rows, res.Total, nil
	}
}

const (
	md = "hidden md:table-cell"
	lg = "hidden lg:table-cell"
)

// ListHandler serves /list/{entity}.
type ListHandler struct {
	sources  map[string]listSource
	renderer *Renderer
	perPage  int
	delta    int
	logger   *slog.Logger
}

// ListServices are the services backing the list pages.
type ListServices struct {
	Directory  service.DirectoryService
	Academic   service.AcademicService
	Assessment service.AssessmentService
	Calendar   service.CalendarService
	Grades     service.GradeService
}

// NewListHandler creates a new ListHandler. perPage and delta come from
// ITEMS_PER_PAGE and PAGINATION_DELTA.
func NewListHandler(svc ListServices, renderer *Renderer, perPage, delta int, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		sources:  listSources(svc),
		renderer: renderer,
		perPage:  perPage,
		delta:    delta,
		logger:   logger,
	}
}

func listSources(svc ListServices) map[string]listSource {
	return map[string]listSource{
		"teachers": {
			title: "All Teachers",
			columns: []Column{
				{Header: "Info"}, {Header: "Teacher ID", Class: md}, {Header: "Subjects", Class: md},
				{Header: "Classes", Class: md}, {Header: "Phone", Class: lg}, {Header: "Address", Class: lg},
			},
			fetch: rowsOf(svc.Directory.ListTeachers, teacherRow),
		},
		"students": {
			title: "All Students",
			columns: []Column{
				{Header: "Info"}, {Header: "Student ID", Class: md}, {Header: "Grade", Class: md},
				{Header: "Phone", Class: lg}, {Header: "Address", Class: lg},
			},
			fetch: rowsOf(svc.Directory.ListStudents, studentRow),
		},
		"parents": {
			title: "All Parents",
			columns: []Column{
				{Header: "Info"}, {Header: "Student Names", Class: md},
				{Header: "Phone", Class: lg}, {Header: "Address", Class: lg},
			},
			fetch: rowsOf(svc.Directory.ListParents, parentRow),
		},
		"subjects": {
			title:   "All Subjects",
			columns: []Column{{Header: "Subject Name"}, {Header: "Teachers", Class: md}},
			fetch:   rowsOf(svc.Academic.ListSubjects, subjectRow),
		},
		"classes": {
			title: "All Classes",
			columns: []Column{
				{Header: "Class Name"}, {Header: "Capacity", Class: md},
				{Header: "Grade", Class: md}, {Header: "Supervisor", Class: md},
			},
			fetch: rowsOf(svc.Academic.ListClasses, classRow),
		},
		"lessons": {
			title: "All Lessons",
			columns: []Column{
				{Header: "Subject Name"}, {Header: "Class"}, {Header: "Teacher", Class: md},
				{Header: "Day", Class: md}, {Header: "Time", Class: lg},
			},
			fetch: rowsOf(svc.Academic.ListLessons, lessonRow),
		},
		"exams": {
			title: "All Exams",
			columns: []Column{
				{Header: "Subject Name"}, {Header: "Class"}, {Header: "Teacher", Class: md}, {Header: "Date", Class: md},
			},
			fetch: rowsOf(svc.Assessment.ListExams, examRow),
		},
		"assignments": {
			title: "All Assignments",
			columns: []Column{
				{Header: "Subject Name"}, {Header: "Class"}, {Header: "Teacher", Class: md}, {Header: "Due Date", Class: md},
			},
			fetch: rowsOf(svc.Assessment.ListAssignments, assignmentRow),
		},
		"results": {
			title: "All Results",
			columns: []Column{
				{Header: "Title"}, {Header: "Student"}, {Header: "Score", Class: md},
				{Header: "Teacher", Class: md}, {Header: "Class", Class: md}, {Header: "Date", Class: md},
			},
			fetch: rowsOf(svc.Assessment.ListResults, resultRow),
		},
		"attendance": {
			title: "Attendance",
			columns: []Column{
				{Header: "Student"}, {Header: "Lesson"}, {Header: "Date", Class: md}, {Header: "Status"},
			},
			fetch: rowsOf(svc.Assessment.ListAttendance, attendanceRow),
		},
		"events": {
			title: "All Events",
			columns: []Column{
				{Header: "Title"}, {Header: "Class"}, {Header: "Date", Class: md},
				{Header: "Start Time", Class: md}, {Header: "End Time", Class: md},
			},
			fetch: rowsOf(svc.Calendar.ListEvents, eventRow),
		},
		"announcements": {
			title: "All Announcements",
			columns: []Column{
				{Header: "Title"}, {Header: "Class"}, {Header: "Date", Class: md},
			},
			fetch: rowsOf(svc.Calendar.ListAnnouncements, announcementRow),
		},
		"grades": {
			title:   "All Grades",
			columns: []Column{{Header: "Level"}, {Header: "Classes", Class: md}},
			fetch:   rowsOf(svc.Grades.List, gradeRow),
		},
	}
}

// =============================================================================
// GET /list/{entity}
// =============================================================================

// Index renders one page of the entity's table with its pagination bar.
func (h *ListHandler) Index(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	src, ok := h.sources[entity]
	if !ok {
		NotFoundResponse(w, r, h.logger)
		return
	}

	id := auth.GetIdentityFromRequest(r)
	if id == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	params, err := parseListParams(r.URL.Query(), h.perPage)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	params.Scope = domain.ScopeFor(*id)

	rows, total, err := src.fetch(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := ListPageData{
		PageData: newPageData(r, src.title),
		Entity:   entity,
		Columns:  src.columns,
		Rows:     rows,
		Total:    total,
		Search:   params.Search,
		Window:   pagination.Compute(params.Page, total, h.perPage, h.delta),
		BaseURL:  r.URL,
	}

	metrics.ListRendered(entity)
	h.renderer.RenderHTTP(w, "list/index", data)
}

// parseListParams reads page, search and the optional filters. Malformed
// class IDs are ignored rather than rejected; numbers outside the ID range
// are invalid.
func parseListParams(q url.Values, perPage int) (domain.ListParams, error) {
	p := domain.ListParams{
		Page:         pagination.ParsePage(q),
		PerPage:      perPage,
		Search:       strings.TrimSpace(q.Get("search")),
		TeacherID:    q.Get("teacherId"),
		StudentID:    q.Get("studentId"),
		SupervisorID: q.Get("supervisorId"),
	}
	classID, err := strconv.ParseInt(q.Get("classId"), 10, 32)
	switch {
	case err == nil:
		p.ClassID = int(classID)
	case errors.Is(err, strconv.ErrRange):
		return p, domain.Invalid("ListHandler.Index", "classId is out of range")
	}
	return p, nil
}

// =============================================================================
// Row builders
// =============================================================================

func teacherRow(t domain.Teacher) Row {
	return Row{Cells: []Cell{
		{Text: t.FullName(), Sub: t.Email, Img: avatarOrDefault(t.Img), Href: "/list/teachers/" + url.PathEscape(t.ID)},
		{Text: t.Username},
		{Text: strings.Join(t.Subjects, ", ")},
		{Text: strings.Join(t.Classes, ", ")},
		{Text: t.Phone},
		{Text: t.Address},
	}}
}

func studentRow(s domain.Student) Row {
	return Row{Cells: []Cell{
		{Text: s.FullName(), Sub: s.ClassName, Img: avatarOrDefault(s.Img), Href: "/list/students/" + url.PathEscape(s.ID)},
		{Text: s.Username},
		{Text: strconv.Itoa(s.GradeLevel)},
		{Text: s.Phone},
		{Text: s.Address},
	}}
}

func parentRow(p domain.Parent) Row {
	return Row{Cells: []Cell{
		{Text: p.FullName(), Sub: p.Email},
		{Text: strings.Join(p.Students, ", ")},
		{Text: p.Phone},
		{Text: p.Address},
	}}
}

func subjectRow(s domain.Subject) Row {
	return Row{Cells: []Cell{
		{Text: s.Name},
		{Text: strings.Join(s.Teachers, ", ")},
	}}
}

func classRow(c domain.Class) Row {
	return Row{Cells: []Cell{
		{Text: c.Name},
		{Text: strconv.Itoa(c.Capacity)},
		{Text: strconv.Itoa(c.GradeLevel)},
		{Text: c.SupervisorName},
	}}
}

func lessonRow(l domain.Lesson) Row {
	return Row{Cells: []Cell{
		{Text: l.SubjectName},
		{Text: l.ClassName},
		{Text: l.TeacherName},
		{Text: titleCase(string(l.Day))},
		{Text: l.StartTime.Format("15:04") + " - " + l.EndTime.Format("15:04")},
	}}
}

func examRow(e domain.Exam) Row {
	return Row{Cells: []Cell{
		{Text: e.SubjectName},
		{Text: e.ClassName},
		{Text: e.TeacherName},
		{Text: formatDay(e.StartTime)},
	}}
}

func assignmentRow(a domain.Assignment) Row {
	return Row{Cells: []Cell{
		{Text: a.SubjectName},
		{Text: a.ClassName},
		{Text: a.TeacherName},
		{Text: formatDay(a.DueDate)},
	}}
}

func resultRow(res domain.Result) Row {
	return Row{Cells: []Cell{
		{Text: res.Title, Sub: res.Kind},
		{Text: res.StudentName},
		{Text: strconv.Itoa(res.Score)},
		{Text: res.TeacherName},
		{Text: res.ClassName},
		{Text: formatDay(res.Date)},
	}}
}

func attendanceRow(a domain.Attendance) Row {
	status := "Absent"
	if a.Present {
		status = "Present"
	}
	return Row{Cells: []Cell{
		{Text: a.StudentName},
		{Text: a.LessonName},
		{Text: formatDay(a.Date)},
		{Text: status},
	}}
}

func eventRow(e domain.Event) Row {
	return Row{Cells: []Cell{
		{Text: e.Title, Sub: e.Description},
		{Text: classOrAll(e.ClassName)},
		{Text: formatDay(e.StartTime)},
		{Text: e.StartTime.Format("15:04")},
		{Text: e.EndTime.Format("15:04")},
	}}
}

func announcementRow(a domain.Announcement) Row {
	return Row{Cells: []Cell{
		{Text: a.Title, Sub: a.Description},
		{Text: classOrAll(a.ClassName)},
		{Text: formatDay(a.Date)},
	}}
}

func gradeRow(g domain.Grade) Row {
	return Row{Cells: []Cell{
		{Text: fmt.Sprintf("Grade %d", g.Level)},
		{Text: strconv.Itoa(g.ClassCount)},
	}}
}

func avatarOrDefault(img string) string {
	if img == "" {
		return noAvatar
	}
	return img
}

func classOrAll(name string) string {
	if name == "" {
		return "All classes"
	}
	return name
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
