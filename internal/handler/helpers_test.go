package handler

import (
	"context"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/service"
)

// testTemplates is a minimal template tree with the same layout as web/templates.
var testTemplates = fstest.MapFS{
	"layouts/app.html":    {Data: []byte(`{{define "app"}}<title>{{.Title}}</title>{{template "sidebar" .}}<main>{{template "content" .}}</main>{{end}}`)},
	"layouts/public.html": {Data: []byte(`{{define "public"}}<body>{{template "content" .}}</body>{{end}}`)},
	"components/sidebar.html": {Data: []byte(
		`{{define "sidebar"}}<nav>{{range .Menu}}{{range .Items}}<a href="{{.Href}}">{{.Label}}</a>{{end}}{{end}}</nav>{{end}}`)},
	"partials/toast.html":  {Data: []byte(`{{define "toast"}}<div hx-swap-oob="beforeend:#toast-container" class="{{.Type}}">{{.Message}}</div>{{end}}`)},
	"partials/avatar.html": {Data: []byte(`{{define "avatar"}}<img id="avatar" src="{{.URL}}" alt="{{.Alt}}">{{end}}`)},
	"pages/public/home.html": {Data: []byte(`{{define "content"}}public home{{end}}`)},
	"pages/list/index.html": {Data: []byte(
		`{{define "content"}}<h1>{{.Title}}</h1><span id="total">{{.Total}}</span>` +
			`<table>{{range .Columns}}<th>{{.Header}}</th>{{end}}{{range .Rows}}<tr>{{range .Cells}}<td>{{.Text}}</td>{{end}}</tr>{{end}}</table>` +
			`{{pagination .Window .BaseURL}}{{end}}`)},
	"pages/list/teacher.html": {Data: []byte(
		`{{define "content"}}<h1>{{.Teacher.FullName}}</h1><div data-schedule="{{.ScheduleURL}}"></div>` +
			`{{if .CanEdit}}<form>{{csrfField .CSRFToken}}</form>{{end}}{{end}}`)},
	"pages/list/student.html": {Data: []byte(
		`{{define "content"}}<h1>{{.Student.FullName}}</h1><span>{{percent .Student.AttendancePercent}}</span>{{end}}`)},
	"pages/dashboards/admin.html": {Data: []byte(
		`{{define "content"}}<span id="students">{{number .Counts.Students}}</span>{{range .Events}}<p>{{.Title}}</p>{{end}}{{range .Announcements}}<p>{{.Title}}</p>{{end}}{{end}}`)},
	"pages/dashboards/teacher.html": {Data: []byte(`{{define "content"}}<div data-schedule="{{.ScheduleURL}}"></div>{{end}}`)},
	"pages/dashboards/student.html": {Data: []byte(`{{define "content"}}<h2>{{.Class.Name}}</h2><div data-schedule="{{.ScheduleURL}}"></div>{{end}}`)},
	"pages/dashboards/parent.html": {Data: []byte(
		`{{define "content"}}{{range .Children}}<h2>{{.Student.Name}}</h2><div data-schedule="{{.ScheduleURL}}"></div>{{end}}{{end}}`)},
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{FS: testTemplates, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func withRole(r *http.Request, role domain.Role, userID string) *http.Request {
	return r.WithContext(auth.SetIdentity(r.Context(), &domain.Identity{UserID: userID, Role: role}))
}

// fixedNow is Thursday 2026-10-15 09:00 UTC.
func fixedNow() time.Time {
	return time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
}

// =============================================================================
// Fake services
// =============================================================================

type fakeDirectory struct {
	service.DirectoryService
	teachers []domain.Teacher
	total    int
	params   domain.ListParams
	teacher  *domain.TeacherProfile
	student  *domain.StudentProfile
	err      error
}

func (f *fakeDirectory) ListTeachers(_ context.Context, p domain.ListParams) (*domain.ListResult[domain.Teacher], error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewListResult(f.teachers, f.total, p), nil
}

func (f *fakeDirectory) GetTeacher(_ context.Context, id string) (*domain.TeacherProfile, error) {
	if f.teacher == nil || f.teacher.ID != id {
		return nil, domain.NotFound("DirectoryService.GetTeacher", "teacher", id)
	}
	return f.teacher, nil
}

func (f *fakeDirectory) GetStudent(_ context.Context, id string) (*domain.StudentProfile, error) {
	if f.student == nil || f.student.ID != id {
		return nil, domain.NotFound("DirectoryService.GetStudent", "student", id)
	}
	return f.student, nil
}

type fakeAcademic struct{ service.AcademicService }

type fakeAssessment struct {
	service.AssessmentService
	params domain.ListParams
}

func (f *fakeAssessment) ListExams(_ context.Context, p domain.ListParams) (*domain.ListResult[domain.Exam], error) {
	f.params = p
	return domain.NewListResult([]domain.Exam{{ID: 1, SubjectName: "Math", ClassName: "1A", TeacherName: "Ann Lee"}}, 1, p), nil
}

type fakeCalendar struct {
	service.CalendarService
	events        []domain.Event
	eventsDay     time.Time
	announcements []domain.Announcement
	scope         domain.Scope
	class         *domain.Class
	children      []domain.Student
	entries       []domain.CalendarEntry
	teacherID     string
	classIDs      []int
}

func (f *fakeCalendar) EventsOn(_ context.Context, day time.Time) ([]domain.Event, error) {
	f.eventsDay = day
	return f.events, nil
}

func (f *fakeCalendar) LatestAnnouncements(_ context.Context, scope domain.Scope, _ int) ([]domain.Announcement, error) {
	f.scope = scope
	return f.announcements, nil
}

func (f *fakeCalendar) StudentClass(_ context.Context, studentID string) (*domain.Class, error) {
	if f.class == nil {
		return nil, domain.NotFound("CalendarService.StudentClass", "student", studentID)
	}
	return f.class, nil
}

func (f *fakeCalendar) Children(context.Context, string) ([]domain.Student, error) {
	return f.children, nil
}

func (f *fakeCalendar) TeacherSchedule(_ context.Context, teacherID string, _ time.Time) ([]domain.CalendarEntry, error) {
	f.teacherID = teacherID
	return f.entries, nil
}

func (f *fakeCalendar) ClassSchedule(_ context.Context, classIDs []int, _ time.Time) ([]domain.CalendarEntry, error) {
	f.classIDs = classIDs
	return f.entries, nil
}

type fakeDashboard struct {
	counts    domain.UserCounts
	split     domain.SexSplit
	financeOf int
	err       error
}

func (f *fakeDashboard) UserCounts(context.Context) (*domain.UserCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.counts, nil
}

func (f *fakeDashboard) StudentSexSplit(context.Context) (*domain.SexSplit, error) {
	return &f.split, nil
}

func (f *fakeDashboard) WeekAttendance(context.Context, time.Time) ([]domain.DayAttendance, error) {
	return []domain.DayAttendance{{Day: "Mon", Present: 3, Absent: 1}}, nil
}

func (f *fakeDashboard) Finance(_ context.Context, year int) ([]domain.MonthFinance, error) {
	f.financeOf = year
	return []domain.MonthFinance{{Month: "Jan", Income: 10, Expense: 5}}, nil
}

type fakeGrades struct {
	grades map[int]domain.Grade
	nextID int
	params domain.ListParams
	byID   int
}

func newFakeGrades(levels ...int) *fakeGrades {
	f := &fakeGrades{grades: map[int]domain.Grade{}, nextID: 1}
	for _, l := range levels {
		f.grades[f.nextID] = domain.Grade{ID: f.nextID, Level: l}
		f.nextID++
	}
	return f
}

func (f *fakeGrades) List(_ context.Context, p domain.ListParams) (*domain.ListResult[domain.Grade], error) {
	f.params = p
	items := make([]domain.Grade, 0, len(f.grades))
	for id := 1; id < f.nextID; id++ {
		if g, ok := f.grades[id]; ok {
			items = append(items, g)
		}
	}
	return domain.NewListResult(items, len(items), p), nil
}

func (f *fakeGrades) Get(_ context.Context, id int) (*domain.Grade, error) {
	f.byID++
	g, ok := f.grades[id]
	if !ok {
		return nil, domain.NotFound("GradeService.Get", "grade", "x")
	}
	return &g, nil
}

func (f *fakeGrades) Create(_ context.Context, in domain.GradeInput) (*domain.Grade, error) {
	if in.Level < domain.MinGradeLevel || in.Level > domain.MaxGradeLevel {
		return nil, domain.NewValidationError("GradeService.Create", "level", "Level must be between 1 and 12")
	}
	for _, g := range f.grades {
		if g.Level == in.Level {
			return nil, domain.Conflict("GradeService.Create", "Grade level already exists")
		}
	}
	g := domain.Grade{ID: f.nextID, Level: in.Level}
	f.grades[g.ID] = g
	f.nextID++
	return &g, nil
}

func (f *fakeGrades) Update(_ context.Context, id int, in domain.GradeInput) (*domain.Grade, error) {
	f.byID++
	g, ok := f.grades[id]
	if !ok {
		return nil, domain.NotFound("GradeService.Update", "grade", "x")
	}
	g.Level = in.Level
	f.grades[id] = g
	return &g, nil
}

func (f *fakeGrades) Delete(_ context.Context, id int) error {
	f.byID++
	if _, ok := f.grades[id]; !ok {
		return domain.NotFound("GradeService.Delete", "grade", "x")
	}
	delete(f.grades, id)
	return nil
}

type fakePhotos struct {
	got domain.PhotoUpload
	url string
	err error
}

func (f *fakePhotos) Upload(_ context.Context, in domain.PhotoUpload) (string, error) {
	f.got = in
	return f.url, f.err
}
