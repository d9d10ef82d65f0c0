package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// CalendarQueries is the slice of repository.Queries the calendar needs.
type CalendarQueries interface {
	CountEvents(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListEvents(ctx context.Context, arg repository.ListEventsParams) ([]repository.ListEventsRow, error)
	ListEventsOnDate(ctx context.Context, arg repository.ListEventsOnDateParams) ([]repository.ListEventsRow, error)
	CountAnnouncements(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListAnnouncements(ctx context.Context, arg repository.ListAnnouncementsParams) ([]repository.ListAnnouncementsRow, error)
	ListLatestAnnouncements(ctx context.Context, arg repository.LessonScopedParams, limit int32) ([]repository.ListAnnouncementsRow, error)
	ListLessonsByTeacher(ctx context.Context, teacherID string) ([]repository.ListLessonsRow, error)
	ListLessonsByClasses(ctx context.Context, classIds []int64) ([]repository.ListLessonsRow, error)
	GetStudentClass(ctx context.Context, studentID string) (repository.Class, error)
	ListChildrenByParent(ctx context.Context, parentID string) ([]repository.ListChildrenByParentRow, error)
}

// CalendarService serves events, announcements and weekly timetables.
//
// Events and announcements without a class are school-wide and visible to
// every role; class-bound ones follow ListParams.Scope.
type CalendarService interface {
	ListEvents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Event], error)
	ListAnnouncements(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Announcement], error)

	// EventsOn returns events starting on the calendar day of day.
	EventsOn(ctx context.Context, day time.Time) ([]domain.Event, error)

	// LatestAnnouncements returns up to n of the newest visible announcements.
	LatestAnnouncements(ctx context.Context, scope domain.Scope, n int) ([]domain.Announcement, error)

	// TeacherSchedule projects a teacher's lessons onto the week of now.
	TeacherSchedule(ctx context.Context, teacherID string, now time.Time) ([]domain.CalendarEntry, error)

	// ClassSchedule projects the lessons of the classes onto the week of now.
	ClassSchedule(ctx context.Context, classIDs []int, now time.Time) ([]domain.CalendarEntry, error)

	// StudentClass returns the class a student belongs to.
	StudentClass(ctx context.Context, studentID string) (*domain.Class, error)

	// Children lists a parent's children with their class.
	Children(ctx context.Context, parentID string) ([]domain.Student, error)
}

type calendarService struct {
	queries CalendarQueries
	logger  *slog.Logger
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(queries CalendarQueries, logger *slog.Logger) CalendarService {
	return &calendarService{queries: queries, logger: logger}
}

func (s *calendarService) ListEvents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Event], error) {
	const op = "CalendarService.ListEvents"

	arg := visibilityScope(p)
	total, err := s.queries.CountEvents(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count events", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list events")
	}

	rows, err := s.queries.ListEvents(ctx, repository.ListEventsParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list events", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list events")
	}

	items := make([]domain.Event, len(rows))
	for i, r := range rows {
		items[i] = repoEventToDomain(r)
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *calendarService) ListAnnouncements(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Announcement], error) {
	const op = "CalendarService.ListAnnouncements"

	arg := visibilityScope(p)
	total, err := s.queries.CountAnnouncements(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count announcements", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list announcements")
	}

	rows, err := s.queries.ListAnnouncements(ctx, repository.ListAnnouncementsParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list announcements", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list announcements")
	}

	items := make([]domain.Announcement, len(rows))
	for i, r := range rows {
		items[i] = repoAnnouncementToDomain(r)
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *calendarService) EventsOn(ctx context.Context, day time.Time) ([]domain.Event, error) {
	const op = "CalendarService.EventsOn"

	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	rows, err := s.queries.ListEventsOnDate(ctx, repository.ListEventsOnDateParams{
		From: from,
		To:   from.AddDate(0, 0, 1),
	})
	if err != nil {
		s.logger.Error("failed to list events on date", "error", err, "op", op, "date", from.Format(time.DateOnly))
		return nil, domain.Internal(err, op, "Failed to load events")
	}

	events := make([]domain.Event, len(rows))
	for i, r := range rows {
		events[i] = repoEventToDomain(r)
	}
	return events, nil
}

func (s *calendarService) LatestAnnouncements(ctx context.Context, scope domain.Scope, n int) ([]domain.Announcement, error) {
	const op = "CalendarService.LatestAnnouncements"

	rows, err := s.queries.ListLatestAnnouncements(ctx, visibilityScope(domain.ListParams{Scope: scope}), int32(n))
	if err != nil {
		s.logger.Error("failed to list latest announcements", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load announcements")
	}

	items := make([]domain.Announcement, len(rows))
	for i, r := range rows {
		items[i] = repoAnnouncementToDomain(r)
	}
	return items, nil
}

func (s *calendarService) TeacherSchedule(ctx context.Context, teacherID string, now time.Time) ([]domain.CalendarEntry, error) {
	const op = "CalendarService.TeacherSchedule"

	rows, err := s.queries.ListLessonsByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("failed to list teacher lessons", "error", err, "op", op, "teacher_id", teacherID)
		return nil, domain.Internal(err, op, "Failed to load schedule")
	}
	return scheduleFromRows(rows, now), nil
}

func (s *calendarService) ClassSchedule(ctx context.Context, classIDs []int, now time.Time) ([]domain.CalendarEntry, error) {
	const op = "CalendarService.ClassSchedule"

	if len(classIDs) == 0 {
		return []domain.CalendarEntry{}, nil
	}
	ids := make([]int64, len(classIDs))
	for i, id := range classIDs {
		ids[i] = int64(id)
	}

	rows, err := s.queries.ListLessonsByClasses(ctx, ids)
	if err != nil {
		s.logger.Error("failed to list class lessons", "error", err, "op", op, "class_ids", classIDs)
		return nil, domain.Internal(err, op, "Failed to load schedule")
	}
	return scheduleFromRows(rows, now), nil
}

func (s *calendarService) StudentClass(ctx context.Context, studentID string) (*domain.Class, error) {
	const op = "CalendarService.StudentClass"

	c, err := s.queries.GetStudentClass(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "student", studentID)
		}
		s.logger.Error("failed to get student class", "error", err, "op", op, "student_id", studentID)
		return nil, domain.Internal(err, op, "Failed to load class")
	}

	return &domain.Class{
		ID:           int(c.ID),
		Name:         c.Name,
		Capacity:     int(c.Capacity),
		GradeID:      int(c.GradeID),
		SupervisorID: fromNullString(c.SupervisorID),
	}, nil
}

func (s *calendarService) Children(ctx context.Context, parentID string) ([]domain.Student, error) {
	const op = "CalendarService.Children"

	rows, err := s.queries.ListChildrenByParent(ctx, parentID)
	if err != nil {
		s.logger.Error("failed to list children", "error", err, "op", op, "parent_id", parentID)
		return nil, domain.Internal(err, op, "Failed to load children")
	}

	children := make([]domain.Student, len(rows))
	for i, r := range rows {
		children[i] = domain.Student{
			ID:        r.ID,
			Name:      r.Name,
			Surname:   r.Surname,
			ParentID:  parentID,
			ClassID:   int(r.ClassID),
			ClassName: r.ClassName,
		}
	}
	return children, nil
}

func scheduleFromRows(rows []repository.ListLessonsRow, now time.Time) []domain.CalendarEntry {
	lessons := make([]domain.Lesson, len(rows))
	for i, r := range rows {
		lessons[i] = repoLessonToDomain(r)
	}
	return domain.AdjustScheduleToCurrentWeek(lessons, now)
}
