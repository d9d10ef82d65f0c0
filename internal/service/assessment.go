package service

import (
	"context"
	"log/slog"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// AssessmentQueries is the slice of repository.Queries assessments need.
type AssessmentQueries interface {
	CountExams(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListExams(ctx context.Context, arg repository.ListExamsParams) ([]repository.ListExamsRow, error)
	CountAssignments(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListAssignments(ctx context.Context, arg repository.ListAssignmentsParams) ([]repository.ListAssignmentsRow, error)
	CountResults(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListResults(ctx context.Context, arg repository.ListResultsParams) ([]repository.ListResultsRow, error)
	CountAttendances(ctx context.Context, arg repository.LessonScopedParams) (int64, error)
	ListAttendances(ctx context.Context, arg repository.ListAttendancesParams) ([]repository.ListAttendancesRow, error)
}

// AssessmentService lists exams, assignments, results and attendance.
//
// Every list honours ListParams.Scope: teachers see their own lessons,
// students their class (results and attendance: their own), parents their
// children's classes (results and attendance: their children).
type AssessmentService interface {
	ListExams(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Exam], error)
	ListAssignments(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Assignment], error)
	ListResults(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Result], error)
	ListAttendance(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Attendance], error)
}

type assessmentService struct {
	queries AssessmentQueries
	logger  *slog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(queries AssessmentQueries, logger *slog.Logger) AssessmentService {
	return &assessmentService{queries: queries, logger: logger}
}

func (s *assessmentService) ListExams(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Exam], error) {
	const op = "AssessmentService.ListExams"

	arg := lessonScope(p)
	total, err := s.queries.CountExams(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count exams", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list exams")
	}

	rows, err := s.queries.ListExams(ctx, repository.ListExamsParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list exams", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list exams")
	}

	items := make([]domain.Exam, len(rows))
	for i, r := range rows {
		items[i] = domain.Exam{
			ID:          int(r.ID),
			Title:       r.Title,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			LessonID:    int(r.LessonID),
			SubjectName: r.SubjectName,
			ClassName:   r.ClassName,
			TeacherName: r.TeacherName,
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *assessmentService) ListAssignments(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Assignment], error) {
	const op = "AssessmentService.ListAssignments"

	arg := lessonScope(p)
	total, err := s.queries.CountAssignments(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count assignments", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list assignments")
	}

	rows, err := s.queries.ListAssignments(ctx, repository.ListAssignmentsParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list assignments", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list assignments")
	}

	items := make([]domain.Assignment, len(rows))
	for i, r := range rows {
		items[i] = domain.Assignment{
			ID:          int(r.ID),
			Title:       r.Title,
			StartDate:   r.StartDate,
			DueDate:     r.DueDate,
			LessonID:    int(r.LessonID),
			SubjectName: r.SubjectName,
			ClassName:   r.ClassName,
			TeacherName: r.TeacherName,
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *assessmentService) ListResults(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Result], error) {
	const op = "AssessmentService.ListResults"

	arg := lessonScope(p)
	total, err := s.queries.CountResults(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count results", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list results")
	}

	rows, err := s.queries.ListResults(ctx, repository.ListResultsParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list results", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list results")
	}

	items := make([]domain.Result, len(rows))
	for i, r := range rows {
		items[i] = domain.Result{
			ID:          int(r.ID),
			Score:       int(r.Score),
			Title:       r.Title,
			Kind:        r.Kind,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			TeacherName: r.TeacherName,
			ClassName:   r.ClassName,
			Date:        r.Date,
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *assessmentService) ListAttendance(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Attendance], error) {
	const op = "AssessmentService.ListAttendance"

	arg := lessonScope(p)
	total, err := s.queries.CountAttendances(ctx, arg)
	if err != nil {
		s.logger.Error("failed to count attendance", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list attendance")
	}

	rows, err := s.queries.ListAttendances(ctx, repository.ListAttendancesParams{
		LessonScopedParams: arg,
		Limit:              int32(p.Limit()),
		Offset:             int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list attendance", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list attendance")
	}

	items := make([]domain.Attendance, len(rows))
	for i, r := range rows {
		items[i] = domain.Attendance{
			ID:          int(r.ID),
			Date:        r.Date,
			Present:     r.Present,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			LessonID:    int(r.LessonID),
			LessonName:  r.LessonName,
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}
