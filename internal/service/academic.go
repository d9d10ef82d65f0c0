package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// AcademicQueries is the slice of repository.Queries the academic lists need.
type AcademicQueries interface {
	CountSubjects(ctx context.Context, search string) (int64, error)
	ListSubjects(ctx context.Context, arg repository.ListSubjectsParams) ([]repository.ListSubjectsRow, error)
	CountClasses(ctx context.Context, arg repository.CountClassesParams) (int64, error)
	ListClasses(ctx context.Context, arg repository.ListClassesParams) ([]repository.ListClassesRow, error)
	CountLessons(ctx context.Context, arg repository.CountLessonsParams) (int64, error)
	ListLessons(ctx context.Context, arg repository.ListLessonsParams) ([]repository.ListLessonsRow, error)
}

// AcademicService lists subjects, classes and lessons.
type AcademicService interface {
	ListSubjects(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Subject], error)

	// ListClasses filters by Search and SupervisorID.
	ListClasses(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Class], error)

	// ListLessons filters by Search (subject or teacher), ClassID and TeacherID.
	ListLessons(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Lesson], error)
}

type academicService struct {
	queries AcademicQueries
	logger  *slog.Logger
}

// NewAcademicService creates a new AcademicService.
func NewAcademicService(queries AcademicQueries, logger *slog.Logger) AcademicService {
	return &academicService{queries: queries, logger: logger}
}

func (s *academicService) ListSubjects(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Subject], error) {
	const op = "AcademicService.ListSubjects"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountSubjects(ctx, search)
	if err != nil {
		s.logger.Error("failed to count subjects", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list subjects")
	}

	rows, err := s.queries.ListSubjects(ctx, repository.ListSubjectsParams{
		Search: search,
		Limit:  int32(p.Limit()),
		Offset: int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list subjects", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list subjects")
	}

	items := make([]domain.Subject, len(rows))
	for i, r := range rows {
		items[i] = domain.Subject{
			ID:       int(r.ID),
			Name:     r.Name,
			Teachers: splitNames(r.Teachers),
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *academicService) ListClasses(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Class], error) {
	const op = "AcademicService.ListClasses"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountClasses(ctx, repository.CountClassesParams{
		Search:       search,
		SupervisorID: p.SupervisorID,
	})
	if err != nil {
		s.logger.Error("failed to count classes", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list classes")
	}

	rows, err := s.queries.ListClasses(ctx, repository.ListClassesParams{
		Search:       search,
		SupervisorID: p.SupervisorID,
		Limit:        int32(p.Limit()),
		Offset:       int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list classes", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list classes")
	}

	items := make([]domain.Class, len(rows))
	for i, r := range rows {
		items[i] = domain.Class{
			ID:             int(r.ID),
			Name:           r.Name,
			Capacity:       int(r.Capacity),
			GradeID:        int(r.GradeID),
			GradeLevel:     int(r.GradeLevel),
			SupervisorID:   fromNullString(r.SupervisorID),
			SupervisorName: r.SupervisorName,
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *academicService) ListLessons(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Lesson], error) {
	const op = "AcademicService.ListLessons"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountLessons(ctx, repository.CountLessonsParams{
		Search:    search,
		ClassID:   int32(p.ClassID),
		TeacherID: p.TeacherID,
	})
	if err != nil {
		s.logger.Error("failed to count lessons", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list lessons")
	}

	rows, err := s.queries.ListLessons(ctx, repository.ListLessonsParams{
		Search:    search,
		ClassID:   int32(p.ClassID),
		TeacherID: p.TeacherID,
		Limit:     int32(p.Limit()),
		Offset:    int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list lessons", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list lessons")
	}

	items := make([]domain.Lesson, len(rows))
	for i, r := range rows {
		items[i] = repoLessonToDomain(r)
	}
	return domain.NewListResult(items, int(total), p), nil
}
