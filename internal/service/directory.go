package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// DirectoryQueries is the slice of repository.Queries the directory needs.
type DirectoryQueries interface {
	CountTeachers(ctx context.Context, arg repository.CountTeachersParams) (int64, error)
	ListTeachers(ctx context.Context, arg repository.ListTeachersParams) ([]repository.ListTeachersRow, error)
	GetTeacherProfile(ctx context.Context, id string) (repository.GetTeacherProfileRow, error)
	CountStudents(ctx context.Context, arg repository.CountStudentsParams) (int64, error)
	ListStudents(ctx context.Context, arg repository.ListStudentsParams) ([]repository.ListStudentsRow, error)
	GetStudentProfile(ctx context.Context, id string) (repository.GetStudentProfileRow, error)
	CountParents(ctx context.Context, search string) (int64, error)
	ListParents(ctx context.Context, arg repository.ListParentsParams) ([]repository.ListParentsRow, error)
}

// DirectoryService lists and looks up the people in the school.
type DirectoryService interface {
	// ListTeachers filters by Search (name) and ClassID (teaches a lesson in it).
	ListTeachers(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Teacher], error)

	// ListStudents filters by Search, ClassID and TeacherID (has a lesson
	// with the teacher).
	ListStudents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Student], error)

	ListParents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Parent], error)

	GetTeacher(ctx context.Context, id string) (*domain.TeacherProfile, error)
	GetStudent(ctx context.Context, id string) (*domain.StudentProfile, error)
}

type directoryService struct {
	queries DirectoryQueries
	logger  *slog.Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(queries DirectoryQueries, logger *slog.Logger) DirectoryService {
	return &directoryService{queries: queries, logger: logger}
}

func (s *directoryService) ListTeachers(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Teacher], error) {
	const op = "DirectoryService.ListTeachers"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountTeachers(ctx, repository.CountTeachersParams{
		Search:  search,
		ClassID: int32(p.ClassID),
	})
	if err != nil {
		s.logger.Error("failed to count teachers", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list teachers")
	}

	rows, err := s.queries.ListTeachers(ctx, repository.ListTeachersParams{
		Search:  search,
		ClassID: int32(p.ClassID),
		Limit:   int32(p.Limit()),
		Offset:  int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list teachers", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list teachers")
	}

	items := make([]domain.Teacher, len(rows))
	for i, r := range rows {
		items[i] = repoTeacherToDomain(r)
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *directoryService) ListStudents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Student], error) {
	const op = "DirectoryService.ListStudents"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountStudents(ctx, repository.CountStudentsParams{
		Search:    search,
		TeacherID: p.TeacherID,
		ClassID:   int32(p.ClassID),
	})
	if err != nil {
		s.logger.Error("failed to count students", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list students")
	}

	rows, err := s.queries.ListStudents(ctx, repository.ListStudentsParams{
		Search:    search,
		TeacherID: p.TeacherID,
		ClassID:   int32(p.ClassID),
		Limit:     int32(p.Limit()),
		Offset:    int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list students", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list students")
	}

	items := make([]domain.Student, len(rows))
	for i, r := range rows {
		items[i] = repoStudentToDomain(r)
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *directoryService) ListParents(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Parent], error) {
	const op = "DirectoryService.ListParents"

	search := strings.TrimSpace(p.Search)
	total, err := s.queries.CountParents(ctx, search)
	if err != nil {
		s.logger.Error("failed to count parents", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list parents")
	}

	rows, err := s.queries.ListParents(ctx, repository.ListParentsParams{
		Search: search,
		Limit:  int32(p.Limit()),
		Offset: int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list parents", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list parents")
	}

	items := make([]domain.Parent, len(rows))
	for i, r := range rows {
		items[i] = domain.Parent{
			ID:        r.ID,
			Username:  r.Username,
			Name:      r.Name,
			Surname:   r.Surname,
			Email:     fromNullString(r.Email),
			Phone:     r.Phone,
			Address:   r.Address,
			CreatedAt: r.CreatedAt,
			Students:  splitNames(r.Students),
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *directoryService) GetTeacher(ctx context.Context, id string) (*domain.TeacherProfile, error) {
	const op = "DirectoryService.GetTeacher"

	r, err := s.queries.GetTeacherProfile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "teacher", id)
		}
		s.logger.Error("failed to get teacher", "error", err, "op", op, "teacher_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve teacher")
	}

	return &domain.TeacherProfile{
		Teacher: domain.Teacher{
			ID:        r.ID,
			Username:  r.Username,
			Name:      r.Name,
			Surname:   r.Surname,
			Email:     fromNullString(r.Email),
			Phone:     fromNullString(r.Phone),
			Address:   r.Address,
			Img:       fromNullString(r.Img),
			BloodType: r.BloodType,
			Sex:       domain.Sex(r.Sex),
			Birthday:  r.Birthday,
			CreatedAt: r.CreatedAt,
		},
		SubjectCount: int(r.SubjectCount),
		LessonCount:  int(r.LessonCount),
		ClassCount:   int(r.ClassCount),
	}, nil
}

func (s *directoryService) GetStudent(ctx context.Context, id string) (*domain.StudentProfile, error) {
	const op = "DirectoryService.GetStudent"

	r, err := s.queries.GetStudentProfile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "student", id)
		}
		s.logger.Error("failed to get student", "error", err, "op", op, "student_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve student")
	}

	return &domain.StudentProfile{
		Student:           repoStudentToDomain(r.ListStudentsRow),
		LessonCount:       int(r.LessonCount),
		AttendancePercent: attendancePercent(r.AttendancePresent, r.AttendanceTotal),
	}, nil
}
