package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// Postgres error codes the grade service translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// GradeQueries is the slice of repository.Queries grade records need.
type GradeQueries interface {
	CountGrades(ctx context.Context) (int64, error)
	ListGrades(ctx context.Context, arg repository.ListGradesParams) ([]repository.ListGradesRow, error)
	GetGrade(ctx context.Context, id int32) (repository.Grade, error)
	CreateGrade(ctx context.Context, level int32) (repository.Grade, error)
	UpdateGrade(ctx context.Context, arg repository.UpdateGradeParams) (repository.Grade, error)
	DeleteGrade(ctx context.Context, id int32) (int64, error)
	CountClassesByGrade(ctx context.Context, gradeID int32) (int64, error)
	CountStudentsByGrade(ctx context.Context, gradeID int32) (int64, error)
}

// GradeService manages year levels, the only records mutable over the API.
type GradeService interface {
	List(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Grade], error)
	Get(ctx context.Context, id int) (*domain.Grade, error)

	// Create fails with a conflict when the level already exists.
	Create(ctx context.Context, in domain.GradeInput) (*domain.Grade, error)

	Update(ctx context.Context, id int, in domain.GradeInput) (*domain.Grade, error)

	// Delete refuses while classes or students still reference the grade.
	Delete(ctx context.Context, id int) error
}

type gradeService struct {
	queries  GradeQueries
	validate *validator.Validate
	logger   *slog.Logger
}

// NewGradeService creates a new GradeService.
func NewGradeService(queries GradeQueries, logger *slog.Logger) GradeService {
	return &gradeService{
		queries:  queries,
		validate: newValidator(),
		logger:   logger,
	}
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *gradeService) List(ctx context.Context, p domain.ListParams) (*domain.ListResult[domain.Grade], error) {
	const op = "GradeService.List"

	total, err := s.queries.CountGrades(ctx)
	if err != nil {
		s.logger.Error("failed to count grades", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list grades")
	}

	rows, err := s.queries.ListGrades(ctx, repository.ListGradesParams{
		Limit:  int32(p.Limit()),
		Offset: int32(p.Offset()),
	})
	if err != nil {
		s.logger.Error("failed to list grades", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list grades")
	}

	items := make([]domain.Grade, len(rows))
	for i, r := range rows {
		items[i] = domain.Grade{
			ID:         int(r.ID),
			Level:      int(r.Level),
			ClassCount: int(r.ClassCount),
		}
	}
	return domain.NewListResult(items, int(total), p), nil
}

func (s *gradeService) Get(ctx context.Context, id int) (*domain.Grade, error) {
	const op = "GradeService.Get"

	key, ok := gradeKey(id)
	if !ok {
		return nil, domain.NotFound(op, "grade", strconv.Itoa(id))
	}

	g, err := s.queries.GetGrade(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "grade", strconv.Itoa(id))
		}
		s.logger.Error("failed to get grade", "error", err, "op", op, "grade_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve grade")
	}

	classes, err := s.queries.CountClassesByGrade(ctx, g.ID)
	if err != nil {
		s.logger.Error("failed to count grade classes", "error", err, "op", op, "grade_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve grade")
	}

	return &domain.Grade{ID: int(g.ID), Level: int(g.Level), ClassCount: int(classes)}, nil
}

func (s *gradeService) Create(ctx context.Context, in domain.GradeInput) (*domain.Grade, error) {
	const op = "GradeService.Create"

	if err := s.validateInput(op, in); err != nil {
		return nil, err
	}

	g, err := s.queries.CreateGrade(ctx, int32(in.Level))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, domain.Conflict(op, fmt.Sprintf("Grade %d already exists", in.Level))
		}
		s.logger.Error("failed to create grade", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create grade")
	}

	s.logger.Info("grade created", "grade_id", g.ID, "level", g.Level)
	return &domain.Grade{ID: int(g.ID), Level: int(g.Level)}, nil
}

func (s *gradeService) Update(ctx context.Context, id int, in domain.GradeInput) (*domain.Grade, error) {
	const op = "GradeService.Update"

	key, ok := gradeKey(id)
	if !ok {
		return nil, domain.NotFound(op, "grade", strconv.Itoa(id))
	}
	if err := s.validateInput(op, in); err != nil {
		return nil, err
	}

	g, err := s.queries.UpdateGrade(ctx, repository.UpdateGradeParams{
		ID:    key,
		Level: int32(in.Level),
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.NotFound(op, "grade", strconv.Itoa(id))
		case isPgError(err, pgUniqueViolation):
			return nil, domain.Conflict(op, fmt.Sprintf("Grade %d already exists", in.Level))
		}
		s.logger.Error("failed to update grade", "error", err, "op", op, "grade_id", id)
		return nil, domain.Internal(err, op, "Failed to update grade")
	}

	s.logger.Info("grade updated", "grade_id", g.ID, "level", g.Level)
	return &domain.Grade{ID: int(g.ID), Level: int(g.Level)}, nil
}

func (s *gradeService) Delete(ctx context.Context, id int) error {
	const op = "GradeService.Delete"

	key, ok := gradeKey(id)
	if !ok {
		return domain.NotFound(op, "grade", strconv.Itoa(id))
	}

	classes, err := s.queries.CountClassesByGrade(ctx, key)
	if err != nil {
		s.logger.Error("failed to count grade classes", "error", err, "op", op, "grade_id", id)
		return domain.Internal(err, op, "Failed to delete grade")
	}
	if classes > 0 {
		return domain.Invalid(op, fmt.Sprintf("Grade still has %d class(es)", classes))
	}

	students, err := s.queries.CountStudentsByGrade(ctx, key)
	if err != nil {
		s.logger.Error("failed to count grade students", "error", err, "op", op, "grade_id", id)
		return domain.Internal(err, op, "Failed to delete grade")
	}
	if students > 0 {
		return domain.Invalid(op, fmt.Sprintf("Grade still has %d student(s)", students))
	}

	n, err := s.queries.DeleteGrade(ctx, key)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Invalid(op, "Grade is still in use")
		}
		s.logger.Error("failed to delete grade", "error", err, "op", op, "grade_id", id)
		return domain.Internal(err, op, "Failed to delete grade")
	}
	if n == 0 {
		return domain.NotFound(op, "grade", strconv.Itoa(id))
	}

	s.logger.Info("grade deleted", "grade_id", id)
	return nil
}

// gradeKey narrows an API ID to the column type. IDs outside the serial
// range cannot exist.
func gradeKey(id int) (int32, bool) {
	if id < 1 || id > math.MaxInt32 {
		return 0, false
	}
	return int32(id), true
}

// validateInput maps validator failures onto a domain.ValidationError.
func (s *gradeService) validateInput(op string, in domain.GradeInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, op, "Failed to validate grade")
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Field() == "level" {
		return fmt.Sprintf("Level must be between %d and %d", domain.MinGradeLevel, domain.MaxGradeLevel)
	}
	if fe.Tag() == "required" {
		return "This field is required"
	}
	return "Invalid value"
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
