package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

// DashboardQueries is the slice of repository.Queries the charts need.
type DashboardQueries interface {
	CountUsersByRole(ctx context.Context) (repository.CountUsersByRoleRow, error)
	CountStudentsBySex(ctx context.Context) (repository.CountStudentsBySexRow, error)
	AttendanceSince(ctx context.Context, since time.Time) ([]repository.AttendanceSinceRow, error)
	ListFinancesByYear(ctx context.Context, year int32) ([]repository.Finance, error)
}

// DashboardService aggregates the numbers behind the admin charts.
type DashboardService interface {
	UserCounts(ctx context.Context) (*domain.UserCounts, error)
	StudentSexSplit(ctx context.Context) (*domain.SexSplit, error)

	// WeekAttendance returns Monday to Friday of the week containing now.
	WeekAttendance(ctx context.Context, now time.Time) ([]domain.DayAttendance, error)

	// Finance returns all twelve months of year; missing months are zero.
	Finance(ctx context.Context, year int) ([]domain.MonthFinance, error)
}

type dashboardService struct {
	queries DashboardQueries
	logger  *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(queries DashboardQueries, logger *slog.Logger) DashboardService {
	return &dashboardService{queries: queries, logger: logger}
}

func (s *dashboardService) UserCounts(ctx context.Context) (*domain.UserCounts, error) {
	const op = "DashboardService.UserCounts"

	r, err := s.queries.CountUsersByRole(ctx)
	if err != nil {
		s.logger.Error("failed to count users", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load user counts")
	}
	return &domain.UserCounts{
		Admins:   int(r.Admins),
		Teachers: int(r.Teachers),
		Students: int(r.Students),
		Parents:  int(r.Parents),
	}, nil
}

func (s *dashboardService) StudentSexSplit(ctx context.Context) (*domain.SexSplit, error) {
	const op = "DashboardService.StudentSexSplit"

	r, err := s.queries.CountStudentsBySex(ctx)
	if err != nil {
		s.logger.Error("failed to count students by sex", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load student counts")
	}
	return &domain.SexSplit{Boys: int(r.Boys), Girls: int(r.Girls)}, nil
}

var schoolDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func (s *dashboardService) WeekAttendance(ctx context.Context, now time.Time) ([]domain.DayAttendance, error) {
	const op = "DashboardService.WeekAttendance"

	rows, err := s.queries.AttendanceSince(ctx, domain.StartOfWeek(now))
	if err != nil {
		s.logger.Error("failed to load attendance", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load attendance")
	}
	return tallyAttendance(rows, now.Location()), nil
}

// tallyAttendance buckets rows by weekday in loc. Weekend rows are ignored.
func tallyAttendance(rows []repository.AttendanceSinceRow, loc *time.Location) []domain.DayAttendance {
	byDay := make(map[time.Weekday]*domain.DayAttendance, len(schoolDays))
	days := make([]domain.DayAttendance, len(schoolDays))
	for i, wd := range schoolDays {
		days[i].Day = wd.String()[:3]
		byDay[wd] = &days[i]
	}

	for _, r := range rows {
		d, ok := byDay[r.Date.In(loc).Weekday()]
		if !ok {
			continue
		}
		if r.Present {
			d.Present++
		} else {
			d.Absent++
		}
	}
	return days
}

func (s *dashboardService) Finance(ctx context.Context, year int) ([]domain.MonthFinance, error) {
	const op = "DashboardService.Finance"

	if year < 1 || year > math.MaxInt32 {
		return nil, domain.Invalid(op, "year must be a positive number")
	}

	rows, err := s.queries.ListFinancesByYear(ctx, int32(year))
	if err != nil {
		s.logger.Error("failed to load finances", "error", err, "op", op, "year", year)
		return nil, domain.Internal(err, op, "Failed to load finances")
	}
	return fillFinanceYear(rows), nil
}

func fillFinanceYear(rows []repository.Finance) []domain.MonthFinance {
	months := make([]domain.MonthFinance, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		months[r.Month-1].Income = r.Income
		months[r.Month-1].Expense = r.Expense
	}
	return months
}
