package service

import (
	"database/sql"
	"strings"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
)

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func fromNullInt32(ni sql.NullInt32) int {
	if ni.Valid {
		return int(ni.Int32)
	}
	return 0
}

// splitNames undoes the string_agg used for name lists.
func splitNames(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, repository.ListSeparator)
}

// lessonScope turns list params into the query filters for anything that
// hangs off a lesson. The caller's role scope overrides matching filters.
func lessonScope(p domain.ListParams) repository.LessonScopedParams {
	arg := repository.LessonScopedParams{
		Search:    strings.TrimSpace(p.Search),
		ClassID:   int32(p.ClassID),
		TeacherID: p.TeacherID,
		StudentID: p.StudentID,
	}
	if p.Scope.TeacherID != "" {
		arg.TeacherID = p.Scope.TeacherID
	}
	if p.Scope.StudentID != "" {
		arg.StudentID = p.Scope.StudentID
	}
	if p.Scope.ParentID != "" {
		arg.ParentID = p.Scope.ParentID
	}
	return arg
}

// visibilityScope is lessonScope for class-or-school-wide records (events,
// announcements), where only the role scope narrows visibility.
func visibilityScope(p domain.ListParams) repository.LessonScopedParams {
	return repository.LessonScopedParams{
		Search:    strings.TrimSpace(p.Search),
		ClassID:   int32(p.ClassID),
		TeacherID: p.Scope.TeacherID,
		StudentID: p.Scope.StudentID,
		ParentID:  p.Scope.ParentID,
	}
}

func repoTeacherToDomain(r repository.ListTeachersRow) domain.Teacher {
	return domain.Teacher{
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
		Subjects:  splitNames(r.Subjects),
		Classes:   splitNames(r.Classes),
	}
}

func repoStudentToDomain(r repository.ListStudentsRow) domain.Student {
	return domain.Student{
		ID:         r.ID,
		Username:   r.Username,
		Name:       r.Name,
		Surname:    r.Surname,
		Email:      fromNullString(r.Email),
		Phone:      fromNullString(r.Phone),
		Address:    r.Address,
		Img:        fromNullString(r.Img),
		BloodType:  r.BloodType,
		Sex:        domain.Sex(r.Sex),
		Birthday:   r.Birthday,
		ParentID:   r.ParentID,
		ClassID:    int(r.ClassID),
		GradeID:    int(r.GradeID),
		CreatedAt:  r.CreatedAt,
		ClassName:  r.ClassName,
		GradeLevel: int(r.GradeLevel),
	}
}

func repoLessonToDomain(r repository.ListLessonsRow) domain.Lesson {
	return domain.Lesson{
		ID:          int(r.ID),
		Name:        r.Name,
		Day:         domain.Day(r.Day),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		SubjectID:   int(r.SubjectID),
		SubjectName: r.SubjectName,
		ClassID:     int(r.ClassID),
		ClassName:   r.ClassName,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
	}
}

func repoEventToDomain(r repository.ListEventsRow) domain.Event {
	return domain.Event{
		ID:          int(r.ID),
		Title:       r.Title,
		Description: r.Description,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ClassID:     fromNullInt32(r.ClassID),
		ClassName:   r.ClassName,
	}
}

func repoAnnouncementToDomain(r repository.ListAnnouncementsRow) domain.Announcement {
	return domain.Announcement{
		ID:          int(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		ClassID:     fromNullInt32(r.ClassID),
		ClassName:   r.ClassName,
	}
}

// attendancePercent is present/total as a percentage, or -1 with no records.
func attendancePercent(present, total int64) float64 {
	if total == 0 {
		return -1
	}
	return float64(present) * 100 / float64(total)
}
