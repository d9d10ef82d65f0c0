package repository

import (
	"context"
	"time"

	"github.com/lib/pq"
)

const countLessons = `-- name: CountLessons :one
SELECT COUNT(*)
FROM lessons l
JOIN subjects sb ON sb.id = l.subject_id
JOIN teachers t ON t.id = l.teacher_id
WHERE ($1::text = '' OR sb.name ILIKE '%' || $1 || '%'
       OR t.name ILIKE '%' || $1 || '%' OR t.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
`

type CountLessonsParams struct {
	Search    string
	ClassID   int32
	TeacherID string
}

func (q *Queries) CountLessons(ctx context.Context, arg CountLessonsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLessons, arg.Search, arg.ClassID, arg.TeacherID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listLessons = `-- name: ListLessons :many
SELECT l.id, l.name, l.day::text, l.start_time, l.end_time,
       l.subject_id, sb.name AS subject_name,
       l.class_id, c.name AS class_name,
       l.teacher_id, t.name || ' ' || t.surname AS teacher_name
FROM lessons l
JOIN subjects sb ON sb.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id
WHERE ($1::text = '' OR sb.name ILIKE '%' || $1 || '%'
       OR t.name ILIKE '%' || $1 || '%' OR t.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
ORDER BY l.day, l.start_time, l.id
LIMIT $4 OFFSET $5
`

type ListLessonsParams struct {
	Search    string
	ClassID   int32
	TeacherID string
	Limit     int32
	Offset    int32
}

type ListLessonsRow struct {
	ID          int32
	Name        string
	Day         string
	StartTime   time.Time
	EndTime     time.Time
	SubjectID   int32
	SubjectName string
	ClassID     int32
	ClassName   string
	TeacherID   string
	TeacherName string
}

func (q *Queries) ListLessons(ctx context.Context, arg ListLessonsParams) ([]ListLessonsRow, error) {
	rows, err := q.db.QueryContext(ctx, listLessons,
		arg.Search, arg.ClassID, arg.TeacherID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLessonRows(rows)
}

const listLessonsByTeacher = `-- name: ListLessonsByTeacher :many
SELECT l.id, l.name, l.day::text, l.start_time, l.end_time,
       l.subject_id, sb.name AS subject_name,
       l.class_id, c.name AS class_name,
       l.teacher_id, t.name || ' ' || t.surname AS teacher_name
FROM lessons l
JOIN subjects sb ON sb.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id
WHERE l.teacher_id = $1
ORDER BY l.day, l.start_time
`

func (q *Queries) ListLessonsByTeacher(ctx context.Context, teacherID string) ([]ListLessonsRow, error) {
	rows, err := q.db.QueryContext(ctx, listLessonsByTeacher, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLessonRows(rows)
}

const listLessonsByClasses = `-- name: ListLessonsByClasses :many
SELECT l.id, l.name, l.day::text, l.start_time, l.end_time,
       l.subject_id, sb.name AS subject_name,
       l.class_id, c.name AS class_name,
       l.teacher_id, t.name || ' ' || t.surname AS teacher_name
FROM lessons l
JOIN subjects sb ON sb.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id
WHERE l.class_id = ANY($1::int[])
ORDER BY l.day, l.start_time
`

func (q *Queries) ListLessonsByClasses(ctx context.Context, classIds []int64) ([]ListLessonsRow, error) {
	rows, err := q.db.QueryContext(ctx, listLessonsByClasses, pq.Array(classIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLessonRows(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

func scanLessonRows(rows rowScanner) ([]ListLessonsRow, error) {
	var items []ListLessonsRow
	for rows.Next() {
		var i ListLessonsRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Day,
			&i.StartTime,
			&i.EndTime,
			&i.SubjectID,
			&i.SubjectName,
			&i.ClassID,
			&i.ClassName,
			&i.TeacherID,
			&i.TeacherName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
