package repository

import (
	"context"
	"time"
)

const countAttendances = `-- name: CountAttendances :one
SELECT COUNT(*)
FROM attendances att
JOIN students s ON s.id = att.student_id
JOIN lessons l ON l.id = att.lesson_id
WHERE ($1::text = '' OR l.name ILIKE '%' || $1 || '%'
       OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR att.student_id = $4)
  AND ($5::text = '' OR s.parent_id = $5)
`

func (q *Queries) CountAttendances(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAttendances,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listAttendances = `-- name: ListAttendances :many
SELECT att.id, att.date, att.present, att.student_id,
       s.name || ' ' || s.surname AS student_name,
       att.lesson_id, l.name AS lesson_name
FROM attendances att
JOIN students s ON s.id = att.student_id
JOIN lessons l ON l.id = att.lesson_id
WHERE ($1::text = '' OR l.name ILIKE '%' || $1 || '%'
       OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR att.student_id = $4)
  AND ($5::text = '' OR s.parent_id = $5)
ORDER BY att.date DESC, att.id
LIMIT $6 OFFSET $7
`

type ListAttendancesParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListAttendancesRow struct {
	ID          int32
	Date        time.Time
	Present     bool
	StudentID   string
	StudentName string
	LessonID    int32
	LessonName  string
}

func (q *Queries) ListAttendances(ctx context.Context, arg ListAttendancesParams) ([]ListAttendancesRow, error) {
	rows, err := q.db.QueryContext(ctx, listAttendances,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAttendancesRow
	for rows.Next() {
		var i ListAttendancesRow
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Present,
			&i.StudentID,
			&i.StudentName,
			&i.LessonID,
			&i.LessonName,
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

const attendanceSince = `-- name: AttendanceSince :many
SELECT date, present
FROM attendances
WHERE date >= $1
`

type AttendanceSinceRow struct {
	Date    time.Time
	Present bool
}

func (q *Queries) AttendanceSince(ctx context.Context, since time.Time) ([]AttendanceSinceRow, error) {
	rows, err := q.db.QueryContext(ctx, attendanceSince, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AttendanceSinceRow
	for rows.Next() {
		var i AttendanceSinceRow
		if err := rows.Scan(&i.Date, &i.Present); err != nil {
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
