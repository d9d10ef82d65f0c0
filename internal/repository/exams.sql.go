package repository

import (
	"context"
	"time"
)

const countExams = `-- name: CountExams :one
SELECT COUNT(*)
FROM exams e
JOIN lessons l ON l.id = e.lesson_id
JOIN subjects sb ON sb.id = l.subject_id
WHERE ($1::text = '' OR e.title ILIKE '%' || $1 || '%' OR sb.name ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE id = $4))
  AND ($5::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE parent_id = $5))
`

// LessonScopedParams filter rows that hang off a lesson. StudentID and
// ParentID restrict to lessons of the student's (or children's) classes.
type LessonScopedParams struct {
	Search    string
	ClassID   int32
	TeacherID string
	StudentID string
	ParentID  string
}

func (q *Queries) CountExams(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countExams,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listExams = `-- name: ListExams :many
SELECT e.id, e.title, e.start_time, e.end_time, e.lesson_id,
       sb.name AS subject_name, c.name AS class_name,
       t.name || ' ' || t.surname AS teacher_name
FROM exams e
JOIN lessons l ON l.id = e.lesson_id
JOIN subjects sb ON sb.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id
WHERE ($1::text = '' OR e.title ILIKE '%' || $1 || '%' OR sb.name ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE id = $4))
  AND ($5::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE parent_id = $5))
ORDER BY e.start_time DESC, e.id
LIMIT $6 OFFSET $7
`

type ListExamsParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListExamsRow struct {
	ID          int32
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	LessonID    int32
	SubjectName string
	ClassName   string
	TeacherName string
}

func (q *Queries) ListExams(ctx context.Context, arg ListExamsParams) ([]ListExamsRow, error) {
	rows, err := q.db.QueryContext(ctx, listExams,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListExamsRow
	for rows.Next() {
		var i ListExamsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.StartTime,
			&i.EndTime,
			&i.LessonID,
			&i.SubjectName,
			&i.ClassName,
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
