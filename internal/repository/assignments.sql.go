package repository

import (
	"context"
	"time"
)

const countAssignments = `-- name: CountAssignments :one
SELECT COUNT(*)
FROM assignments a
JOIN lessons l ON l.id = a.lesson_id
JOIN subjects sb ON sb.id = l.subject_id
WHERE ($1::text = '' OR a.title ILIKE '%' || $1 || '%' OR sb.name ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE id = $4))
  AND ($5::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE parent_id = $5))
`

func (q *Queries) CountAssignments(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAssignments,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listAssignments = `-- name: ListAssignments :many
SELECT a.id, a.title, a.start_date, a.due_date, a.lesson_id,
       sb.name AS subject_name, c.name AS class_name,
       t.name || ' ' || t.surname AS teacher_name
FROM assignments a
JOIN lessons l ON l.id = a.lesson_id
JOIN subjects sb ON sb.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id
WHERE ($1::text = '' OR a.title ILIKE '%' || $1 || '%' OR sb.name ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE id = $4))
  AND ($5::text = '' OR l.class_id IN (SELECT class_id FROM students WHERE parent_id = $5))
ORDER BY a.due_date DESC, a.id
LIMIT $6 OFFSET $7
`

type ListAssignmentsParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListAssignmentsRow struct {
	ID          int32
	Title       string
	StartDate   time.Time
	DueDate     time.Time
	LessonID    int32
	SubjectName string
	ClassName   string
	TeacherName string
}

func (q *Queries) ListAssignments(ctx context.Context, arg ListAssignmentsParams) ([]ListAssignmentsRow, error) {
	rows, err := q.db.QueryContext(ctx, listAssignments,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAssignmentsRow
	for rows.Next() {
		var i ListAssignmentsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.StartDate,
			&i.DueDate,
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
