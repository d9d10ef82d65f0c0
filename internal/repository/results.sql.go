package repository

import (
	"context"
	"time"
)

const countResults = `-- name: CountResults :one
SELECT COUNT(*)
FROM results r
JOIN students s ON s.id = r.student_id
LEFT JOIN exams e ON e.id = r.exam_id
LEFT JOIN assignments a ON a.id = r.assignment_id
JOIN lessons l ON l.id = COALESCE(e.lesson_id, a.lesson_id)
WHERE ($1::text = '' OR COALESCE(e.title, a.title) ILIKE '%' || $1 || '%'
       OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR r.student_id = $4)
  AND ($5::text = '' OR s.parent_id = $5)
`

func (q *Queries) CountResults(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countResults,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listResults = `-- name: ListResults :many
SELECT r.id, r.score,
       COALESCE(e.title, a.title) AS title,
       CASE WHEN r.exam_id IS NOT NULL THEN 'exam' ELSE 'assignment' END AS kind,
       r.student_id, s.name || ' ' || s.surname AS student_name,
       t.name || ' ' || t.surname AS teacher_name,
       c.name AS class_name,
       COALESCE(e.start_time, a.start_date) AS result_date
FROM results r
JOIN students s ON s.id = r.student_id
LEFT JOIN exams e ON e.id = r.exam_id
LEFT JOIN assignments a ON a.id = r.assignment_id
JOIN lessons l ON l.id = COALESCE(e.lesson_id, a.lesson_id)
JOIN teachers t ON t.id = l.teacher_id
JOIN classes c ON c.id = l.class_id
WHERE ($1::text = '' OR COALESCE(e.title, a.title) ILIKE '%' || $1 || '%'
       OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR l.class_id = $2)
  AND ($3::text = '' OR l.teacher_id = $3)
  AND ($4::text = '' OR r.student_id = $4)
  AND ($5::text = '' OR s.parent_id = $5)
ORDER BY result_date DESC, r.id
LIMIT $6 OFFSET $7
`

type ListResultsParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListResultsRow struct {
	ID          int32
	Score       int32
	Title       string
	Kind        string
	StudentID   string
	StudentName string
	TeacherName string
	ClassName   string
	Date        time.Time
}

func (q *Queries) ListResults(ctx context.Context, arg ListResultsParams) ([]ListResultsRow, error) {
	rows, err := q.db.QueryContext(ctx, listResults,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListResultsRow
	for rows.Next() {
		var i ListResultsRow
		if err := rows.Scan(
			&i.ID,
			&i.Score,
			&i.Title,
			&i.Kind,
			&i.StudentID,
			&i.StudentName,
			&i.TeacherName,
			&i.ClassName,
			&i.Date,
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
