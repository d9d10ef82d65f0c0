package repository

import (
	"context"
	"database/sql"
	"time"
)

const countEvents = `-- name: CountEvents :one
SELECT COUNT(*)
FROM events ev
WHERE ($1::text = '' OR ev.title ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR ev.class_id = $2)
  AND (($3::text = '' AND $4::text = '' AND $5::text = '')
       OR ev.class_id IS NULL
       OR ($3::text <> '' AND ev.class_id IN (SELECT class_id FROM lessons WHERE teacher_id = $3))
       OR ($4::text <> '' AND ev.class_id IN (SELECT class_id FROM students WHERE id = $4))
       OR ($5::text <> '' AND ev.class_id IN (SELECT class_id FROM students WHERE parent_id = $5)))
`

// CountEvents treats TeacherID, StudentID and ParentID as a visibility scope:
// school-wide events are always included.
func (q *Queries) CountEvents(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEvents,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listEvents = `-- name: ListEvents :many
SELECT ev.id, ev.title, ev.description, ev.start_time, ev.end_time, ev.class_id,
       COALESCE(c.name, '') AS class_name
FROM events ev
LEFT JOIN classes c ON c.id = ev.class_id
WHERE ($1::text = '' OR ev.title ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR ev.class_id = $2)
  AND (($3::text = '' AND $4::text = '' AND $5::text = '')
       OR ev.class_id IS NULL
       OR ($3::text <> '' AND ev.class_id IN (SELECT class_id FROM lessons WHERE teacher_id = $3))
       OR ($4::text <> '' AND ev.class_id IN (SELECT class_id FROM students WHERE id = $4))
       OR ($5::text <> '' AND ev.class_id IN (SELECT class_id FROM students WHERE parent_id = $5)))
ORDER BY ev.start_time DESC, ev.id
LIMIT $6 OFFSET $7
`

type ListEventsParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListEventsRow struct {
	ID          int32
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ClassID     sql.NullInt32
	ClassName   string
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]ListEventsRow, error) {
	rows, err := q.db.QueryContext(ctx, listEvents,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventRows(rows)
}

const listEventsOnDate = `-- name: ListEventsOnDate :many
SELECT ev.id, ev.title, ev.description, ev.start_time, ev.end_time, ev.class_id,
       COALESCE(c.name, '') AS class_name
FROM events ev
LEFT JOIN classes c ON c.id = ev.class_id
WHERE ev.start_time >= $1 AND ev.start_time < $2
ORDER BY ev.start_time, ev.id
`

type ListEventsOnDateParams struct {
	From time.Time
	To   time.Time
}

func (q *Queries) ListEventsOnDate(ctx context.Context, arg ListEventsOnDateParams) ([]ListEventsRow, error) {
	rows, err := q.db.QueryContext(ctx, listEventsOnDate, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventRows(rows)
}

func scanEventRows(rows rowScanner) ([]ListEventsRow, error) {
	var items []ListEventsRow
	for rows.Next() {
		var i ListEventsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.StartTime,
			&i.EndTime,
			&i.ClassID,
			&i.ClassName,
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
