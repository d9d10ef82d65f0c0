package repository

import (
	"context"
	"database/sql"
	"time"
)

const countAnnouncements = `-- name: CountAnnouncements :one
SELECT COUNT(*)
FROM announcements an
WHERE ($1::text = '' OR an.title ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR an.class_id = $2)
  AND (($3::text = '' AND $4::text = '' AND $5::text = '')
       OR an.class_id IS NULL
       OR ($3::text <> '' AND an.class_id IN (SELECT class_id FROM lessons WHERE teacher_id = $3))
       OR ($4::text <> '' AND an.class_id IN (SELECT class_id FROM students WHERE id = $4))
       OR ($5::text <> '' AND an.class_id IN (SELECT class_id FROM students WHERE parent_id = $5)))
`

func (q *Queries) CountAnnouncements(ctx context.Context, arg LessonScopedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAnnouncements,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listAnnouncements = `-- name: ListAnnouncements :many
SELECT an.id, an.title, an.description, an.date, an.class_id,
       COALESCE(c.name, '') AS class_name
FROM announcements an
LEFT JOIN classes c ON c.id = an.class_id
WHERE ($1::text = '' OR an.title ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR an.class_id = $2)
  AND (($3::text = '' AND $4::text = '' AND $5::text = '')
       OR an.class_id IS NULL
       OR ($3::text <> '' AND an.class_id IN (SELECT class_id FROM lessons WHERE teacher_id = $3))
       OR ($4::text <> '' AND an.class_id IN (SELECT class_id FROM students WHERE id = $4))
       OR ($5::text <> '' AND an.class_id IN (SELECT class_id FROM students WHERE parent_id = $5)))
ORDER BY an.date DESC, an.id
LIMIT $6 OFFSET $7
`

type ListAnnouncementsParams struct {
	LessonScopedParams
	Limit  int32
	Offset int32
}

type ListAnnouncementsRow struct {
	ID          int32
	Title       string
	Description string
	Date        time.Time
	ClassID     sql.NullInt32
	ClassName   string
}

func (q *Queries) ListAnnouncements(ctx context.Context, arg ListAnnouncementsParams) ([]ListAnnouncementsRow, error) {
	rows, err := q.db.QueryContext(ctx, listAnnouncements,
		arg.Search, arg.ClassID, arg.TeacherID, arg.StudentID, arg.ParentID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAnnouncementsRow
	for rows.Next() {
		var i ListAnnouncementsRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.Date,
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

// ListLatestAnnouncements returns the newest announcements visible under the
// scope, for the dashboard side panel.
func (q *Queries) ListLatestAnnouncements(ctx context.Context, arg LessonScopedParams, limit int32) ([]ListAnnouncementsRow, error) {
	return q.ListAnnouncements(ctx, ListAnnouncementsParams{
		LessonScopedParams: arg,
		Limit:              limit,
		Offset:             0,
	})
}
