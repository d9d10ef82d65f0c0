package repository

import (
	"context"
	"database/sql"
)

const countClasses = `-- name: CountClasses :one
SELECT COUNT(*)
FROM classes c
WHERE ($1::text = '' OR c.name ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR c.supervisor_id = $2)
`

type CountClassesParams struct {
	Search       string
	SupervisorID string
}

func (q *Queries) CountClasses(ctx context.Context, arg CountClassesParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countClasses, arg.Search, arg.SupervisorID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listClasses = `-- name: ListClasses :many
SELECT c.id, c.name, c.capacity, c.supervisor_id, c.grade_id, g.level AS grade_level,
       COALESCE(t.name || ' ' || t.surname, '') AS supervisor_name
FROM classes c
JOIN grades g ON g.id = c.grade_id
LEFT JOIN teachers t ON t.id = c.supervisor_id
WHERE ($1::text = '' OR c.name ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR c.supervisor_id = $2)
ORDER BY g.level, c.name, c.id
LIMIT $3 OFFSET $4
`

type ListClassesParams struct {
	Search       string
	SupervisorID string
	Limit        int32
	Offset       int32
}

type ListClassesRow struct {
	ID             int32
	Name           string
	Capacity       int32
	SupervisorID   sql.NullString
	GradeID        int32
	GradeLevel     int32
	SupervisorName string
}

func (q *Queries) ListClasses(ctx context.Context, arg ListClassesParams) ([]ListClassesRow, error) {
	rows, err := q.db.QueryContext(ctx, listClasses, arg.Search, arg.SupervisorID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListClassesRow
	for rows.Next() {
		var i ListClassesRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Capacity,
			&i.SupervisorID,
			&i.GradeID,
			&i.GradeLevel,
			&i.SupervisorName,
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
