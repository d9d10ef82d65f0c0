package repository

import (
	"context"
	"database/sql"
	"time"
)

const countParents = `-- name: CountParents :one
SELECT COUNT(*)
FROM parents p
WHERE ($1::text = '' OR p.name ILIKE '%' || $1 || '%' OR p.surname ILIKE '%' || $1 || '%')
`

func (q *Queries) CountParents(ctx context.Context, search string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countParents, search)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listParents = `-- name: ListParents :many
SELECT p.id, p.username, p.name, p.surname, p.email, p.phone, p.address, p.created_at,
       COALESCE((SELECT string_agg(s.name || ' ' || s.surname, E'\x1f' ORDER BY s.name)
                 FROM students s WHERE s.parent_id = p.id), '') AS students
FROM parents p
WHERE ($1::text = '' OR p.name ILIKE '%' || $1 || '%' OR p.surname ILIKE '%' || $1 || '%')
ORDER BY p.name, p.surname, p.id
LIMIT $2 OFFSET $3
`

type ListParentsParams struct {
	Search string
	Limit  int32
	Offset int32
}

type ListParentsRow struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     sql.NullString
	Phone     string
	Address   string
	CreatedAt time.Time
	Students  string
}

func (q *Queries) ListParents(ctx context.Context, arg ListParentsParams) ([]ListParentsRow, error) {
	rows, err := q.db.QueryContext(ctx, listParents, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListParentsRow
	for rows.Next() {
		var i ListParentsRow
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Name,
			&i.Surname,
			&i.Email,
			&i.Phone,
			&i.Address,
			&i.CreatedAt,
			&i.Students,
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
