package repository

import (
	"context"
)

const countSubjects = `-- name: CountSubjects :one
SELECT COUNT(*)
FROM subjects sb
WHERE ($1::text = '' OR sb.name ILIKE '%' || $1 || '%')
`

func (q *Queries) CountSubjects(ctx context.Context, search string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSubjects, search)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listSubjects = `-- name: ListSubjects :many
SELECT sb.id, sb.name,
       COALESCE((SELECT string_agg(t.name || ' ' || t.surname, E'\x1f' ORDER BY t.name)
                 FROM subject_teachers st JOIN teachers t ON t.id = st.teacher_id
                 WHERE st.subject_id = sb.id), '') AS teachers
FROM subjects sb
WHERE ($1::text = '' OR sb.name ILIKE '%' || $1 || '%')
ORDER BY sb.name, sb.id
LIMIT $2 OFFSET $3
`

type ListSubjectsParams struct {
	Search string
	Limit  int32
	Offset int32
}

type ListSubjectsRow struct {
	ID       int32
	Name     string
	Teachers string
}

func (q *Queries) ListSubjects(ctx context.Context, arg ListSubjectsParams) ([]ListSubjectsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSubjects, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSubjectsRow
	for rows.Next() {
		var i ListSubjectsRow
		if err := rows.Scan(&i.ID, &i.Name, &i.Teachers); err != nil {
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
