package repository

import (
	"context"
)

const countUsersByRole = `-- name: CountUsersByRole :one
SELECT (SELECT COUNT(*) FROM admins)   AS admins,
       (SELECT COUNT(*) FROM teachers) AS teachers,
       (SELECT COUNT(*) FROM students) AS students,
       (SELECT COUNT(*) FROM parents)  AS parents
`

type CountUsersByRoleRow struct {
	Admins   int64
	Teachers int64
	Students int64
	Parents  int64
}

func (q *Queries) CountUsersByRole(ctx context.Context) (CountUsersByRoleRow, error) {
	row := q.db.QueryRowContext(ctx, countUsersByRole)
	var i CountUsersByRoleRow
	err := row.Scan(
		&i.Admins,
		&i.Teachers,
		&i.Students,
		&i.Parents,
	)
	return i, err
}

const countStudentsBySex = `-- name: CountStudentsBySex :one
SELECT COUNT(CASE WHEN sex = 'MALE' THEN 1 END)   AS boys,
       COUNT(CASE WHEN sex = 'FEMALE' THEN 1 END) AS girls
FROM students
`

type CountStudentsBySexRow struct {
	Boys  int64
	Girls int64
}

func (q *Queries) CountStudentsBySex(ctx context.Context) (CountStudentsBySexRow, error) {
	row := q.db.QueryRowContext(ctx, countStudentsBySex)
	var i CountStudentsBySexRow
	err := row.Scan(&i.Boys, &i.Girls)
	return i, err
}

const listFinancesByYear = `-- name: ListFinancesByYear :many
SELECT year, month, income, expense
FROM finances
WHERE year = $1
ORDER BY month
`

func (q *Queries) ListFinancesByYear(ctx context.Context, year int32) ([]Finance, error) {
	rows, err := q.db.QueryContext(ctx, listFinancesByYear, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Finance
	for rows.Next() {
		var i Finance
		if err := rows.Scan(
			&i.Year,
			&i.Month,
			&i.Income,
			&i.Expense,
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
