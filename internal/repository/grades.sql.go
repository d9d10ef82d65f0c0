package repository

import (
	"context"
)

const countGrades = `-- name: CountGrades :one
SELECT COUNT(*) FROM grades
`

func (q *Queries) CountGrades(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countGrades)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listGrades = `-- name: ListGrades :many
SELECT g.id, g.level, g.created_at, g.updated_at,
       (SELECT COUNT(*) FROM classes c WHERE c.grade_id = g.id) AS class_count
FROM grades g
ORDER BY g.level
LIMIT $1 OFFSET $2
`

type ListGradesParams struct {
	Limit  int32
	Offset int32
}

type ListGradesRow struct {
	Grade
	ClassCount int64
}

func (q *Queries) ListGrades(ctx context.Context, arg ListGradesParams) ([]ListGradesRow, error) {
	rows, err := q.db.QueryContext(ctx, listGrades, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListGradesRow
	for rows.Next() {
		var i ListGradesRow
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.ClassCount,
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

const getGrade = `-- name: GetGrade :one
SELECT id, level, created_at, updated_at FROM grades WHERE id = $1
`

func (q *Queries) GetGrade(ctx context.Context, id int32) (Grade, error) {
	row := q.db.QueryRowContext(ctx, getGrade, id)
	var i Grade
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createGrade = `-- name: CreateGrade :one
INSERT INTO grades (level) VALUES ($1)
RETURNING id, level, created_at, updated_at
`

func (q *Queries) CreateGrade(ctx context.Context, level int32) (Grade, error) {
	row := q.db.QueryRowContext(ctx, createGrade, level)
	var i Grade
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateGrade = `-- name: UpdateGrade :one
UPDATE grades SET level = $2, updated_at = NOW()
WHERE id = $1
RETURNING id, level, created_at, updated_at
`

type UpdateGradeParams struct {
	ID    int32
	Level int32
}

func (q *Queries) UpdateGrade(ctx context.Context, arg UpdateGradeParams) (Grade, error) {
	row := q.db.QueryRowContext(ctx, updateGrade, arg.ID, arg.Level)
	var i Grade
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteGrade = `-- name: DeleteGrade :execrows
DELETE FROM grades WHERE id = $1
`

func (q *Queries) DeleteGrade(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteGrade, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countClassesByGrade = `-- name: CountClassesByGrade :one
SELECT COUNT(*) FROM classes WHERE grade_id = $1
`

func (q *Queries) CountClassesByGrade(ctx context.Context, gradeID int32) (int64, error) {
	row := q.db.QueryRowContext(ctx, countClassesByGrade, gradeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countStudentsByGrade = `-- name: CountStudentsByGrade :one
SELECT COUNT(*) FROM students WHERE grade_id = $1
`

func (q *Queries) CountStudentsByGrade(ctx context.Context, gradeID int32) (int64, error) {
	row := q.db.QueryRowContext(ctx, countStudentsByGrade, gradeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
