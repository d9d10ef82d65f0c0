package repository

import (
	"context"
	"database/sql"
	"time"
)

// ListSeparator joins aggregated names (subjects, classes, children) in a
// single text column.
const ListSeparator = "\x1f"

const countTeachers = `-- name: CountTeachers :one
SELECT COUNT(*)
FROM teachers t
WHERE ($1::text = '' OR t.name ILIKE '%' || $1 || '%' OR t.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR EXISTS (
        SELECT 1 FROM lessons l WHERE l.teacher_id = t.id AND l.class_id = $2))
`

type CountTeachersParams struct {
	Search  string
	ClassID int32
}

func (q *Queries) CountTeachers(ctx context.Context, arg CountTeachersParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTeachers, arg.Search, arg.ClassID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listTeachers = `-- name: ListTeachers :many
SELECT t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img,
       t.blood_type, t.sex::text, t.birthday, t.created_at,
       COALESCE((SELECT string_agg(s.name, E'\x1f' ORDER BY s.name)
                 FROM subject_teachers st JOIN subjects s ON s.id = st.subject_id
                 WHERE st.teacher_id = t.id), '') AS subjects,
       COALESCE((SELECT string_agg(c.name, E'\x1f' ORDER BY c.name)
                 FROM classes c WHERE c.supervisor_id = t.id), '') AS classes
FROM teachers t
WHERE ($1::text = '' OR t.name ILIKE '%' || $1 || '%' OR t.surname ILIKE '%' || $1 || '%')
  AND ($2::int = 0 OR EXISTS (
        SELECT 1 FROM lessons l WHERE l.teacher_id = t.id AND l.class_id = $2))
ORDER BY t.name, t.surname, t.id
LIMIT $3 OFFSET $4
`

type ListTeachersParams struct {
	Search  string
	ClassID int32
	Limit   int32
	Offset  int32
}

type ListTeachersRow struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     sql.NullString
	Phone     sql.NullString
	Address   string
	Img       sql.NullString
	BloodType string
	Sex       string
	Birthday  time.Time
	CreatedAt time.Time
	Subjects  string
	Classes   string
}

func (q *Queries) ListTeachers(ctx context.Context, arg ListTeachersParams) ([]ListTeachersRow, error) {
	rows, err := q.db.QueryContext(ctx, listTeachers, arg.Search, arg.ClassID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTeachersRow
	for rows.Next() {
		var i ListTeachersRow
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Name,
			&i.Surname,
			&i.Email,
			&i.Phone,
			&i.Address,
			&i.Img,
			&i.BloodType,
			&i.Sex,
			&i.Birthday,
			&i.CreatedAt,
			&i.Subjects,
			&i.Classes,
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

const getTeacherProfile = `-- name: GetTeacherProfile :one
SELECT t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img,
       t.blood_type, t.sex::text, t.birthday, t.created_at,
       (SELECT COUNT(*) FROM subject_teachers st WHERE st.teacher_id = t.id) AS subject_count,
       (SELECT COUNT(*) FROM lessons l WHERE l.teacher_id = t.id) AS lesson_count,
       (SELECT COUNT(*) FROM classes c WHERE c.supervisor_id = t.id) AS class_count
FROM teachers t
WHERE t.id = $1
`

type GetTeacherProfileRow struct {
	Teacher
	SubjectCount int64
	LessonCount  int64
	ClassCount   int64
}

func (q *Queries) GetTeacherProfile(ctx context.Context, id string) (GetTeacherProfileRow, error) {
	row := q.db.QueryRowContext(ctx, getTeacherProfile, id)
	var i GetTeacherProfileRow
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Name,
		&i.Surname,
		&i.Email,
		&i.Phone,
		&i.Address,
		&i.Img,
		&i.BloodType,
		&i.Sex,
		&i.Birthday,
		&i.CreatedAt,
		&i.SubjectCount,
		&i.LessonCount,
		&i.ClassCount,
	)
	return i, err
}

const updateTeacherImg = `-- name: UpdateTeacherImg :execrows
UPDATE teachers SET img = $2 WHERE id = $1
`

type UpdateTeacherImgParams struct {
	ID  string
	Img sql.NullString
}

func (q *Queries) UpdateTeacherImg(ctx context.Context, arg UpdateTeacherImgParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTeacherImg, arg.ID, arg.Img)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
