package repository

import (
	"context"
	"database/sql"
	"time"
)

const countStudents = `-- name: CountStudents :one
SELECT COUNT(*)
FROM students s
WHERE ($1::text = '' OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR EXISTS (
        SELECT 1 FROM lessons l WHERE l.class_id = s.class_id AND l.teacher_id = $2))
  AND ($3::int = 0 OR s.class_id = $3)
`

type CountStudentsParams struct {
	Search    string
	TeacherID string
	ClassID   int32
}

func (q *Queries) CountStudents(ctx context.Context, arg CountStudentsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countStudents, arg.Search, arg.TeacherID, arg.ClassID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listStudents = `-- name: ListStudents :many
SELECT s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img,
       s.blood_type, s.sex::text, s.birthday, s.parent_id, s.class_id, s.grade_id,
       s.created_at, c.name AS class_name, g.level AS grade_level
FROM students s
JOIN classes c ON c.id = s.class_id
JOIN grades g ON g.id = s.grade_id
WHERE ($1::text = '' OR s.name ILIKE '%' || $1 || '%' OR s.surname ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR EXISTS (
        SELECT 1 FROM lessons l WHERE l.class_id = s.class_id AND l.teacher_id = $2))
  AND ($3::int = 0 OR s.class_id = $3)
ORDER BY s.name, s.surname, s.id
LIMIT $4 OFFSET $5
`

type ListStudentsParams struct {
	Search    string
	TeacherID string
	ClassID   int32
	Limit     int32
	Offset    int32
}

type ListStudentsRow struct {
	ID         string
	Username   string
	Name       string
	Surname    string
	Email      sql.NullString
	Phone      sql.NullString
	Address    string
	Img        sql.NullString
	BloodType  string
	Sex        string
	Birthday   time.Time
	ParentID   string
	ClassID    int32
	GradeID    int32
	CreatedAt  time.Time
	ClassName  string
	GradeLevel int32
}

func (q *Queries) ListStudents(ctx context.Context, arg ListStudentsParams) ([]ListStudentsRow, error) {
	rows, err := q.db.QueryContext(ctx, listStudents,
		arg.Search, arg.TeacherID, arg.ClassID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListStudentsRow
	for rows.Next() {
		var i ListStudentsRow
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
			&i.ParentID,
			&i.ClassID,
			&i.GradeID,
			&i.CreatedAt,
			&i.ClassName,
			&i.GradeLevel,
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

const getStudentProfile = `-- name: GetStudentProfile :one
SELECT s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img,
       s.blood_type, s.sex::text, s.birthday, s.parent_id, s.class_id, s.grade_id,
       s.created_at, c.name AS class_name, g.level AS grade_level,
       (SELECT COUNT(*) FROM lessons l WHERE l.class_id = s.class_id) AS lesson_count,
       (SELECT COUNT(*) FROM attendances a WHERE a.student_id = s.id) AS attendance_total,
       (SELECT COUNT(*) FROM attendances a WHERE a.student_id = s.id AND a.present) AS attendance_present
FROM students s
JOIN classes c ON c.id = s.class_id
JOIN grades g ON g.id = s.grade_id
WHERE s.id = $1
`

type GetStudentProfileRow struct {
	ListStudentsRow
	LessonCount       int64
	AttendanceTotal   int64
	AttendancePresent int64
}

func (q *Queries) GetStudentProfile(ctx context.Context, id string) (GetStudentProfileRow, error) {
	row := q.db.QueryRowContext(ctx, getStudentProfile, id)
	var i GetStudentProfileRow
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
		&i.ParentID,
		&i.ClassID,
		&i.GradeID,
		&i.CreatedAt,
		&i.ClassName,
		&i.GradeLevel,
		&i.LessonCount,
		&i.AttendanceTotal,
		&i.AttendancePresent,
	)
	return i, err
}

const getStudentClass = `-- name: GetStudentClass :one
SELECT c.id, c.name, c.capacity, c.supervisor_id, c.grade_id
FROM students s
JOIN classes c ON c.id = s.class_id
WHERE s.id = $1
`

func (q *Queries) GetStudentClass(ctx context.Context, studentID string) (Class, error) {
	row := q.db.QueryRowContext(ctx, getStudentClass, studentID)
	var i Class
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Capacity,
		&i.SupervisorID,
		&i.GradeID,
	)
	return i, err
}

const listChildrenByParent = `-- name: ListChildrenByParent :many
SELECT s.id, s.name, s.surname, s.class_id, c.name AS class_name
FROM students s
JOIN classes c ON c.id = s.class_id
WHERE s.parent_id = $1
ORDER BY s.name, s.surname
`

type ListChildrenByParentRow struct {
	ID        string
	Name      string
	Surname   string
	ClassID   int32
	ClassName string
}

func (q *Queries) ListChildrenByParent(ctx context.Context, parentID string) ([]ListChildrenByParentRow, error) {
	rows, err := q.db.QueryContext(ctx, listChildrenByParent, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListChildrenByParentRow
	for rows.Next() {
		var i ListChildrenByParentRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Surname,
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

const updateStudentImg = `-- name: UpdateStudentImg :execrows
UPDATE students SET img = $2 WHERE id = $1
`

type UpdateStudentImgParams struct {
	ID  string
	Img sql.NullString
}

func (q *Queries) UpdateStudentImg(ctx context.Context, arg UpdateStudentImgParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateStudentImg, arg.ID, arg.Img)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
