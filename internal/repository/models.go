package repository

import (
	"database/sql"
	"time"
)

type Admin struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

type Announcement struct {
	ID          int32
	Title       string
	Description string
	Date        time.Time
	ClassID     sql.NullInt32
}

type Assignment struct {
	ID        int32
	Title     string
	StartDate time.Time
	DueDate   time.Time
	LessonID  int32
}

type Attendance struct {
	ID        int32
	Date      time.Time
	Present   bool
	StudentID string
	LessonID  int32
}

type Class struct {
	ID           int32
	Name         string
	Capacity     int32
	SupervisorID sql.NullString
	GradeID      int32
}

type Event struct {
	ID          int32
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ClassID     sql.NullInt32
}

type Exam struct {
	ID        int32
	Title     string
	StartTime time.Time
	EndTime   time.Time
	LessonID  int32
}

type Finance struct {
	Year    int32
	Month   int32
	Income  int64
	Expense int64
}

type Grade struct {
	ID        int32
	Level     int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Lesson struct {
	ID        int32
	Name      string
	Day       string
	StartTime time.Time
	EndTime   time.Time
	SubjectID int32
	ClassID   int32
	TeacherID string
}

type Parent struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     sql.NullString
	Phone     string
	Address   string
	CreatedAt time.Time
}

type Result struct {
	ID           int32
	Score        int32
	ExamID       sql.NullInt32
	AssignmentID sql.NullInt32
	StudentID    string
}

type Student struct {
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
	ParentID  string
	ClassID   int32
	GradeID   int32
	CreatedAt time.Time
}

type Subject struct {
	ID   int32
	Name string
}

type SubjectTeacher struct {
	SubjectID int32
	TeacherID string
}

type Teacher struct {
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
}
