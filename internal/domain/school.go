// Package domain contains core business types and interfaces.
//
// This file defines the people and academic records shown on the
// dashboards: teachers, students, parents, classes, lessons and everything
// hanging off them.
package domain

import (
	"time"
)

// Sex is stored as the user_sex enum.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// Day is the weekday a lesson is held on.
type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
)

// =============================================================================
// People
// =============================================================================

// Teacher is a staff member. ID is the identity provider's user ID.
type Teacher struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     string
	Phone     string
	Address   string
	Img       string
	BloodType string
	Sex       Sex
	Birthday  time.Time
	CreatedAt time.Time

	// Populated by list queries
	Subjects []string
	Classes  []string
}

// FullName returns "Name Surname".
func (t *Teacher) FullName() string {
	return t.Name + " " + t.Surname
}

// Student belongs to exactly one class, grade and parent.
type Student struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     string
	Phone     string
	Address   string
	Img       string
	BloodType string
	Sex       Sex
	Birthday  time.Time
	ParentID  string
	ClassID   int
	GradeID   int
	CreatedAt time.Time

	// Populated by list queries
	ClassName  string
	GradeLevel int
}

// FullName returns "Name Surname".
func (s *Student) FullName() string {
	return s.Name + " " + s.Surname
}

// Parent is the guardian of one or more students.
type Parent struct {
	ID        string
	Username  string
	Name      string
	Surname   string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time

	// Populated by list queries
	Students []string
}

// FullName returns "Name Surname".
func (p *Parent) FullName() string {
	return p.Name + " " + p.Surname
}

// TeacherProfile is the single-teacher page.
type TeacherProfile struct {
	Teacher
	SubjectCount int
	LessonCount  int
	ClassCount   int
}

// StudentProfile is the single-student page.
type StudentProfile struct {
	Student
	LessonCount       int
	AttendancePercent float64 // -1 when no attendance has been recorded
}

// =============================================================================
// Academics
// =============================================================================

// Subject is a taught discipline (e.g. Mathematics).
type Subject struct {
	ID       int
	Name     string
	Teachers []string
}

// Class is a group of students in one grade.
type Class struct {
	ID             int
	Name           string
	Capacity       int
	GradeID        int
	GradeLevel     int
	SupervisorID   string
	SupervisorName string
}

// Lesson is a weekly timetable slot.
type Lesson struct {
	ID          int
	Name        string
	Day         Day
	StartTime   time.Time
	EndTime     time.Time
	SubjectID   int
	SubjectName string
	ClassID     int
	ClassName   string
	TeacherID   string
	TeacherName string
}

// Exam is an assessment held during a lesson.
type Exam struct {
	ID          int
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	LessonID    int
	SubjectName string
	ClassName   string
	TeacherName string
}

// Assignment is homework attached to a lesson.
type Assignment struct {
	ID          int
	Title       string
	StartDate   time.Time
	DueDate     time.Time
	LessonID    int
	SubjectName string
	ClassName   string
	TeacherName string
}

// Result is a student's score on an exam or an assignment.
type Result struct {
	ID          int
	Score       int
	Title       string // exam or assignment title
	Kind        string // "exam" or "assignment"
	StudentID   string
	StudentName string
	TeacherName string
	ClassName   string
	Date        time.Time
}

// Attendance records whether a student was present at a lesson.
type Attendance struct {
	ID          int
	Date        time.Time
	Present     bool
	StudentID   string
	StudentName string
	LessonID    int
	LessonName  string
}

// =============================================================================
// Calendar & communication
// =============================================================================

// Event is a dated school event. A nil class means school-wide.
type Event struct {
	ID          int
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ClassID     int // 0 for school-wide
	ClassName   string
}

// Announcement is a notice. A zero ClassID means school-wide.
type Announcement struct {
	ID          int
	Title       string
	Description string
	Date        time.Time
	ClassID     int
	ClassName   string
}

// Finance is one month of income and expense, in whole currency units.
type Finance struct {
	Year    int
	Month   int
	Income  int64
	Expense int64
}
