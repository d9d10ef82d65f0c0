package domain

// UserCounts are the headline cards on the admin dashboard.
type UserCounts struct {
	Admins   int `json:"admins"`
	Teachers int `json:"teachers"`
	Students int `json:"students"`
	Parents  int `json:"parents"`
}

// SexSplit feeds the students radial chart.
type SexSplit struct {
	Boys  int `json:"boys"`
	Girls int `json:"girls"`
}

// DayAttendance is one weekday bar of the attendance chart.
type DayAttendance struct {
	Day     string `json:"name"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// MonthFinance is one month of the finance line chart.
type MonthFinance struct {
	Month   string `json:"name"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}
