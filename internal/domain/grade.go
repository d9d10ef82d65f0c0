package domain

// Grade is a school year level (1..12). Classes and students belong to one.
type Grade struct {
	ID         int `json:"id"`
	Level      int `json:"level"`
	ClassCount int `json:"classCount"`
}

// GradeInput is the payload for creating or updating a grade.
type GradeInput struct {
	Level int `json:"level" validate:"required,min=1,max=12"`
}

// Grade levels accepted by GradeInput.
const (
	MinGradeLevel = 1
	MaxGradeLevel = 12
)
