package models

import "github.com/yigit/unienroll/internal/pkg/validation"

// Student is an enrolled person together with snapshots of the courses they attend
type Student struct {
	ID      int64    `json:"id" db:"id" example:"1"`
	Name    string   `json:"name" db:"name" example:"Alice Johnson"`
	Email   string   `json:"email" db:"email" example:"alice@example.com"`
	Age     int      `json:"age" db:"age" example:"20"`
	Courses []Course `json:"courses"` // materialized from enrollments, ordered by course id
}

// StudentCreate is the client-supplied part of a student
type StudentCreate struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gt=0"`
}

// Validate checks field rules
func (s StudentCreate) Validate() error {
	return validation.Struct(s)
}
