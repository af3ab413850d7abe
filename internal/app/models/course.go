package models

import (
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/pkg/validation"
)

// Course represents a course students can enroll in.
type Course struct {
	ID            int64    `json:"id" db:"id" example:"101"`
	Title         string   `json:"title" db:"title" example:"Intro to CS"`
	Description   string   `json:"description" db:"description" example:"Basic programming concepts"`
	Credits       int      `json:"credits" db:"credits" example:"3"`
	Days          []string `json:"days" db:"days" example:"Mon,Wed"`
	StartTime     string   `json:"start_time" db:"start_time" example:"09:00"`
	EndTime       string   `json:"end_time" db:"end_time" example:"10:30"`
	Capacity      int      `json:"capacity" db:"capacity" example:"30"`
	EnrolledCount int      `json:"enrolled_count" db:"enrolled_count" example:"28"` // derived from enrollments
}

// IsFull reports whether no seat is left
func (c *Course) IsFull() bool {
	return c.EnrolledCount >= c.Capacity
}

// Clone returns a deep copy so callers never share the Days slice with the store
func (c Course) Clone() Course {
	c.Days = append([]string(nil), c.Days...)
	return c
}

// CourseCreate is the client-supplied part of a course
type CourseCreate struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	Credits     int      `json:"credits" validate:"gt=0"`
	Days        []string `json:"days" validate:"required,min=1,dive,weekday"`
	StartTime   string   `json:"start_time" validate:"required,clock"`
	EndTime     string   `json:"end_time" validate:"required,clock"`
	Capacity    int      `json:"capacity" validate:"gt=0"`
}

// Validate checks field rules and that the course ends after it starts
func (c CourseCreate) Validate() error {
	if len(c.Days) == 0 {
		return apperrors.NewValidationError("days cannot be empty")
	}
	if err := validation.Struct(c); err != nil {
		return err
	}
	if !validation.ClockBefore(c.StartTime, c.EndTime) {
		return apperrors.NewValidationError("end_time must be after start_time")
	}
	return nil
}

// Normalized returns a copy with the schedule deduplicated and ordered Mon..Fri
func (c CourseCreate) Normalized() CourseCreate {
	c.Days = validation.NormalizeDays(c.Days)
	return c
}

// NewCourse materializes a validated create request with the given id
func NewCourse(id int64, in CourseCreate) Course {
	in = in.Normalized()
	return Course{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Credits:     in.Credits,
		Days:        in.Days,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Capacity:    in.Capacity,
	}
}
