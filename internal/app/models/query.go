package models

import (
	"fmt"

	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// Sort fields accepted by the list operations
const (
	OrderByName  = "name"
	OrderByAge   = "age"
	OrderByTitle = "title"
)

// Page size bounds shared by the stores and the HTTP layer
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// StudentQuery filters, sorts and paginates the student list.
// Filtering happens before sorting, sorting before pagination.
type StudentQuery struct {
	Skip    int    `json:"skip" form:"skip"`
	Limit   int    `json:"limit" form:"limit"`       // 0 means DefaultPageSize
	Name    string `json:"name" form:"name"`         // case-insensitive substring
	OrderBy string `json:"order_by" form:"order_by"` // "", "name" or "age"
}

// Normalize validates the query and applies the default page size
func (q StudentQuery) Normalize() (StudentQuery, error) {
	if q.Skip < 0 {
		return q, apperrors.NewValidationError("skip must not be negative")
	}
	if q.Limit < 0 || q.Limit > MaxPageSize {
		return q, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxPageSize))
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	switch q.OrderBy {
	case "", OrderByName, OrderByAge:
	default:
		return q, apperrors.NewValidationError("order_by must be one of: name, age")
	}
	return q, nil
}

// CourseQuery filters and optionally sorts/paginates the course list.
// A zero Limit returns every matching course.
type CourseQuery struct {
	Skip    int    `json:"skip" form:"skip"`
	Limit   int    `json:"limit" form:"limit"`
	Title   string `json:"title" form:"title"`
	OrderBy string `json:"order_by" form:"order_by"` // "" or "title"
}

// Normalize validates the query
func (q CourseQuery) Normalize() (CourseQuery, error) {
	if q.Skip < 0 {
		return q, apperrors.NewValidationError("skip must not be negative")
	}
	if q.Limit < 0 || q.Limit > MaxPageSize {
		return q, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxPageSize))
	}
	switch q.OrderBy {
	case "", OrderByTitle:
	default:
		return q, apperrors.NewValidationError("order_by must be: title")
	}
	return q, nil
}
