package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the stores react to
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// Constraint names created by the initial migration
const (
	StudentsEmailKey       = "students_email_key"
	CoursesCapacityCheck   = "courses_enrolled_count_check"
	EnrollmentsStudentFKey = "enrollments_student_id_fkey"
	EnrollmentsCourseFKey  = "enrollments_course_id_fkey"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return hasCode(err, CodeUniqueViolation, constraintName)
}

// ForeignKeyConstraint returns the violated constraint name of a foreign key
// failure, or "" when err is not one
func ForeignKeyConstraint(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != CodeForeignKeyViolation {
		return ""
	}
	return pgErr.ConstraintName
}

// IsCheckViolation reports a CHECK failure for a specific constraint
func IsCheckViolation(err error, constraintName string) bool {
	return hasCode(err, CodeCheckViolation, constraintName)
}

func hasCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
