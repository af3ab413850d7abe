package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/pkg/dberrors"
)

func TestEnrollInsertErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"student gone", &pgconn.PgError{Code: dberrors.CodeForeignKeyViolation, ConstraintName: dberrors.EnrollmentsStudentFKey}, apperrors.ErrStudentNotFound},
		{"course gone", fmt.Errorf("exec: %w", &pgconn.PgError{Code: dberrors.CodeForeignKeyViolation, ConstraintName: dberrors.EnrollmentsCourseFKey}), apperrors.ErrCourseNotFound},
	}
	for _, tt := range tests {
		if got := enrollInsertError(tt.err, 7); !errors.Is(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	other := errors.New("connection reset")
	got := enrollInsertError(other, 7)
	if !errors.Is(got, other) || errors.Is(got, apperrors.ErrResourceNotFound) {
		t.Fatalf("plain failure = %v", got)
	}
}
