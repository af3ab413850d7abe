package repositories

import (
	"context"

	"github.com/yigit/unienroll/internal/app/models"
)

// Store holds students, courses and the enrollment relation between them
// and enforces the enrollment invariants:
//   - a (student, course) pair exists at most once,
//   - a pair is only created while enrolled_count < capacity,
//   - enrolled_count always equals the number of pairs for the course.
type Store interface {
	ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error)
	ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)

	CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error)
	CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error)

	// DeleteStudent and DeleteCourse are idempotent and drop the affected enrollments.
	DeleteStudent(ctx context.Context, id int64) error
	DeleteCourse(ctx context.Context, id int64) error

	Enroll(ctx context.Context, studentID, courseID int64) error
	Unenroll(ctx context.Context, studentID, courseID int64) error
}

// Compile-time contract assertions
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
