package services

import (
	"context"

	"github.com/yigit/unienroll/internal/app/models"
)

// Backend is the query/command surface used by the REST controllers and the
// operator CLI. It is implemented locally over a Data Store (LocalBackend)
// and remotely over HTTP (apiclient.Client); callers cannot tell them apart.
type Backend interface {
	ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error)
	ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)

	CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error)
	CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error)
	DeleteStudent(ctx context.Context, id int64) error
	DeleteCourse(ctx context.Context, id int64) error

	// Enroll and Unenroll return the confirmation message ("Enrolled", "Unenrolled").
	Enroll(ctx context.Context, studentID, courseID int64) (string, error)
	Unenroll(ctx context.Context, studentID, courseID int64) (string, error)
}
