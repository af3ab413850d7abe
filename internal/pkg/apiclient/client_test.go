package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/models/dto"
	"github.com/yigit/unienroll/internal/app/repositories"
	"github.com/yigit/unienroll/internal/bootstrap"
	"github.com/yigit/unienroll/internal/config"
	"github.com/yigit/unienroll/internal/pkg/apiclient"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/seed"
)

func newBackendServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := repositories.NewMemoryStore()
	if err := seed.CreateDemoData(ctx, store, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.API.Key = "secret123"
	cfg.Store.Driver = config.DriverMemory
	deps, err := bootstrap.BuildDependencies(ctx, cfg, store, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(bootstrap.SetupRouter(cfg, deps))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAgainstBackend(t *testing.T) {
	ctx := context.Background()
	srv := newBackendServer(t)
	c := apiclient.New(srv.URL, "secret123", zerolog.Nop())

	students, err := c.ListStudents(ctx, models.StudentQuery{Name: "o", OrderBy: models.OrderByAge, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 2 {
		t.Fatalf("students = %+v", students)
	}

	courses, err := c.ListCourses(ctx, models.CourseQuery{OrderBy: models.OrderByTitle})
	if err != nil || len(courses) != 3 || courses[0].Title != "Data Structures" {
		t.Fatalf("courses = %+v, %v", courses, err)
	}

	st, err := c.CreateStudent(ctx, models.StudentCreate{Name: "Dana Scully", Email: "dana@example.com", Age: 23})
	if err != nil {
		t.Fatal(err)
	}

	msg, err := c.Enroll(ctx, st.ID, 102)
	if err != nil || msg != "Enrolled" {
		t.Fatalf("enroll = %q, %v", msg, err)
	}
	got, err := c.GetStudent(ctx, st.ID)
	if err != nil || len(got.Courses) != 1 || got.Courses[0].ID != 102 {
		t.Fatalf("student after enroll = %+v, %v", got, err)
	}

	msg, err = c.Unenroll(ctx, st.ID, 102)
	if err != nil || msg != "Unenrolled" {
		t.Fatalf("unenroll = %q, %v", msg, err)
	}

	course, err := c.CreateCourse(ctx, models.CourseCreate{
		Title: "Compilers", Credits: 4, Days: []string{"Thu", "Tue", "Tue"},
		StartTime: "11:00", EndTime: "12:30", Capacity: 15,
	})
	if err != nil {
		t.Fatal(err)
	}
	if course.ID != 104 || course.EnrolledCount != 0 || len(course.Days) != 2 || course.Days[0] != "Tue" {
		t.Fatalf("course = %+v", course)
	}

	if err := c.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteStudent(ctx, st.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteStudent(ctx, st.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestClientErrorCategories(t *testing.T) {
	ctx := context.Background()
	srv := newBackendServer(t)
	c := apiclient.New(srv.URL, "secret123", zerolog.Nop())

	if _, err := c.Enroll(ctx, 1, 101); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		call     func() error
		sentinel error
		message  string
		code     string
	}{
		{"duplicate enrollment", func() error { _, err := c.Enroll(ctx, 1, 101); return err },
			apperrors.ErrDuplicateEnrollment, "student already enrolled", "ENR_001"},
		{"course full", func() error { _, err := c.Enroll(ctx, 2, 103); return err },
			apperrors.ErrCapacityExceeded, "course is full", "ENR_002"},
		{"unknown student", func() error { _, err := c.Enroll(ctx, 999, 101); return err },
			apperrors.ErrResourceNotFound, "student not found", "RES_001"},
		{"duplicate email", func() error {
			_, err := c.CreateStudent(ctx, models.StudentCreate{Name: "Alice Again", Email: "alice@example.com", Age: 20})
			return err
		}, apperrors.ErrConflict, "email already exists", "RES_002"},
		{"empty days", func() error {
			_, err := c.CreateCourse(ctx, models.CourseCreate{Title: "X", Credits: 1, Days: []string{}, StartTime: "09:00", EndTime: "10:00", Capacity: 1})
			return err
		}, apperrors.ErrValidationFailed, "days cannot be empty", "VAL_001"},
		{"bad order", func() error {
			_, err := c.ListStudents(ctx, models.StudentQuery{OrderBy: "email"})
			return err
		}, apperrors.ErrValidationFailed, "order_by must be one of: name, age", "VAL_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}
			if err.Error() != tt.message {
				t.Fatalf("message = %q, want %q", err.Error(), tt.message)
			}
			if code := apiclient.ErrorCode(err); code != tt.code {
				t.Fatalf("code = %q, want %q", code, tt.code)
			}
		})
	}

	// the capacity failure left the course untouched
	full, err := c.GetCourse(ctx, 103)
	if err != nil || full.EnrolledCount != 20 {
		t.Fatalf("course 103 = %+v, %v", full, err)
	}
}

func TestClientWrongKey(t *testing.T) {
	srv := newBackendServer(t)
	c := apiclient.New(srv.URL, "wrong", zerolog.Nop())

	_, err := c.ListCourses(context.Background(), models.CourseQuery{})
	if !errors.Is(err, apperrors.ErrUnauthorized) || err.Error() != "Invalid API key" {
		t.Fatalf("err = %v", err)
	}
}

func TestClientFallbackMessageAndStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		sentinel error
		message  string
	}{
		{http.StatusConflict, `{"detail":"Email already exists"}`, apperrors.ErrConflict, "Email already exists"},
		{http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","age"]}]}`, apperrors.ErrValidationFailed, "Failed to create student"},
		{http.StatusInternalServerError, `oops`, apperrors.ErrNetwork, "Failed to create student"},
		{http.StatusNotFound, ``, apperrors.ErrResourceNotFound, "Failed to create student"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(dto.APIKeyHeader) != "k" {
				t.Errorf("api key header missing")
			}
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))
		c := apiclient.New(srv.URL, "k", zerolog.Nop())
		_, err := c.CreateStudent(context.Background(), models.StudentCreate{Name: "Eve", Email: "eve@example.com", Age: 30})
		srv.Close()

		if !errors.Is(err, tt.sentinel) || err.Error() != tt.message {
			t.Errorf("status %d: err = %v", tt.status, err)
		}
	}
}

func TestClientTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := apiclient.New(url, "k", zerolog.Nop())
	_, err := c.ListStudents(context.Background(), models.StudentQuery{})
	if !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("err = %v", err)
	}
}

func TestClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := apiclient.New(srv.URL, "k", zerolog.Nop())
	if _, err := c.ListCourses(ctx, models.CourseQuery{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}
