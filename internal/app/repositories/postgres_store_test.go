package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/migrations"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/config"
	"github.com/yigit/unienroll/internal/db"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// newTestPostgresStore connects with the DB_* settings and empties the schema.
// Set ENROLL_TEST_POSTGRES=1 against a disposable database to run these tests.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if os.Getenv("ENROLL_TEST_POSTGRES") == "" {
		t.Skip("ENROLL_TEST_POSTGRES not set")
	}
	ctx := context.Background()

	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	database, err := db.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(database.Close)

	if err := migrations.NewMigrator(database.Pool, zerolog.Nop()).Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Pool.Exec(ctx, "TRUNCATE enrollments, students, courses RESTART IDENTITY"); err != nil {
		t.Fatal(err)
	}
	return NewPostgresStore(database)
}

func TestPostgresStoreEnrollment(t *testing.T) {
	ctx := context.Background()
	s := newTestPostgresStore(t)

	alice, err := s.CreateStudent(ctx, models.StudentCreate{Name: "Alice Johnson", Email: "alice@example.com", Age: 20})
	if err != nil {
		t.Fatal(err)
	}
	if alice.ID != 1 || alice.Courses == nil {
		t.Fatalf("alice = %+v", alice)
	}
	if _, err := s.CreateStudent(ctx, models.StudentCreate{Name: "Alice Two", Email: "alice@example.com", Age: 30}); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("duplicate email = %v", err)
	}

	course, err := s.CreateCourse(ctx, models.CourseCreate{
		Title: "Intro to CS", Credits: 3, Days: []string{"Wed", "Mon"},
		StartTime: "09:00", EndTime: "10:30", Capacity: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if course.ID != 101 || course.Days[0] != "Mon" {
		t.Fatalf("course = %+v", course)
	}

	bob, err := s.CreateStudent(ctx, models.StudentCreate{Name: "Bob Smith", Email: "bob@example.com", Age: 22})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Enroll(ctx, alice.ID, course.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Enroll(ctx, alice.ID, course.ID); !errors.Is(err, apperrors.ErrDuplicateEnrollment) {
		t.Fatalf("duplicate enroll = %v", err)
	}
	if err := s.Enroll(ctx, bob.ID, course.ID); !errors.Is(err, apperrors.ErrCapacityExceeded) {
		t.Fatalf("full course = %v", err)
	}
	if err := s.Enroll(ctx, 999, course.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("unknown student = %v", err)
	}

	got, err := s.GetStudent(ctx, alice.ID)
	if err != nil || len(got.Courses) != 1 || got.Courses[0].EnrolledCount != 1 {
		t.Fatalf("alice = %+v, %v", got, err)
	}

	if err := s.DeleteStudent(ctx, alice.ID); err != nil {
		t.Fatal(err)
	}
	c, err := s.GetCourse(ctx, course.ID)
	if err != nil || c.EnrolledCount != 0 {
		t.Fatalf("after cascade = %+v, %v", c, err)
	}
	if err := s.Unenroll(ctx, bob.ID, course.ID); err != nil {
		t.Fatalf("unenroll absent pair = %v", err)
	}
}

func TestPostgresStoreConcurrentEnroll(t *testing.T) {
	ctx := context.Background()
	s := newTestPostgresStore(t)

	course, err := s.CreateCourse(ctx, models.CourseCreate{
		Title: "Web Development", Credits: 3, Days: []string{"Fri"},
		StartTime: "13:00", EndTime: "15:00", Capacity: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	ids := make([]int64, n)
	for i := range ids {
		st, err := s.CreateStudent(ctx, models.StudentCreate{
			Name: "Roster Student", Email: "roster." + string(rune('a'+i)) + "@example.com", Age: 19,
		})
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = st.ID
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.Enroll(ctx, id, course.ID); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else if !errors.Is(err, apperrors.ErrCapacityExceeded) {
				t.Errorf("enroll %d: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	c, err := s.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok != 5 || c.EnrolledCount != 5 {
		t.Fatalf("ok = %d, enrolled_count = %d", ok, c.EnrolledCount)
	}
}
