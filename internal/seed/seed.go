package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/repositories"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// DemoCourse is a catalog entry plus the number of seats to occupy
type DemoCourse struct {
	Course   models.CourseCreate
	Enrolled int
}

// DemoCourses is the demo catalog: 101 and 102 have free seats, 103 is full
var DemoCourses = []DemoCourse{
	{
		Course: models.CourseCreate{
			Title: "Intro to CS", Description: "Basic programming concepts", Credits: 3,
			Days: []string{"Mon", "Wed"}, StartTime: "09:00", EndTime: "10:30", Capacity: 30,
		},
		Enrolled: 28,
	},
	{
		Course: models.CourseCreate{
			Title: "Data Structures", Description: "Advanced lists and trees", Credits: 4,
			Days: []string{"Tue", "Thu"}, StartTime: "14:00", EndTime: "16:00", Capacity: 25,
		},
		Enrolled: 10,
	},
	{
		Course: models.CourseCreate{
			Title: "Web Development", Description: "Building modern web apps", Credits: 3,
			Days: []string{"Fri"}, StartTime: "10:00", EndTime: "13:00", Capacity: 20,
		},
		Enrolled: 20,
	},
}

// DemoStudents are created first so they receive ids 1..3
var DemoStudents = []models.StudentCreate{
	{Name: "Alice Johnson", Email: "alice@example.com", Age: 20},
	{Name: "Bob Smith", Email: "bob@example.com", Age: 22},
	{Name: "Charlie Brown", Email: "charlie@example.com", Age: 21},
}

// CreateDemoData fills an empty store with the demo catalog. Occupancy is
// produced by enrolling generated roster students so enrolled_count always
// matches the enrollment relation. Running it against a populated store is
// safe: duplicate emails and existing pairs are skipped.
func CreateDemoData(ctx context.Context, store repositories.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data (students, courses, enrollments)...")
	var finalErr error

	for _, in := range DemoStudents {
		if _, err := store.CreateStudent(ctx, in); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("email", in.Email).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	existing, err := store.ListCourses(ctx, models.CourseQuery{})
	if err != nil {
		return errors.Join(finalErr, err)
	}
	byTitle := make(map[string]models.Course, len(existing))
	for _, c := range existing {
		byTitle[c.Title] = c
	}

	roster := rosterIDs(ctx, store, maxEnrolled(), lgr)

	for _, demo := range DemoCourses {
		course, ok := byTitle[demo.Course.Title]
		if !ok {
			created, err := store.CreateCourse(ctx, demo.Course)
			if err != nil {
				lgr.Error().Err(err).Str("title", demo.Course.Title).Msg("Error creating demo course")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			course = *created
		}

		for i := 0; i < demo.Enrolled && i < len(roster) && course.EnrolledCount < demo.Enrolled; i++ {
			err := store.Enroll(ctx, roster[i], course.ID)
			switch {
			case err == nil:
				course.EnrolledCount++
			case errors.Is(err, apperrors.ErrDuplicateEnrollment):
			default:
				lgr.Error().Err(err).Int64("courseID", course.ID).Msg("Error filling demo course")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	lgr.Info().Int("courses", len(DemoCourses)).Int("students", len(DemoStudents)).Msg("Demo data ready")
	return finalErr
}

// RosterEmail is the address of the n-th generated roster student (1-based)
func RosterEmail(n int) string {
	return fmt.Sprintf("roster.%02d@example.com", n)
}

// rosterIDs creates (or finds) n roster students and returns their ids
func rosterIDs(ctx context.Context, store repositories.Store, n int, lgr zerolog.Logger) []int64 {
	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		st, err := store.CreateStudent(ctx, models.StudentCreate{
			Name:  fmt.Sprintf("Roster Student %02d", i),
			Email: RosterEmail(i),
			Age:   18 + i%6,
		})
		if err == nil {
			ids = append(ids, st.ID)
			continue
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Int("n", i).Msg("Error creating roster student")
			continue
		}
		found, err := store.ListStudents(ctx, models.StudentQuery{Name: fmt.Sprintf("Roster Student %02d", i), Limit: models.MaxPageSize})
		if err != nil {
			continue
		}
		for _, s := range found {
			if s.Email == RosterEmail(i) {
				ids = append(ids, s.ID)
				break
			}
		}
	}
	return ids
}

func maxEnrolled() int {
	n := 0
	for _, d := range DemoCourses {
		if d.Enrolled > n {
			n = d.Enrolled
		}
	}
	return n
}
