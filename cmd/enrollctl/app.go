package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/models/dto"
	appServices "github.com/yigit/unienroll/internal/app/services"
	"github.com/yigit/unienroll/internal/bootstrap"
	"github.com/yigit/unienroll/internal/pkg/apiclient"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/pkg/logger"
)

const envPrefix = "ENROLL"

// settings are read from ENROLL_* variables; flags override them
type settings struct {
	Backend string        `envconfig:"BACKEND" default:"mock"`
	BaseURL string        `envconfig:"BASE_URL" default:"http://127.0.0.1:8000"`
	APIKey  string        `envconfig:"API_KEY" default:"secret123"`
	Latency time.Duration `envconfig:"LATENCY" default:"300ms"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

type runner struct {
	out     io.Writer
	backend appServices.Backend
	json    bool
}

// newApp builds the command tree. A non-nil backend is used as is and the
// --backend flags are ignored.
func newApp(s settings, out io.Writer, backend appServices.Backend) *cli.App {
	r := &runner{out: out, backend: backend}

	return &cli.App{
		Name:      "enrollctl",
		Usage:     "administer students, courses and enrollments",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Value: s.Backend, Usage: "mock (in-memory demo data) or remote"},
			&cli.StringFlag{Name: "base-url", Value: s.BaseURL, Usage: "REST backend URL for --backend remote"},
			&cli.StringFlag{Name: "api-key", Value: s.APIKey, Usage: "value sent in X-API-KEY"},
			&cli.DurationFlag{Name: "latency", Value: s.Latency, Usage: "simulated delay per call in mock mode"},
			&cli.DurationFlag{Name: "timeout", Value: s.Timeout, Usage: "per request timeout in remote mode"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of tables"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging on stderr"},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:  "students",
				Usage: "list, show, create and delete students",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list students",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "case-insensitive substring filter"},
							&cli.StringFlag{Name: "order-by", Usage: "name or age"},
							&cli.IntFlag{Name: "skip"},
							&cli.IntFlag{Name: "limit", Value: models.DefaultPageSize},
						},
						Action: r.listStudents,
					},
					{Name: "show", Usage: "show a student and their courses", ArgsUsage: "ID", Action: r.showStudent},
					{
						Name:  "create",
						Usage: "create a student",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "email", Required: true},
							&cli.IntFlag{Name: "age", Required: true},
						},
						Action: r.createStudent,
					},
					{Name: "delete", Usage: "delete a student and their enrollments", ArgsUsage: "ID", Action: r.deleteStudent},
				},
			},
			{
				Name:  "courses",
				Usage: "list, show, create and delete courses",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list courses",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Usage: "case-insensitive substring filter"},
							&cli.StringFlag{Name: "order-by", Usage: "title"},
							&cli.IntFlag{Name: "skip"},
							&cli.IntFlag{Name: "limit", Usage: "0 lists every course"},
						},
						Action: r.listCourses,
					},
					{Name: "show", Usage: "show a course", ArgsUsage: "ID", Action: r.showCourse},
					{
						Name:  "create",
						Usage: "create a course",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Required: true},
							&cli.StringFlag{Name: "description"},
							&cli.IntFlag{Name: "credits", Required: true},
							&cli.StringSliceFlag{Name: "days", Required: true, Usage: "e.g. Mon,Wed"},
							&cli.StringFlag{Name: "start", Required: true, Usage: "HH:MM"},
							&cli.StringFlag{Name: "end", Required: true, Usage: "HH:MM"},
							&cli.IntFlag{Name: "capacity", Required: true},
						},
						Action: r.createCourse,
					},
					{Name: "delete", Usage: "delete a course and its enrollments", ArgsUsage: "ID", Action: r.deleteCourse},
				},
			},
			{Name: "enroll", Usage: "enroll a student in a course", ArgsUsage: "STUDENT_ID COURSE_ID", Action: r.enroll},
			{Name: "unenroll", Usage: "remove a student from a course", ArgsUsage: "STUDENT_ID COURSE_ID", Action: r.unenroll},
		},
	}
}

func (r *runner) setup(c *cli.Context) error {
	r.json = c.Bool("json")

	level := logger.Disabled
	if c.Bool("verbose") {
		level = logger.DebugLevel
	}
	lgr := logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	if r.backend != nil {
		return nil
	}
	backend, err := bootstrap.NewBackend(c.Context, bootstrap.BackendOptions{
		Mode:    c.String("backend"),
		BaseURL: c.String("base-url"),
		APIKey:  c.String("api-key"),
		Latency: c.Duration("latency"),
		Timeout: c.Duration("timeout"),
	}, lgr)
	if err != nil {
		return err
	}
	r.backend = backend
	return nil
}

func (r *runner) listStudents(c *cli.Context) error {
	q := models.StudentQuery{
		Skip:    c.Int("skip"),
		Limit:   c.Int("limit"),
		Name:    c.String("name"),
		OrderBy: c.String("order-by"),
	}
	students, err := r.backend.ListStudents(c.Context, q)
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, students)
	}
	if err := writeStudents(r.out, students); err != nil {
		return err
	}
	if limit := q.Limit; limit > 0 && len(students) == limit {
		fmt.Fprintf(r.out, "\nmore pages may exist: rerun with --skip %d\n", q.Skip+limit)
	}
	return nil
}

func (r *runner) showStudent(c *cli.Context) error {
	id, err := argID(c, 0, "student id")
	if err != nil {
		return err
	}
	st, err := r.backend.GetStudent(c.Context, id)
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, st)
	}
	if err := writeStudents(r.out, []models.Student{*st}); err != nil {
		return err
	}
	if len(st.Courses) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)
	return writeCourses(r.out, st.Courses)
}

func (r *runner) createStudent(c *cli.Context) error {
	st, err := r.backend.CreateStudent(c.Context, models.StudentCreate{
		Name:  c.String("name"),
		Email: c.String("email"),
		Age:   c.Int("age"),
	})
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, st)
	}
	return writeStudents(r.out, []models.Student{*st})
}

func (r *runner) deleteStudent(c *cli.Context) error {
	id, err := argID(c, 0, "student id")
	if err != nil {
		return err
	}
	if err := r.backend.DeleteStudent(c.Context, id); err != nil {
		return err
	}
	return r.message(fmt.Sprintf("Deleted student %d", id))
}

func (r *runner) listCourses(c *cli.Context) error {
	courses, err := r.backend.ListCourses(c.Context, models.CourseQuery{
		Skip:    c.Int("skip"),
		Limit:   c.Int("limit"),
		Title:   c.String("title"),
		OrderBy: c.String("order-by"),
	})
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, courses)
	}
	return writeCourses(r.out, courses)
}

func (r *runner) showCourse(c *cli.Context) error {
	id, err := argID(c, 0, "course id")
	if err != nil {
		return err
	}
	course, err := r.backend.GetCourse(c.Context, id)
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, course)
	}
	return writeCourses(r.out, []models.Course{*course})
}

func (r *runner) createCourse(c *cli.Context) error {
	course, err := r.backend.CreateCourse(c.Context, models.CourseCreate{
		Title:       c.String("title"),
		Description: c.String("description"),
		Credits:     c.Int("credits"),
		Days:        c.StringSlice("days"),
		StartTime:   c.String("start"),
		EndTime:     c.String("end"),
		Capacity:    c.Int("capacity"),
	})
	if err != nil {
		return err
	}
	if r.json {
		return writeJSON(r.out, course)
	}
	return writeCourses(r.out, []models.Course{*course})
}

func (r *runner) deleteCourse(c *cli.Context) error {
	id, err := argID(c, 0, "course id")
	if err != nil {
		return err
	}
	if err := r.backend.DeleteCourse(c.Context, id); err != nil {
		return err
	}
	return r.message(fmt.Sprintf("Deleted course %d", id))
}

func (r *runner) enroll(c *cli.Context) error {
	studentID, courseID, err := argPair(c)
	if err != nil {
		return err
	}
	msg, err := r.backend.Enroll(c.Context, studentID, courseID)
	if err != nil {
		return err
	}
	return r.message(msg)
}

func (r *runner) unenroll(c *cli.Context) error {
	studentID, courseID, err := argPair(c)
	if err != nil {
		return err
	}
	msg, err := r.backend.Unenroll(c.Context, studentID, courseID)
	if err != nil {
		return err
	}
	return r.message(msg)
}

func (r *runner) message(msg string) error {
	if r.json {
		return writeJSON(r.out, dto.MessageResponse{Message: msg})
	}
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func argID(c *cli.Context, pos int, what string) (int64, error) {
	raw := c.Args().Get(pos)
	if raw == "" {
		return 0, apperrors.NewValidationError(what + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid %s %q", what, raw))
	}
	return id, nil
}

func argPair(c *cli.Context) (int64, int64, error) {
	studentID, err := argID(c, 0, "student id")
	if err != nil {
		return 0, 0, err
	}
	courseID, err := argID(c, 1, "course id")
	if err != nil {
		return 0, 0, err
	}
	return studentID, courseID, nil
}

// formatError renders a failure with its error code, as the REST body would carry it
func formatError(err error) string {
	code := apiclient.ErrorCode(err)
	if code == "" {
		if _, c, ok := dto.Classify(err); ok {
			code = string(c)
		}
	}
	if code == "" {
		return "error: " + err.Error()
	}
	return fmt.Sprintf("error [%s]: %s", code, err.Error())
}
