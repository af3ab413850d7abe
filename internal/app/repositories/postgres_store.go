package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/db"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/pkg/dberrors"
	"github.com/yigit/unienroll/internal/pkg/helpers"
	"github.com/yigit/unienroll/internal/pkg/logger"
)

var (
	studentColumns = []string{"id", "name", "email", "age"}
	courseColumns  = []string{"c.id", "c.title", "c.description", "c.credits", "c.days", "c.start_time", "c.end_time", "c.capacity", "c.enrolled_count"}
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is a Store backed by PostgreSQL. The enrollment invariants are
// enforced with row locks inside one transaction per command, backed by the
// schema's CHECK and primary key constraints.
type PostgresStore struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListStudents filters, sorts and paginates in SQL, then loads course snapshots
func (s *PostgresStore) ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	qb := s.sb.Select(studentColumns...).From("students")
	if q.Name != "" {
		qb = qb.Where("name ILIKE ?", helpers.ContainsPattern(q.Name))
	}
	switch q.OrderBy {
	case models.OrderByName:
		qb = qb.OrderBy(`name COLLATE "C" ASC`, "id ASC")
	case models.OrderByAge:
		qb = qb.OrderBy("age ASC", "id ASC")
	default:
		qb = qb.OrderBy("id ASC")
	}
	qb = qb.Offset(uint64(q.Skip)).Limit(uint64(q.Limit))

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.Age); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	if err := s.attachCourses(ctx, s.db.Pool, students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListCourses filters by title with optional sort and pagination
func (s *PostgresStore) ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	qb := s.sb.Select(courseColumns...).From("courses c")
	if q.Title != "" {
		qb = qb.Where("c.title ILIKE ?", helpers.ContainsPattern(q.Title))
	}
	if q.OrderBy == models.OrderByTitle {
		qb = qb.OrderBy(`c.title COLLATE "C" ASC`, "c.id ASC")
	} else {
		qb = qb.OrderBy("c.id ASC")
	}
	if q.Skip > 0 {
		qb = qb.Offset(uint64(q.Skip))
	}
	if q.Limit > 0 {
		qb = qb.Limit(uint64(q.Limit))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// GetStudent retrieves a student by ID together with its courses
func (s *PostgresStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := s.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var st models.Student
	err = s.db.Pool.QueryRow(ctx, sql, args...).Scan(&st.ID, &st.Name, &st.Email, &st.Age)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	list := []models.Student{st}
	if err := s.attachCourses(ctx, s.db.Pool, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// GetCourse retrieves a course by ID
func (s *PostgresStore) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := s.sb.Select(courseColumns...).
		From("courses c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	if err := scanCourse(s.db.Pool.QueryRow(ctx, sql, args...), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return &c, nil
}

// CreateStudent inserts a student, mapping the email unique violation to a conflict
func (s *PostgresStore) CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sql, args, err := s.sb.Insert("students").
		Columns("name", "email", "age").
		Values(in.Name, in.Email, in.Age).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	st := &models.Student{Name: in.Name, Email: in.Email, Age: in.Age, Courses: []models.Course{}}
	if err := s.db.Pool.QueryRow(ctx, sql, args...).Scan(&st.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentsEmailKey) {
			lgr := logger.Component("store")
			lgr.Warn().Str("email", in.Email).Msg("Attempted to create student with duplicate email")
			return nil, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return st, nil
}

// CreateCourse inserts a normalized course with enrolled_count 0
func (s *PostgresStore) CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := models.NewCourse(0, in)

	sql, args, err := s.sb.Insert("courses").
		Columns("title", "description", "credits", "days", "start_time", "end_time", "capacity").
		Values(c.Title, c.Description, c.Credits, c.Days, c.StartTime, c.EndTime, c.Capacity).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return nil, fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := s.db.Pool.QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return &c, nil
}

// DeleteStudent releases the student's seats and removes it; absent ids are a no-op
func (s *PostgresStore) DeleteStudent(ctx context.Context, id int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		found, err := s.lockRow(ctx, tx, "students", id, "FOR UPDATE")
		if err != nil || !found {
			return err
		}

		sql, args, err := s.sb.Update("courses").
			Set("enrolled_count", squirrel.Expr("GREATEST(enrolled_count - 1, 0)")).
			Where("id IN (SELECT course_id FROM enrollments WHERE student_id = ?)", id).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build release seats query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error releasing seats: %w", err)
		}

		sql, args, err = s.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete student query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
			return fmt.Errorf("error deleting student: %w", err)
		}
		return nil
	})
}

// DeleteCourse removes the course; enrollments go with it through ON DELETE CASCADE
func (s *PostgresStore) DeleteCourse(ctx context.Context, id int64) error {
	sql, args, err := s.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}

// Enroll locks the course row, checks the pair and the capacity, then inserts and increments
func (s *PostgresStore) Enroll(ctx context.Context, studentID, courseID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		capacity, enrolled, err := s.lockEnrollmentPair(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}

		exists, err := s.pairExists(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicateEnrollment
		}
		if enrolled >= capacity {
			return apperrors.ErrCapacityExceeded
		}

		sql, args, err := s.sb.Insert("enrollments").
			Columns("student_id", "course_id").
			Values(studentID, courseID).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build enroll query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return enrollInsertError(err, studentID)
		}

		if err := s.adjustCount(ctx, tx, courseID, "enrolled_count + 1"); err != nil {
			if dberrors.IsCheckViolation(err, dberrors.CoursesCapacityCheck) {
				return apperrors.ErrCapacityExceeded
			}
			return err
		}

		logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).Int("enrolled", enrolled+1).Msg("Student enrolled")
		return nil
	})
}

// Unenroll removes the pair when present and releases the seat
func (s *PostgresStore) Unenroll(ctx context.Context, studentID, courseID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, _, err := s.lockEnrollmentPair(ctx, tx, studentID, courseID); err != nil {
			return err
		}

		sql, args, err := s.sb.Delete("enrollments").
			Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build unenroll query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting enrollment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if err := s.adjustCount(ctx, tx, courseID, "GREATEST(enrolled_count - 1, 0)"); err != nil {
			return err
		}
		logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student unenrolled")
		return nil
	})
}

// lockEnrollmentPair share-locks the student and exclusively locks the course,
// reporting NotFound for whichever is missing (student first).
func (s *PostgresStore) lockEnrollmentPair(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (capacity, enrolled int, err error) {
	found, err := s.lockRow(ctx, tx, "students", studentID, "FOR SHARE")
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, apperrors.ErrStudentNotFound
	}

	sql, args, err := s.sb.Select("capacity", "enrolled_count").
		From("courses").
		Where(squirrel.Eq{"id": courseID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build lock course query: %w", err)
	}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&capacity, &enrolled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, apperrors.ErrCourseNotFound
		}
		return 0, 0, fmt.Errorf("error locking course: %w", err)
	}
	return capacity, enrolled, nil
}

func (s *PostgresStore) lockRow(ctx context.Context, tx pgx.Tx, table string, id int64, mode string) (bool, error) {
	sql, args, err := s.sb.Select("id").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix(mode).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build lock %s query: %w", table, err)
	}

	var got int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&got); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error locking %s row: %w", table, err)
	}
	return true, nil
}

func (s *PostgresStore) pairExists(ctx context.Context, q querier, studentID, courseID int64) (bool, error) {
	sql, args, err := s.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) adjustCount(ctx context.Context, q querier, courseID int64, expr string) error {
	sql, args, err := s.sb.Update("courses").
		Set("enrolled_count", squirrel.Expr(expr)).
		Where(squirrel.Eq{"id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrolled_count update: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating enrolled_count: %w", err)
	}
	return nil
}

// attachCourses fills Courses for every student with one join query
func (s *PostgresStore) attachCourses(ctx context.Context, q querier, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]int64, len(students))
	index := make(map[int64]int, len(students))
	for i := range students {
		students[i].Courses = []models.Course{}
		ids[i] = students[i].ID
		index[students[i].ID] = i
	}

	sql, args, err := s.sb.Select(append([]string{"e.student_id"}, courseColumns...)...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.student_id": ids}).
		OrderBy("e.student_id ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student courses query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying student courses")
		return fmt.Errorf("error querying student courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			studentID int64
			c         models.Course
		)
		if err := rows.Scan(&studentID, &c.ID, &c.Title, &c.Description, &c.Credits, &c.Days,
			&c.StartTime, &c.EndTime, &c.Capacity, &c.EnrolledCount); err != nil {
			return fmt.Errorf("error scanning student course row: %w", err)
		}
		if i, ok := index[studentID]; ok {
			students[i].Courses = append(students[i].Courses, c)
		}
	}
	return rows.Err()
}

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(&c.ID, &c.Title, &c.Description, &c.Credits, &c.Days,
		&c.StartTime, &c.EndTime, &c.Capacity, &c.EnrolledCount)
}

// enrollInsertError maps a foreign key failure on the pair insert back to the
// missing side. The row locks make this unreachable unless a row vanished
// outside the locking protocol.
func enrollInsertError(err error, studentID int64) error {
	switch fk := dberrors.ForeignKeyConstraint(err); fk {
	case "":
		return fmt.Errorf("error inserting enrollment: %w", err)
	case dberrors.EnrollmentsStudentFKey:
		return apperrors.ErrStudentNotFound
	default:
		logger.Warn().Int64("studentID", studentID).Str("constraint", fk).Msg("Enrollment insert hit a dangling course reference")
		return apperrors.ErrCourseNotFound
	}
}
