package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
	"github.com/yigit/unienroll/internal/pkg/helpers"
	"github.com/yigit/unienroll/internal/pkg/logger"
)

// Default id sequences, matching the demo catalog numbering
const (
	DefaultStudentIDStart int64 = 1
	DefaultCourseIDStart  int64 = 101
)

type studentRecord struct {
	id    int64
	name  string
	email string
	age   int
}

// MemoryStore is an in-process Store. All state is guarded by one mutex so
// that every check-and-mutate sequence (capacity check + increment, email
// uniqueness + insert) runs as a single critical section.
type MemoryStore struct {
	mu sync.RWMutex

	students    map[int64]*studentRecord
	courses     map[int64]*models.Course
	emails      map[string]int64
	enrollments map[int64]map[int64]struct{} // student id -> set of course ids

	nextStudentID int64
	nextCourseID  int64
}

// MemoryOption customizes a MemoryStore
type MemoryOption func(*MemoryStore)

// WithIDStart sets the first student and course ids
func WithIDStart(student, course int64) MemoryOption {
	return func(s *MemoryStore) {
		s.nextStudentID = student
		s.nextCourseID = course
	}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		students:      make(map[int64]*studentRecord),
		courses:       make(map[int64]*models.Course),
		emails:        make(map[string]int64),
		enrollments:   make(map[int64]map[int64]struct{}),
		nextStudentID: DefaultStudentIDStart,
		nextCourseID:  DefaultCourseIDStart,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListStudents filters by name, sorts, then paginates
func (s *MemoryStore) ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Name)
	matched := make([]*studentRecord, 0, len(s.students))
	for _, rec := range s.students {
		if needle != "" && !strings.Contains(strings.ToLower(rec.name), needle) {
			continue
		}
		matched = append(matched, rec)
	}

	// id order first so that ties keep creation order under the stable sort
	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })
	switch q.OrderBy {
	case models.OrderByName:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].name < matched[j].name })
	case models.OrderByAge:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].age < matched[j].age })
	}

	start, end := helpers.SliceWindow(q.Skip, q.Limit, len(matched))
	out := make([]models.Student, 0, end-start)
	for _, rec := range matched[start:end] {
		out = append(out, s.materializeLocked(rec))
	}
	return out, nil
}

// ListCourses filters by title and optionally sorts and paginates
func (s *MemoryStore) ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Title)
	matched := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if needle != "" && !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		matched = append(matched, c.Clone())
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if q.OrderBy == models.OrderByTitle {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	}

	start, end := helpers.SliceWindow(q.Skip, q.Limit, len(matched))
	return matched[start:end], nil
}

// GetStudent returns one student with course snapshots
func (s *MemoryStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	st := s.materializeLocked(rec)
	return &st, nil
}

// GetCourse returns one course
func (s *MemoryStore) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := c.Clone()
	return &cp, nil
}

// CreateStudent inserts a student; the email must be unused (exact match)
func (s *MemoryStore) CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[in.Email]; taken {
		lgr := logger.Component("store")
		lgr.Warn().Str("email", in.Email).Msg("Attempted to create student with duplicate email")
		return nil, apperrors.ErrEmailAlreadyExists
	}

	rec := &studentRecord{id: s.nextStudentID, name: in.Name, email: in.Email, age: in.Age}
	s.nextStudentID++
	s.students[rec.id] = rec
	s.emails[rec.email] = rec.id

	st := s.materializeLocked(rec)
	return &st, nil
}

// CreateCourse inserts a course with enrolled_count 0
func (s *MemoryStore) CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.NewCourse(s.nextCourseID, in)
	s.nextCourseID++
	s.courses[c.ID] = &c

	cp := c.Clone()
	return &cp, nil
}

// DeleteStudent removes the student and releases their seats
func (s *MemoryStore) DeleteStudent(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.students[id]
	if !ok {
		return nil
	}
	for courseID := range s.enrollments[id] {
		if c, ok := s.courses[courseID]; ok {
			decrement(c)
		}
	}
	delete(s.enrollments, id)
	delete(s.emails, rec.email)
	delete(s.students, id)
	return nil
}

// DeleteCourse removes the course and drops it from every student
func (s *MemoryStore) DeleteCourse(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return nil
	}
	for studentID, set := range s.enrollments {
		delete(set, id)
		if len(set) == 0 {
			delete(s.enrollments, studentID)
		}
	}
	delete(s.courses, id)
	return nil
}

// Enroll adds the pair and takes a seat, or fails without touching state
func (s *MemoryStore) Enroll(ctx context.Context, studentID, courseID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	c, ok := s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if _, dup := s.enrollments[studentID][courseID]; dup {
		return apperrors.ErrDuplicateEnrollment
	}
	if c.IsFull() {
		return apperrors.ErrCapacityExceeded
	}

	set, ok := s.enrollments[studentID]
	if !ok {
		set = make(map[int64]struct{})
		s.enrollments[studentID] = set
	}
	set[courseID] = struct{}{}
	c.EnrolledCount++

	logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).Int("enrolled", c.EnrolledCount).Msg("Student enrolled")
	return nil
}

// Unenroll removes the pair if present and releases the seat
func (s *MemoryStore) Unenroll(ctx context.Context, studentID, courseID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	c, ok := s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	set := s.enrollments[studentID]
	if _, enrolled := set[courseID]; !enrolled {
		return nil
	}
	delete(set, courseID)
	if len(set) == 0 {
		delete(s.enrollments, studentID)
	}
	decrement(c)

	logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).Int("enrolled", c.EnrolledCount).Msg("Student unenrolled")
	return nil
}

// materializeLocked builds a Student with course snapshots; caller holds mu
func (s *MemoryStore) materializeLocked(rec *studentRecord) models.Student {
	st := models.Student{
		ID:      rec.id,
		Name:    rec.name,
		Email:   rec.email,
		Age:     rec.age,
		Courses: []models.Course{},
	}
	for courseID := range s.enrollments[rec.id] {
		if c, ok := s.courses[courseID]; ok {
			st.Courses = append(st.Courses, c.Clone())
		}
	}
	sort.Slice(st.Courses, func(i, j int) bool { return st.Courses[i].ID < st.Courses[j].ID })
	return st
}

func decrement(c *models.Course) {
	if c.EnrolledCount > 0 {
		c.EnrolledCount--
	}
}
