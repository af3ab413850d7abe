package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/app/models"
	"github.com/yigit/unienroll/internal/app/repositories"
)

// localBackend answers from an in-process Store, optionally after a fixed delay
type localBackend struct {
	store   repositories.Store
	latency time.Duration
	logger  zerolog.Logger
}

// NewLocalBackend creates a Backend over store. A positive latency is waited
// before every call, as the demo mode of the operator front end does.
func NewLocalBackend(store repositories.Store, latency time.Duration, lgr zerolog.Logger) Backend {
	return &localBackend{
		store:   store,
		latency: latency,
		logger:  lgr.With().Str("component", "local_backend").Logger(),
	}
}

// wait sleeps for the configured latency unless ctx ends first
func (b *localBackend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *localBackend) ListStudents(ctx context.Context, q models.StudentQuery) ([]models.Student, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.store.ListStudents(ctx, q)
}

func (b *localBackend) ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.store.ListCourses(ctx, q)
}

func (b *localBackend) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.store.GetStudent(ctx, id)
}

func (b *localBackend) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.store.GetCourse(ctx, id)
}

func (b *localBackend) CreateStudent(ctx context.Context, in models.StudentCreate) (*models.Student, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	st, err := b.store.CreateStudent(ctx, in)
	if err != nil {
		b.logger.Debug().Err(err).Str("email", in.Email).Msg("Create student rejected")
		return nil, err
	}
	b.logger.Info().Int64("studentID", st.ID).Str("email", st.Email).Msg("Student created")
	return st, nil
}

func (b *localBackend) CreateCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	c, err := b.store.CreateCourse(ctx, in)
	if err != nil {
		b.logger.Debug().Err(err).Str("title", in.Title).Msg("Create course rejected")
		return nil, err
	}
	b.logger.Info().Int64("courseID", c.ID).Str("title", c.Title).Msg("Course created")
	return c, nil
}

func (b *localBackend) DeleteStudent(ctx context.Context, id int64) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	if err := b.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	b.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

func (b *localBackend) DeleteCourse(ctx context.Context, id int64) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	if err := b.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	b.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

func (b *localBackend) Enroll(ctx context.Context, studentID, courseID int64) (string, error) {
	if err := b.wait(ctx); err != nil {
		return "", err
	}
	if err := b.store.Enroll(ctx, studentID, courseID); err != nil {
		b.logger.Debug().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Enroll rejected")
		return "", err
	}
	b.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Enrolled")
	return models.MessageEnrolled, nil
}

func (b *localBackend) Unenroll(ctx context.Context, studentID, courseID int64) (string, error) {
	if err := b.wait(ctx); err != nil {
		return "", err
	}
	if err := b.store.Unenroll(ctx, studentID, courseID); err != nil {
		b.logger.Debug().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Unenroll rejected")
		return "", err
	}
	b.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Unenrolled")
	return models.MessageUnenrolled, nil
}
