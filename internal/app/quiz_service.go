package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms-grading-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizRepository resolves quiz definitions (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	QuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// CourseCatalog resolves course metadata.
type CourseCatalog interface {
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	CountCourses(ctx context.Context) (int, error)
}

// CatalogLoader fetches catalog content from a backing store. Caching repositories wrap it.
type CatalogLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	LoadQuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error)
	LoadQuizzes(ctx context.Context) ([]domain.Quiz, error)
	LoadCourse(ctx context.Context, courseID string) (domain.Course, error)
	CountCourses(ctx context.Context) (int, error)
}

// ResultStore is the append-only collection of graded results.
// Listings are newest first.
type ResultStore interface {
	Append(ctx context.Context, result domain.QuizResult) error
	ListByUser(ctx context.Context, userID string) ([]domain.QuizResult, error)
	ListAll(ctx context.Context) ([]domain.QuizResult, error)
}

// UserDirectory resolves display details for user IDs.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

// ResultPublisher is notified after a result has been stored.
type ResultPublisher interface {
	Publish(result domain.QuizResult)
}

// QuizService contains the quiz-taking use cases.
type QuizService struct {
	quizzes   QuizRepository
	courses   CourseCatalog
	results   ResultStore
	publisher ResultPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
	grace     time.Duration
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithClock replaces time.Now, mostly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator replaces the UUID result ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

// WithPublisher registers a sink for freshly stored results.
func WithPublisher(p ResultPublisher) Option {
	return func(s *QuizService) { s.publisher = p }
}

// WithDeadlineGrace tolerates submissions arriving this long after the time limit.
func WithDeadlineGrace(d time.Duration) Option {
	return func(s *QuizService) { s.grace = d }
}

func NewQuizService(quizzes QuizRepository, courses CourseCatalog, results ResultStore, logger *zap.Logger, opts ...Option) *QuizService {
	s := &QuizService{
		quizzes: quizzes,
		courses: courses,
		results: results,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Submit grades an attempt for the given student and stores the result.
// Nothing is stored when any step before the append fails.
func (s *QuizService) Submit(ctx context.Context, student domain.Identity, attempt domain.Attempt) (domain.QuizResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return domain.QuizResult{}, err
	}

	now := s.now()
	if err := s.checkDeadline(quiz, attempt, now); err != nil {
		return domain.QuizResult{}, err
	}

	courseTitle, err := s.courseTitle(ctx, quiz.CourseID)
	if err != nil {
		return domain.QuizResult{}, err
	}

	if unknown := UnknownQuestions(quiz, attempt); len(unknown) > 0 {
		s.logger.Debug("ignoring answers for unknown questions",
			zap.String("quiz_id", quiz.ID),
			zap.String("user_id", student.UserID),
			zap.Strings("question_ids", unknown),
		)
	}

	result := Grade(quiz, attempt, Stamp{
		ID:          s.newID(),
		At:          now,
		CourseTitle: courseTitle,
		Student:     student,
	})

	if err := s.results.Append(ctx, result); err != nil {
		return domain.QuizResult{}, fmt.Errorf("store result: %w", err)
	}

	s.logger.Info("attempt graded",
		zap.String("result_id", result.ID),
		zap.String("quiz_id", result.QuizID),
		zap.String("user_id", result.UserID),
		zap.Int("score", result.Score),
		zap.Int("total_points", result.TotalPoints),
		zap.Bool("passed", result.Passed),
	)

	if s.publisher != nil {
		s.publisher.Publish(result)
	}
	return result, nil
}

// QuizForCourse returns the first quiz of a course with answer keys stripped.
func (s *QuizService) QuizForCourse(ctx context.Context, courseID string) (domain.Quiz, error) {
	quizzes, err := s.quizzes.QuizzesByCourse(ctx, courseID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if len(quizzes) == 0 {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quizzes[0].StudentView(), nil
}

// ListQuizzes returns every quiz definition, answer keys included.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

func (s *QuizService) checkDeadline(quiz domain.Quiz, attempt domain.Attempt, now time.Time) error {
	if attempt.StartedAt.IsZero() || quiz.TimeLimit <= 0 {
		return nil
	}
	deadline := attempt.StartedAt.Add(time.Duration(quiz.TimeLimit)*time.Minute + s.grace)
	if now.After(deadline) {
		return domain.ErrDeadlineExceeded
	}
	return nil
}

func (s *QuizService) courseTitle(ctx context.Context, courseID string) (string, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	switch {
	case err == nil:
		return course.Title, nil
	case errors.Is(err, domain.ErrCourseNotFound):
		return UnknownCourseTitle, nil
	default:
		return "", fmt.Errorf("resolve course %s: %w", courseID, err)
	}
}
