package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizRepository caches quiz and course documents in Redis and falls back to a loader on cache miss.
// Quizzes are stored as: SET quiz:{quizID} {json}
// Courses are stored as: SET course:{courseID} {json}
// Cache failures are logged and served from the loader.
type QuizRepository struct {
	client *redis.Client
	loader app.CatalogLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group
}

func NewQuizRepository(client *redis.Client, loader app.CatalogLoader, ttl time.Duration, logger *zap.Logger) *QuizRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return cachedJSON(ctx, r, quizKey(quizID), func() (domain.Quiz, error) {
		return r.loader.LoadQuiz(ctx, quizID)
	})
}

func (r *QuizRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	return cachedJSON(ctx, r, courseKey(courseID), func() (domain.Course, error) {
		return r.loader.LoadCourse(ctx, courseID)
	})
}

func (r *QuizRepository) QuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error) {
	return r.loader.LoadQuizzesByCourse(ctx, courseID)
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return r.loader.LoadQuizzes(ctx)
}

func (r *QuizRepository) CountCourses(ctx context.Context) (int, error) {
	return r.loader.CountCourses(ctx)
}

// Invalidate drops the cached copy of a quiz so the next read reloads it.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, quizKey(quizID)).Err()
}

// InvalidateCourse drops the cached copy of a course.
func (r *QuizRepository) InvalidateCourse(ctx context.Context, courseID string) error {
	return r.client.Del(ctx, courseKey(courseID)).Err()
}

func cachedJSON[T any](ctx context.Context, r *QuizRepository, key string, load func() (T, error)) (T, error) {
	if v, ok := fromCache[T](ctx, r, key); ok {
		return v, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := fromCache[T](ctx, r, key); ok {
			return v, nil
		}

		v, err := load()
		if err != nil {
			return v, err
		}

		data, err := json.Marshal(v)
		if err == nil {
			err = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		if err != nil {
			r.logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func fromCache[T any](ctx context.Context, r *QuizRepository, key string) (T, bool) {
	var v T
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}

func quizKey(quizID string) string {
	return "quiz:" + quizID
}

func courseKey(courseID string) string {
	return "course:" + courseID
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
