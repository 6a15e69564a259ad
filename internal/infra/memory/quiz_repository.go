package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuizRepository caches quizzes and courses with TTL to avoid repeated loader hits.
// Listings and counts always go to the loader.
type QuizRepository struct {
	loader app.CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu      sync.RWMutex
	quizzes map[string]cached[domain.Quiz]
	courses map[string]cached[domain.Course]
}

type cached[T any] struct {
	value     T
	expiresAt time.Time
}

func NewQuizRepository(loader app.CatalogLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader:  loader,
		ttl:     ttl,
		clock:   time.Now,
		quizzes: make(map[string]cached[domain.Quiz]),
		courses: make(map[string]cached[domain.Course]),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return cachedLoad(r, r.quizzes, "quiz:"+quizID, quizID, func() (domain.Quiz, error) {
		return r.loader.LoadQuiz(ctx, quizID)
	})
}

func (r *QuizRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	return cachedLoad(r, r.courses, "course:"+courseID, courseID, func() (domain.Course, error) {
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

// cachedLoad serves id from cache, collapsing concurrent misses into one loader call.
// Loader errors are not cached.
func cachedLoad[T any](r *QuizRepository, cache map[string]cached[T], flightKey, id string, load func() (T, error)) (T, error) {
	if v, ok := lookup(r, cache, id); ok {
		return v, nil
	}

	result, err, _ := r.sf.Do(flightKey, func() (interface{}, error) {
		if v, ok := lookup(r, cache, id); ok {
			return v, nil
		}

		v, err := load()
		if err != nil {
			return v, err
		}

		r.mu.Lock()
		cache[id] = cached[T]{value: v, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func lookup[T any](r *QuizRepository, cache map[string]cached[T], id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := cache[id]
	if ok && entry.expiresAt.After(r.clock()) {
		return entry.value, true
	}
	var zero T
	return zero, false
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
