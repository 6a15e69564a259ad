package memory

import (
	"context"
	"sync"

	"lms-grading-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.QuizResult
	ids     map[string]struct{}
}

func NewResultStore() *ResultStore {
	return &ResultStore{ids: make(map[string]struct{})}
}

func (s *ResultStore) Append(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[result.ID]; dup {
		return domain.ErrDuplicateResult
	}
	s.ids[result.ID] = struct{}{}
	s.results = append(s.results, clone(result))
	return nil
}

func (s *ResultStore) ListByUser(_ context.Context, userID string) ([]domain.QuizResult, error) {
	return s.collect(func(r domain.QuizResult) bool { return r.UserID == userID }), nil
}

func (s *ResultStore) ListAll(_ context.Context) ([]domain.QuizResult, error) {
	return s.collect(func(domain.QuizResult) bool { return true }), nil
}

func (s *ResultStore) collect(keep func(domain.QuizResult) bool) []domain.QuizResult {
	s.mu.RLock()
	out := make([]domain.QuizResult, 0, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		if keep(s.results[i]) {
			out = append(out, clone(s.results[i]))
		}
	}
	s.mu.RUnlock()

	domain.SortNewestFirst(out)
	return out
}

// clone keeps callers from mutating stored answers through a shared backing array.
func clone(r domain.QuizResult) domain.QuizResult {
	r.Answers = append([]domain.GradedAnswer(nil), r.Answers...)
	return r
}
