package app

import (
	"context"
	"errors"
	"fmt"

	"lms-grading-service/internal/domain"
)

// ResultAggregator derives student history and admin analytics from stored results.
type ResultAggregator struct {
	results ResultStore
	courses CourseCatalog
	users   UserDirectory
}

// NewResultAggregator wires the aggregator. users may be nil when every stored result carries
// its own student snapshot.
func NewResultAggregator(results ResultStore, courses CourseCatalog, users UserDirectory) *ResultAggregator {
	return &ResultAggregator{results: results, courses: courses, users: users}
}

// StudentHistory returns one student's results, newest first.
func (a *ResultAggregator) StudentHistory(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	return a.results.ListByUser(ctx, userID)
}

// AdminSummary counts courses, distinct students and attempts.
func (a *ResultAggregator) AdminSummary(ctx context.Context) (domain.AdminSummary, error) {
	courses, err := a.courses.CountCourses(ctx)
	if err != nil {
		return domain.AdminSummary{}, fmt.Errorf("count courses: %w", err)
	}
	results, err := a.results.ListAll(ctx)
	if err != nil {
		return domain.AdminSummary{}, fmt.Errorf("list results: %w", err)
	}
	return Summarize(courses, results), nil
}

// Summarize computes the dashboard counters for a set of results.
func Summarize(courses int, results []domain.QuizResult) domain.AdminSummary {
	students := make(map[string]struct{})
	passed := 0
	for _, r := range results {
		students[r.UserID] = struct{}{}
		if r.Passed {
			passed++
		}
	}
	return domain.AdminSummary{
		Courses:        courses,
		Students:       len(students),
		QuizAttempts:   len(results),
		PassedAttempts: passed,
		PassRate:       Percentage(passed, len(results)),
	}
}

// AllStudentResults lists every result labelled with the submitting student.
func (a *ResultAggregator) AllStudentResults(ctx context.Context) ([]domain.StudentResult, error) {
	results, err := a.results.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	lookups := make(map[string]domain.User)
	out := make([]domain.StudentResult, 0, len(results))
	for _, r := range results {
		row, err := a.label(ctx, lookups, r)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// StudentResultOf labels a single result the same way AllStudentResults does.
func (a *ResultAggregator) StudentResultOf(ctx context.Context, r domain.QuizResult) (domain.StudentResult, error) {
	return a.label(ctx, make(map[string]domain.User), r)
}

func (a *ResultAggregator) label(ctx context.Context, lookups map[string]domain.User, r domain.QuizResult) (domain.StudentResult, error) {
	name, email := r.StudentName, r.StudentEmail
	if name == "" && email == "" {
		user, err := a.lookup(ctx, lookups, r.UserID)
		if err != nil {
			return domain.StudentResult{}, err
		}
		name, email = user.Name, user.Email
	}
	return ToStudentResult(r, name, email), nil
}

// ToStudentResult projects a result into the admin row shape.
func ToStudentResult(r domain.QuizResult, name, email string) domain.StudentResult {
	return domain.StudentResult{
		ID:           r.ID,
		StudentID:    r.UserID,
		StudentName:  name,
		StudentEmail: email,
		QuizID:       r.QuizID,
		QuizTitle:    r.QuizTitle,
		CourseTitle:  r.CourseTitle,
		Score:        r.Score,
		TotalPoints:  r.TotalPoints,
		Percentage:   r.Percentage,
		Passed:       r.Passed,
		AttemptedAt:  r.AttemptedAt,
	}
}

// lookup resolves legacy results that predate the student snapshot.
func (a *ResultAggregator) lookup(ctx context.Context, cache map[string]domain.User, userID string) (domain.User, error) {
	if user, ok := cache[userID]; ok {
		return user, nil
	}
	if a.users == nil {
		return domain.User{ID: userID}, nil
	}
	user, err := a.users.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = domain.User{ID: userID}, nil
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve user %s: %w", userID, err)
	}
	cache[userID] = user
	return user, nil
}
