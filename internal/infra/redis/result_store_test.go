package redis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"lms-grading-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestResultStoreAppendAndList(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewResultStore(newClient(mr))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := sampleResult("r1", "u1", base)
	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = store.Append(ctx, sampleResult("r2", "u2", base.Add(time.Minute)))
	_ = store.Append(ctx, sampleResult("r3", "u1", base.Add(2*time.Minute)))

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if got := resultIDs(all); !reflect.DeepEqual(got, []string{"r3", "r2", "r1"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if !reflect.DeepEqual(all[2], first) {
		t.Fatalf("stored record differs:\n got %+v\nwant %+v", all[2], first)
	}

	mine, err := store.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if got := resultIDs(mine); !reflect.DeepEqual(got, []string{"r3", "r1"}) {
		t.Fatalf("unexpected user results: %v", got)
	}

	none, err := store.ListByUser(ctx, "nobody")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty history, got %v %v", none, err)
	}
}

func TestResultStoreRejectsDuplicateIDs(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewResultStore(newClient(mr))
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.Append(ctx, sampleResult("r1", "u1", at)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, sampleResult("r1", "u2", at)); !errors.Is(err, domain.ErrDuplicateResult) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	all, _ := store.ListAll(ctx)
	if len(all) != 1 || all[0].UserID != "u1" {
		t.Fatalf("duplicate must leave the store untouched, got %+v", all)
	}
	if other, _ := store.ListByUser(ctx, "u2"); len(other) != 0 {
		t.Fatalf("duplicate must not be indexed for u2")
	}
}

func sampleResult(id, userID string, at time.Time) domain.QuizResult {
	return domain.QuizResult{
		ID:           id,
		QuizID:       "quiz-1",
		QuizTitle:    "HTML Fundamentals Quiz",
		CourseID:     "course-1",
		CourseTitle:  "Introduction to Web Development",
		UserID:       userID,
		StudentName:  "John Student",
		StudentEmail: "student@example.com",
		Score:        10,
		TotalPoints:  10,
		Percentage:   100,
		Passed:       true,
		AttemptedAt:  at,
		Answers: []domain.GradedAnswer{
			{QuestionID: "q1", SelectedOptionID: "o1", CorrectOptionID: "o1", IsCorrect: true},
		},
	}
}

func resultIDs(results []domain.QuizResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}
