package domain

import (
	"errors"
	"testing"
	"time"
)

func TestQuizValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Quiz)
		ok     bool
	}{
		{"valid", func(*Quiz) {}, true},
		{"no questions", func(q *Quiz) { q.Questions = nil }, true},
		{"missing id", func(q *Quiz) { q.ID = "" }, false},
		{"missing course", func(q *Quiz) { q.CourseID = "" }, false},
		{"passing score above 100", func(q *Quiz) { q.PassingScore = 101 }, false},
		{"negative passing score", func(q *Quiz) { q.PassingScore = -1 }, false},
		{"duplicate question", func(q *Quiz) { q.Questions[1].ID = q.Questions[0].ID }, false},
		{"zero points", func(q *Quiz) { q.Questions[0].Points = 0 }, false},
		{"duplicate option", func(q *Quiz) { q.Questions[0].Options[1].ID = "a" }, false},
		{"empty option id", func(q *Quiz) {
			q.Questions[0].Options[0].ID = ""
			q.Questions[0].CorrectOptionID = ""
		}, false},
		{"answer key not an option", func(q *Quiz) { q.Questions[0].CorrectOptionID = "z" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := validQuiz()
			tc.mutate(&quiz)
			err := quiz.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidQuiz) {
				t.Fatalf("expected ErrInvalidQuiz, got %v", err)
			}
		})
	}
}

func TestStudentViewLeavesQuizIntact(t *testing.T) {
	quiz := validQuiz()
	view := quiz.StudentView()
	for _, q := range view.Questions {
		if q.CorrectOptionID != "" {
			t.Fatalf("answer key kept for %s", q.ID)
		}
	}
	if quiz.Questions[0].CorrectOptionID != "a" {
		t.Fatalf("original quiz mutated")
	}
	if view.TotalPoints() != quiz.TotalPoints() || quiz.TotalPoints() != 15 {
		t.Fatalf("unexpected totals %d %d", view.TotalPoints(), quiz.TotalPoints())
	}
}

func TestSortNewestFirstKeepsInsertionOrderOnTies(t *testing.T) {
	base := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	// Reverse insertion order: r4 was appended last.
	results := []QuizResult{
		{ID: "r4", AttemptedAt: base},
		{ID: "r3", AttemptedAt: base.Add(time.Hour)},
		{ID: "r2", AttemptedAt: base.Add(-time.Hour)},
		{ID: "r1", AttemptedAt: base},
	}
	SortNewestFirst(results)

	want := []string{"r3", "r4", "r1", "r2"}
	for i, r := range results {
		if r.ID != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, r.ID, want[i])
		}
	}
}

func validQuiz() Quiz {
	return Quiz{
		ID:           "quiz-1",
		CourseID:     "course-1",
		PassingScore: 70,
		Questions: []Question{
			{ID: "q-1", Points: 10, CorrectOptionID: "a", Options: []Option{{ID: "a"}, {ID: "b"}}},
			{ID: "q-2", Points: 5, CorrectOptionID: "d", Options: []Option{{ID: "c"}, {ID: "d"}}},
		},
	}
}
