package app_test

import (
	"testing"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/domain"
)

func TestResultFeedFansOut(t *testing.T) {
	feed := app.NewResultFeed()
	a, cancelA := feed.Subscribe()
	b, cancelB := feed.Subscribe()
	defer cancelB()

	feed.Publish(domain.QuizResult{ID: "r1"})
	if got := <-a; got.ID != "r1" {
		t.Fatalf("subscriber a got %s", got.ID)
	}
	if got := <-b; got.ID != "r1" {
		t.Fatalf("subscriber b got %s", got.ID)
	}

	cancelA()
	cancelA()
	if _, ok := <-a; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	if feed.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", feed.Subscribers())
	}
}

func TestResultFeedDropsOldestForSlowSubscribers(t *testing.T) {
	feed := app.NewResultFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.QuizResult{ID: string(rune('a' + i))})
	}

	first := <-ch
	if first.ID != "e" {
		t.Fatalf("expected oldest retained result e, got %s", first.ID)
	}
	last := first
	for len(ch) > 0 {
		last = <-ch
	}
	if last.ID != "t" {
		t.Fatalf("expected newest result t, got %s", last.ID)
	}
}
