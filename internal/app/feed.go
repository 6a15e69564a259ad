package app

import (
	"sync"

	"lms-grading-service/internal/domain"
)

// ResultFeed fans freshly stored results out to live subscribers (admin dashboards).
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.QuizResult]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[chan domain.QuizResult]struct{})}
}

// Publish delivers the result to every subscriber without blocking the submitter.
func (f *ResultFeed) Publish(result domain.QuizResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			// Subscriber is behind: drop its oldest pending result to make room.
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

// Subscribe returns a channel of new results.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.QuizResult, func()) {
	ch := make(chan domain.QuizResult, 16)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports how many listeners are attached.
func (f *ResultFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
