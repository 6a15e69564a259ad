package http

import (
	"context"
	"sync"
	"time"

	"lms-grading-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeAdminFeed upgrades to a websocket that streams newly graded results to admins.
// The client receives a "summary" on connect, then a "result" and a fresh "summary" per submission.
func (h *Handler) ServeAdminFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	summary, err := h.results.AdminSummary(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "summary unavailable"}})
		return
	}

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches the connection for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case result, ok := <-updates:
				if !ok {
					return
				}
				msgs := h.memo.get(result.ID, func() []outboundMessage[any] { return h.feedMessages(ctx, result) })
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "summary", Payload: summary}

	// The feed is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}:
		default:
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// feedMessages labels a new result and pairs it with the updated summary.
// The messages are shared by every connection, so they outlive the one that builds them.
func (h *Handler) feedMessages(ctx context.Context, result domain.QuizResult) []outboundMessage[any] {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	row, err := h.results.StudentResultOf(ctx, result)
	if err != nil {
		h.logger.Warn("label result for feed", zap.String("result_id", result.ID), zap.Error(err))
		return nil
	}
	msgs := []outboundMessage[any]{{Type: "result", Payload: row}}

	summary, err := h.results.AdminSummary(ctx)
	if err != nil {
		h.logger.Warn("refresh summary for feed", zap.Error(err))
		return msgs
	}
	return append(msgs, outboundMessage[any]{Type: "summary", Payload: summary})
}

// Subscribers lag by at most the feed buffer, so the memo only needs a few more entries than that.
const feedMemoSize = 64

// feedMemo builds the messages for each published result once and shares them across connections.
type feedMemo struct {
	mu      sync.Mutex
	entries map[string]*feedEntry
	order   []string
}

type feedEntry struct {
	once sync.Once
	msgs []outboundMessage[any]
}

func (m *feedMemo) get(resultID string, build func() []outboundMessage[any]) []outboundMessage[any] {
	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[string]*feedEntry, feedMemoSize)
	}
	e, ok := m.entries[resultID]
	if !ok {
		e = &feedEntry{}
		m.entries[resultID] = e
		m.order = append(m.order, resultID)
		if len(m.order) > feedMemoSize {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
	}
	m.mu.Unlock()

	e.once.Do(func() { e.msgs = build() })
	return e.msgs
}
