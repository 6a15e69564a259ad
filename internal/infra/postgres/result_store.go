package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms-grading-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ResultStore persists graded results in the quiz_results table. Each result is one INSERT,
// so it is either fully visible or absent.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results"`

	ID          string            `bun:"id,pk"`
	UserID      string            `bun:"user_id,notnull"`
	QuizID      string            `bun:"quiz_id,notnull"`
	Passed      bool              `bun:"passed,notnull"`
	AttemptedAt time.Time         `bun:"attempted_at,notnull"`
	Data        domain.QuizResult `bun:"data,type:jsonb,notnull"`
}

func (s *ResultStore) Append(ctx context.Context, result domain.QuizResult) error {
	row := resultRow{
		ID:          result.ID,
		UserID:      result.UserID,
		QuizID:      result.QuizID,
		Passed:      result.Passed,
		AttemptedAt: result.AttemptedAt,
		Data:        result,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
			return domain.ErrDuplicateResult
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByUser(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

func (s *ResultStore) ListAll(ctx context.Context) ([]domain.QuizResult, error) {
	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

func (s *ResultStore) list(ctx context.Context, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]domain.QuizResult, error) {
	var rows []resultRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("attempted_at DESC, seq DESC")
	if err := filter(q).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	out := make([]domain.QuizResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Data)
	}
	return out, nil
}
