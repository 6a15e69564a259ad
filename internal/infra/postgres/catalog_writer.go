package postgres

import (
	"context"
	"fmt"
	"time"

	"lms-grading-service/internal/domain"
	"github.com/uptrace/bun"
)

type courseRow struct {
	bun.BaseModel `bun:"table:courses"`

	ID        string        `bun:"id,pk"`
	Data      domain.Course `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time     `bun:"updated_at,notnull"`
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID        string      `bun:"id,pk"`
	CourseID  string      `bun:"course_id,notnull"`
	Data      domain.Quiz `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"`
}

// SeedCatalog upserts courses and quizzes in one transaction. Quizzes must already be valid.
// Stored results keep their own copies of titles and answer keys, so edits here never
// rewrite history.
func SeedCatalog(ctx context.Context, db *bun.DB, courses []domain.Course, quizzes []domain.Quiz) error {
	now := time.Now().UTC()
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, course := range courses {
			row := courseRow{ID: course.ID, Data: course, UpdatedAt: now}
			if _, err := tx.NewInsert().Model(&row).
				On("CONFLICT (id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert course %s: %w", course.ID, err)
			}
		}
		for _, quiz := range quizzes {
			row := quizRow{ID: quiz.ID, CourseID: quiz.CourseID, Data: quiz, UpdatedAt: now}
			if _, err := tx.NewInsert().Model(&row).
				On("CONFLICT (id) DO UPDATE").
				Set("course_id = EXCLUDED.course_id").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert quiz %s: %w", quiz.ID, err)
			}
		}
		return nil
	})
}
