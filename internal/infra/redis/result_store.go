package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"lms-grading-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultStore keeps graded results in Redis.
// Notes:
//   - Each record lives under result:{id}, written with SETNX so IDs never collide.
//   - Listing indexes (results:all, results:user:{userID}) are Redis lists pushed inside one
//     MULTI/EXEC, so a record becomes visible to readers in a single step.
//   - Records are never expired or rewritten.
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) Append(ctx context.Context, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	created, err := s.client.SetNX(ctx, recordKey(result.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if !created {
		return domain.ErrDuplicateResult
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, allKey, result.ID)
		pipe.LPush(ctx, userKey(result.UserID), result.ID)
		return nil
	})
	if err != nil {
		// The record is unreachable without its index entries; drop it so the ID can be retried.
		_ = s.client.Del(context.Background(), recordKey(result.ID)).Err()
		return fmt.Errorf("index result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByUser(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	return s.list(ctx, userKey(userID))
}

func (s *ResultStore) ListAll(ctx context.Context) ([]domain.QuizResult, error) {
	return s.list(ctx, allKey)
}

// list reads an index (most recent push first) and resolves its records.
func (s *ResultStore) list(ctx context.Context, index string) ([]domain.QuizResult, error) {
	ids, err := s.client.LRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", index, err)
	}
	results := make([]domain.QuizResult, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r domain.QuizResult
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", ids[i], err)
		}
		results = append(results, r)
	}

	domain.SortNewestFirst(results)
	return results, nil
}

const allKey = "results:all"

func recordKey(id string) string {
	return "result:" + id
}

func userKey(userID string) string {
	return "results:user:" + userID
}
