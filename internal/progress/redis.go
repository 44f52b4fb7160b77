package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists progress records as JSON values in Redis. A zero TTL
// keeps records forever; a positive TTL lets stale progress expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	data, err := s.client.Get(ctx, Key(userID, quizSetID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load progress from redis: %w", err)
	}

	var record models.ProgressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("failed to parse progress record: %w", err)
	}
	return &record, true, nil
}

func (s *RedisStore) Save(ctx context.Context, record *models.ProgressRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress record: %w", err)
	}
	key := Key(record.UserID, record.QuizSetID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save progress to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID, quizSetID string) error {
	if err := s.client.Del(ctx, Key(userID, quizSetID)).Err(); err != nil {
		return fmt.Errorf("failed to delete progress from redis: %w", err)
	}
	return nil
}
