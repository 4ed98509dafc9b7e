package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

// RedisQueue backs the work queue with a single Redis list: RPUSH to the
// tail, BLPOP from the head. One fixed key per deployment.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedis creates a queue over an existing Redis client.
func NewRedis(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, entry model.QueueEntry) bool {
	payload, err := json.Marshal(entry)
	if err != nil {
		zap.L().Error("queue: marshal entry", zap.Error(err))
		return false
	}

	if err := q.rdb.RPush(ctx, q.key, payload).Err(); err != nil {
		zap.L().Error("queue: enqueue failed",
			zap.String("lead_id", entry.LeadID),
			zap.Error(err),
		)
		return false
	}

	zap.L().Debug("queue: enqueued lead", zap.String("lead_id", entry.LeadID))
	return true
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (model.QueueEntry, bool) {
	vals, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Error("queue: dequeue failed", zap.Error(err))
		}
		return model.QueueEntry{}, false
	}

	// BLPOP returns [key, value].
	if len(vals) < 2 {
		return model.QueueEntry{}, false
	}

	var entry model.QueueEntry
	if err := json.Unmarshal([]byte(vals[1]), &entry); err != nil {
		zap.L().Error("queue: unmarshal entry", zap.Error(err))
		return model.QueueEntry{}, false
	}
	return entry, true
}

func (q *RedisQueue) Len(ctx context.Context) int {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		zap.L().Error("queue: length check failed", zap.Error(err))
		return 0
	}
	return int(n)
}

func (q *RedisQueue) Clear(ctx context.Context) bool {
	if err := q.rdb.Del(ctx, q.key).Err(); err != nil {
		zap.L().Error("queue: clear failed", zap.Error(err))
		return false
	}
	zap.L().Info("queue: cleared", zap.String("key", q.key))
	return true
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	if err := q.rdb.Ping(ctx).Err(); err != nil {
		return eris.Wrap(err, "queue: ping redis")
	}
	return nil
}
