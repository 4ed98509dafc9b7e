package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, "lead-qualification")
}

func TestRedisQueue_FIFO(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.True(t, q.Enqueue(ctx, model.QueueEntry{LeadID: "l1", CompanyID: "c1"}))
	require.True(t, q.Enqueue(ctx, model.QueueEntry{LeadID: "l2", CompanyID: "c1"}))
	require.True(t, q.Enqueue(ctx, model.QueueEntry{LeadID: "l3", CompanyID: "c2"}))
	assert.Equal(t, 3, q.Len(ctx))

	var order []string
	for {
		entry, ok := q.Dequeue(ctx, 100*time.Millisecond)
		if !ok {
			break
		}
		order = append(order, entry.LeadID)
	}

	assert.Equal(t, []string{"l1", "l2", "l3"}, order)
	assert.Equal(t, 0, q.Len(ctx))
}

func TestRedisQueue_DequeueTimeout(t *testing.T) {
	q := newTestQueue(t)

	start := time.Now()
	_, ok := q.Dequeue(context.Background(), 100*time.Millisecond)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRedisQueue_Clear(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	q.Enqueue(ctx, model.QueueEntry{LeadID: "l1", CompanyID: "c1"})
	q.Enqueue(ctx, model.QueueEntry{LeadID: "l2", CompanyID: "c1"})

	require.True(t, q.Clear(ctx))
	assert.Equal(t, 0, q.Len(ctx))
}

func TestRedisQueue_EntryRoundTrip(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	q.Enqueue(ctx, model.QueueEntry{LeadID: "l1", CompanyID: "c9"})

	entry, ok := q.Dequeue(ctx, 100*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "l1", entry.LeadID)
	assert.Equal(t, "c9", entry.CompanyID)
}

func TestRedisQueue_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	q := NewRedis(rdb, "lead-qualification")

	assert.NoError(t, q.Ping(context.Background()))

	mr.Close()
	assert.Error(t, q.Ping(context.Background()))
}
