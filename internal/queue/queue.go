// Package queue decouples lead discovery from lead processing.
//
// The queue is a FIFO distribution list with at-least-once delivery: a crash
// between dequeue and processing loses nothing from the system of record, it
// only skips the lead for the current cycle. Multiple orchestrator workers may
// share one queue; the pop is atomic so the same entry is never handed out
// twice.
package queue

import (
	"context"
	"time"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

// Queue is the work queue contract used by the orchestrator. All operations
// are fail-open: failures are logged and reported as false/none so callers
// handle the empty case instead of an error.
type Queue interface {
	// Enqueue appends an entry to the tail of the queue.
	Enqueue(ctx context.Context, entry model.QueueEntry) bool

	// Dequeue pops the head entry, blocking up to timeout. The second return
	// is false when the queue stayed empty for the full timeout or the pop
	// failed.
	Dequeue(ctx context.Context, timeout time.Duration) (model.QueueEntry, bool)

	// Len returns the current queue depth, or 0 on failure.
	Len(ctx context.Context) int

	// Clear deletes every queued entry.
	Clear(ctx context.Context) bool

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error
}
