package qualifier

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

// --- Gateway mock ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) PendingLeads(ctx context.Context) []model.Lead {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Lead)
}

func (m *mockGateway) LeadMessages(ctx context.Context, leadID string, limit int) []model.Message {
	args := m.Called(ctx, leadID, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Message)
}

func (m *mockGateway) QualifyLead(ctx context.Context, leadID string, status model.LeadStatus) bool {
	args := m.Called(ctx, leadID, status)
	return args.Bool(0)
}

// --- Decider mock ---

type mockDecider struct {
	mock.Mock
}

func (m *mockDecider) Decide(ctx context.Context, lead model.Lead, messages []model.Message) (model.LeadStatus, bool) {
	args := m.Called(ctx, lead, messages)
	return args.Get(0).(model.LeadStatus), args.Bool(1)
}

// --- In-memory queue fake ---

// fakeQueue is a slice-backed queue. Dequeue on an empty queue reports a
// timeout immediately, so drain loops terminate without waiting.
type fakeQueue struct {
	entries      []model.QueueEntry
	enqueued     []model.QueueEntry
	dequeueCalls int
}

func (q *fakeQueue) Enqueue(ctx context.Context, entry model.QueueEntry) bool {
	q.entries = append(q.entries, entry)
	q.enqueued = append(q.enqueued, entry)
	return true
}

func (q *fakeQueue) Dequeue(ctx context.Context, timeout time.Duration) (model.QueueEntry, bool) {
	q.dequeueCalls++
	if len(q.entries) == 0 {
		return model.QueueEntry{}, false
	}
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return entry, true
}

func (q *fakeQueue) Len(ctx context.Context) int {
	return len(q.entries)
}

func (q *fakeQueue) Clear(ctx context.Context) bool {
	q.entries = nil
	return true
}

func (q *fakeQueue) Ping(ctx context.Context) error {
	return nil
}
