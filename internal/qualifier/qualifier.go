// Package qualifier drives the qualification cycle:
// fetch pending leads, feed the work queue, drain it, classify each lead's
// conversation, and write status changes back through the gateway.
package qualifier

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/gateway"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/queue"
)

const (
	defaultMessageLimit   = 20
	defaultDequeueTimeout = 2 * time.Second
)

// Decider is the classifier contract the orchestrator depends on.
type Decider interface {
	Decide(ctx context.Context, lead model.Lead, messages []model.Message) (model.LeadStatus, bool)
}

// Outcome describes what processing one lead produced.
type Outcome int

const (
	// OutcomeSkipped means the lead had no messages; the classifier was not
	// invoked.
	OutcomeSkipped Outcome = iota
	// OutcomeKept means the classifier kept the current status.
	OutcomeKept
	// OutcomeUpdated means the backend accepted a status change.
	OutcomeUpdated
	// OutcomeRejected means the backend declined the status change.
	OutcomeRejected
)

// Option configures the qualifier.
type Option func(*Qualifier)

// WithMessageLimit sets the page size for message fetches.
func WithMessageLimit(n int) Option {
	return func(q *Qualifier) {
		q.messageLimit = n
	}
}

// WithDequeueTimeout sets the per-pop blocking timeout used while draining.
func WithDequeueTimeout(d time.Duration) Option {
	return func(q *Qualifier) {
		q.dequeueTimeout = d
	}
}

// Qualifier orchestrates one qualification cycle at a time.
type Qualifier struct {
	gw             gateway.Client
	queue          queue.Queue
	decider        Decider
	messageLimit   int
	dequeueTimeout time.Duration
}

// New creates a Qualifier.
func New(gw gateway.Client, q queue.Queue, d Decider, opts ...Option) *Qualifier {
	qf := &Qualifier{
		gw:             gw,
		queue:          q,
		decider:        d,
		messageLimit:   defaultMessageLimit,
		dequeueTimeout: defaultDequeueTimeout,
	}
	for _, o := range opts {
		o(qf)
	}
	return qf
}

// RunCycle executes one complete fetch→enqueue→drain→classify→write-back
// cycle. A single lead's failure is counted and never aborts the cycle; a
// canceled context abandons the remainder of the drain, leaving undequeued
// entries for the next cycle.
func (qf *Qualifier) RunCycle(ctx context.Context) model.CycleStats {
	stats := model.CycleStats{}
	log := zap.L()

	log.Info("qualifier: starting cycle")

	leads := qf.gw.PendingLeads(ctx)
	stats.TotalLeads = len(leads)
	if len(leads) == 0 {
		log.Info("qualifier: no pending leads to process")
		return stats
	}

	// Manually-qualified leads are never enqueued, regardless of status.
	byID := make(map[string]model.Lead, len(leads))
	for _, lead := range leads {
		byID[lead.ID] = lead
		if lead.ManuallyQualified {
			continue
		}
		qf.queue.Enqueue(ctx, model.QueueEntry{LeadID: lead.ID, CompanyID: lead.CompanyID})
	}

	// Drain until a pop times out: the empty-queue terminal condition for
	// this cycle, not a shutdown.
	for {
		if ctx.Err() != nil {
			log.Warn("qualifier: cycle abandoned", zap.Error(ctx.Err()))
			break
		}

		entry, ok := qf.queue.Dequeue(ctx, qf.dequeueTimeout)
		if !ok {
			break
		}
		if entry.LeadID == "" {
			continue
		}

		lead, found := byID[entry.LeadID]
		if !found {
			// The pending set changed between fetch and drain. Skip, don't
			// error; the next cycle re-discovers the lead.
			stats.Skipped++
			log.Warn("qualifier: dequeued lead missing from batch",
				zap.String("lead_id", entry.LeadID),
			)
			continue
		}

		outcome, err := qf.ProcessLead(ctx, lead)
		if err != nil {
			stats.Errors++
			log.Error("qualifier: lead processing failed",
				zap.String("lead_id", lead.ID),
				zap.Error(err),
			)
			continue
		}

		switch outcome {
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeUpdated:
			stats.Processed++
			stats.Updated++
		default:
			stats.Processed++
		}
	}

	log.Info("qualifier: cycle completed",
		zap.Int("total_leads", stats.TotalLeads),
		zap.Int("processed", stats.Processed),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats
}

// ProcessLead runs the fetch-messages→classify→write path for one lead.
func (qf *Qualifier) ProcessLead(ctx context.Context, lead model.Lead) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeSkipped, eris.Wrap(err, "qualifier: process lead")
	}

	log := zap.L().With(zap.String("lead_id", lead.ID))
	log.Debug("qualifier: processing lead", zap.String("name", lead.Name))

	messages := qf.gw.LeadMessages(ctx, lead.ID, qf.messageLimit)
	if len(messages) == 0 {
		log.Debug("qualifier: no messages, skipping")
		return OutcomeSkipped, nil
	}

	status, changed := qf.decider.Decide(ctx, lead, messages)
	if !changed {
		log.Debug("qualifier: no status change needed")
		return OutcomeKept, nil
	}

	if !qf.gw.QualifyLead(ctx, lead.ID, status) {
		return OutcomeRejected, nil
	}

	log.Info("qualifier: lead updated",
		zap.String("from", string(lead.Status)),
		zap.String("to", string(status)),
	)
	return OutcomeUpdated, nil
}

// ProcessSingleLead reprocesses one lead by id outside the scheduled cycle,
// using the same fetch→classify→write path minus the queue.
func (qf *Qualifier) ProcessSingleLead(ctx context.Context, leadID string) (Outcome, error) {
	for _, lead := range qf.gw.PendingLeads(ctx) {
		if lead.ID == leadID {
			return qf.ProcessLead(ctx, lead)
		}
	}
	return OutcomeSkipped, eris.Errorf("qualifier: lead %s not found in pending set", leadID)
}
