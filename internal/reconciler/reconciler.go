// Package reconciler performs bulk find-then-delete against the remote
// schedule.
//
// The scheduler has no delete-by-title primitive, so matching events are
// found by listing the full schedule and filtering locally, then deleted
// one by one. Each invocation works from a single listing snapshot; no
// local cache of remote state is kept, which keeps the operation correct
// under concurrent external modification at the cost of one listing call
// per batch.
package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/djlord-it/croniclectl/internal/cronicle"
	"github.com/djlord-it/croniclectl/internal/domain"
	"github.com/djlord-it/croniclectl/internal/events"
)

// Client defines the remote operations the reconciler needs.
type Client interface {
	GetSchedule(ctx context.Context) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// MetricsSink records bulk-operation metrics. All methods must be
// non-blocking and fire-and-forget.
type MetricsSink interface {
	BulkDeleteCompleted(targeted, failed int)
	SweepCompleted(duration time.Duration, err error)
}

// Entry records the outcome for one targeted event. Err is nil on
// success; failed deletes are captured here, never propagated, so no
// entity is silently dropped from the batch.
type Entry struct {
	Event domain.Event
	Err   error
}

// Outcome is the per-event result sequence of a bulk operation, in the
// order the listing returned the events.
type Outcome []Entry

// Failed returns the number of entries that captured an error.
func (o Outcome) Failed() int {
	n := 0
	for _, entry := range o {
		if entry.Err != nil {
			n++
		}
	}
	return n
}

type Reconciler struct {
	client  Client
	metrics MetricsSink // optional, nil = disabled
}

func New(client Client) *Reconciler {
	return &Reconciler{client: client}
}

// WithMetrics attaches a metrics sink to the reconciler.
func (r *Reconciler) WithMetrics(sink MetricsSink) *Reconciler {
	r.metrics = sink
	return r
}

// DeleteMatching removes every scheduled event whose title or id matches
// (logical OR). The filter is mandatory and checked before any remote
// call: a missing argument can never degrade into a full purge. An empty
// match set yields an empty outcome and no error.
func (r *Reconciler) DeleteMatching(ctx context.Context, title, id string) (Outcome, error) {
	if title == "" && id == "" {
		return nil, domain.ValidationError{Field: "filter", Message: "title or id required"}
	}

	rows, err := r.client.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}

	var targets []domain.Event
	for _, event := range rows {
		if events.Matches(event, title, id) {
			targets = append(targets, event)
		}
	}
	return r.deleteEach(ctx, targets), nil
}

// DeleteAll removes every event on the schedule. Destructive and
// unguarded; callers must treat it as intentionally irreversible.
func (r *Reconciler) DeleteAll(ctx context.Context) (Outcome, error) {
	rows, err := r.client.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}
	return r.deleteEach(ctx, rows), nil
}

// deleteEach issues one delete per target, sequentially in listing
// order, continuing past individual failures. Deletes are always by id;
// the remote delete endpoint does not accept titles.
func (r *Reconciler) deleteEach(ctx context.Context, targets []domain.Event) Outcome {
	outcome := make(Outcome, 0, len(targets))
	failed := 0

	for _, event := range targets {
		var err error
		// Once the context is gone, record the remaining targets as
		// transport failures instead of hammering a dead connection.
		// Every target still gets its outcome entry.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = &cronicle.TransportError{Op: cronicle.OpDeleteEvent, Err: ctxErr}
		} else {
			err = r.client.DeleteEvent(ctx, event.ID)
		}

		if err != nil {
			failed++
			log.Printf("reconciler: delete failed event=%s title=%q: %v", event.ID, event.Title, err)
		}
		outcome = append(outcome, Entry{Event: event, Err: err})
	}

	if len(targets) > 0 {
		log.Printf("reconciler: deleted %d/%d events", len(targets)-failed, len(targets))
	}
	if r.metrics != nil {
		r.metrics.BulkDeleteCompleted(len(targets), failed)
	}
	return outcome
}
