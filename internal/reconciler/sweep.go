package reconciler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/djlord-it/croniclectl/internal/domain"
)

// SweepConfig drives the periodic sweep loop.
type SweepConfig struct {
	// Interval is how often the sweep runs. Default: 5 minutes.
	Interval time.Duration

	// Title/ID form the delete filter; at least one must be set.
	Title string
	ID    string
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{Interval: 5 * time.Minute}
}

// Run repeatedly deletes matching events until ctx is cancelled. It runs
// once immediately, then on every tick. Remote failures are logged and
// retried on the next cycle; an invalid filter aborts the loop.
func (r *Reconciler) Run(ctx context.Context, cfg SweepConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepConfig().Interval
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Printf("reconciler: sweep started (interval=%s, title=%q, id=%q)", cfg.Interval, cfg.Title, cfg.ID)

	if err := r.sweepCycle(ctx, cfg); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("reconciler: sweep stopped")
			return nil
		case <-ticker.C:
			if err := r.sweepCycle(ctx, cfg); err != nil {
				return err
			}
		}
	}
}

func (r *Reconciler) sweepCycle(ctx context.Context, cfg SweepConfig) error {
	start := time.Now()
	outcome, err := r.DeleteMatching(ctx, cfg.Title, cfg.ID)
	duration := time.Since(start)

	if r.metrics != nil {
		r.metrics.SweepCompleted(duration, err)
	}

	if err != nil {
		// A bad filter can never succeed on retry; everything else is a
		// remote condition the next cycle may clear.
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		log.Printf("reconciler: sweep cycle failed: %v", err)
		return nil
	}

	if len(outcome) > 0 {
		log.Printf("reconciler: sweep cycle complete, deleted=%d failed=%d",
			len(outcome)-outcome.Failed(), outcome.Failed())
	}
	return nil
}
