package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/djlord-it/croniclectl/internal/domain"
)

func TestRun_InvalidFilterAborts(t *testing.T) {
	r := New(&fakeClient{})

	err := r.Run(context.Background(), SweepConfig{Interval: time.Millisecond})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	client := &fakeClient{schedule: []domain.Event{{ID: "e1", Title: "stale"}}}
	r := New(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, SweepConfig{Interval: time.Hour, Title: "stale"})
	}()

	// The first cycle runs immediately; give it a moment, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if deleted := client.deletedIDs(); len(deleted) != 1 || deleted[0] != "e1" {
		t.Fatalf("deleted = %v, want the immediate cycle's delete", deleted)
	}
}

func TestRun_RemoteFailureRetriedNextCycle(t *testing.T) {
	client := &fakeClient{scheduleErr: errors.New("refused")}
	sink := &captureMetrics{}
	r := New(client).WithMetrics(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, SweepConfig{Interval: 10 * time.Millisecond, Title: "stale"})
	}()

	// Wait for at least two failing cycles, then stop.
	deadline := time.Now().Add(2 * time.Second)
	for client.listingCalls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("remote failure should not abort the loop: %v", err)
	}
	if client.listingCalls() < 2 {
		t.Fatalf("expected retries, got %d cycles", client.listingCalls())
	}
	if sink.sweepErrs < 2 {
		t.Fatalf("sweep errors = %d", sink.sweepErrs)
	}
}
