package circuitbreaker

import (
	"testing"
	"time"
)

func TestAllow_UnknownOp_Allowed(t *testing.T) {
	cb := New(3, 5*time.Second)
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestAllow_BelowThreshold_Allowed(t *testing.T) {
	cb := New(3, 5*time.Second)
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestAllow_AtThreshold_Open(t *testing.T) {
	cb := New(3, 5*time.Second)
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	if err := cb.Allow("create_event"); err == nil {
		t.Fatal("expected ErrCircuitOpen, got nil")
	}
}

func TestAllow_OpsAreIndependent(t *testing.T) {
	cb := New(1, 5*time.Second)
	cb.RecordFailure("delete_event")
	if err := cb.Allow("delete_event"); err == nil {
		t.Fatal("expected delete_event circuit open")
	}
	if err := cb.Allow("get_schedule"); err != nil {
		t.Fatalf("get_schedule should be unaffected, got %v", err)
	}
}

func TestAllow_OpenAfterCooldown_HalfOpen(t *testing.T) {
	cb := New(3, 10*time.Millisecond)
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	time.Sleep(15 * time.Millisecond)
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("expected nil (probe allowed), got %v", err)
	}
	if err := cb.Allow("create_event"); err == nil {
		t.Fatal("expected ErrCircuitOpen while half-open probe in flight")
	}
}

func TestRecordSuccess_ClosesCircuit(t *testing.T) {
	cb := New(2, 10*time.Millisecond)
	cb.RecordFailure("create_event")
	cb.RecordFailure("create_event")
	time.Sleep(15 * time.Millisecond)
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("expected probe allowed, got %v", err)
	}
	cb.RecordSuccess("create_event")
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("expected closed circuit, got %v", err)
	}
	// The failure counter must reset too.
	cb.RecordFailure("create_event")
	if err := cb.Allow("create_event"); err != nil {
		t.Fatalf("single failure after reset should not open, got %v", err)
	}
}
