package analytics

import (
	"testing"
	"time"
)

func TestBuildKey(t *testing.T) {
	at := time.Date(2024, time.March, 15, 8, 47, 30, 0, time.UTC)

	got := buildKey("create_event", "success", at, time.Minute)
	want := "cronicle:op:create_event:success:202403150847"
	if got != want {
		t.Fatalf("buildKey = %q, want %q", got, want)
	}
}

func TestTruncateToBucket(t *testing.T) {
	at := time.Date(2024, time.March, 15, 8, 47, 30, 0, time.UTC)

	cases := []struct {
		window time.Duration
		want   string
	}{
		{time.Minute, "202403150847"},
		{5 * time.Minute, "202403150845"},
		{time.Hour, "2024031508"},
		{7 * time.Second, "202403150847"}, // unknown windows fall back to minutes
	}
	for _, tc := range cases {
		if got := truncateToBucket(at, tc.window); got != tc.want {
			t.Errorf("truncateToBucket(window=%v) = %q, want %q", tc.window, got, tc.want)
		}
	}
}

func TestTruncateToBucket_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	at := time.Date(2024, time.March, 15, 10, 47, 0, 0, loc)

	if got := truncateToBucket(at, time.Minute); got != "202403150847" {
		t.Fatalf("truncateToBucket = %q, want UTC bucket", got)
	}
}

func TestWithRetention_RejectsSubWindowValues(t *testing.T) {
	sink := NewRedisSink(nil)
	sink.WithRetention(time.Second)
	if sink.retention != defaultRetention {
		t.Fatalf("retention = %v, want default kept", sink.retention)
	}
	sink.WithRetention(time.Hour)
	if sink.retention != time.Hour {
		t.Fatalf("retention = %v, want 1h", sink.retention)
	}
}
