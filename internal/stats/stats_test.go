package stats

import (
	"testing"
	"time"
)

func TestSnapshotPercentiles(t *testing.T) {
	stats := New(time.Hour)
	for i := 1; i <= 5; i++ {
		stats.Record(time.Duration(i*100)*time.Millisecond, i, i == 5)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Words != 15 {
		t.Fatalf("expected words=15, got %d", snap.Words)
	}
	if snap.CacheHits != 1 {
		t.Fatalf("expected cache_hits=1, got %d", snap.CacheHits)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %f", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %f", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestPrunesExpiredSamples(t *testing.T) {
	now := time.Now()
	stats := New(time.Minute)
	stats.now = func() time.Time { return now }
	stats.Record(100*time.Millisecond, 10, false)

	now = now.Add(2 * time.Minute)
	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Millisecond, 3, false)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 || snap.Words != 3 {
		t.Fatalf("expected min=max=200 words=3, got %+v", snap)
	}
}

func TestRecordClampsNegativeDuration(t *testing.T) {
	stats := New(time.Hour)
	stats.Record(-10*time.Millisecond, 0, false)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestEmptySnapshot(t *testing.T) {
	if snap := New(0).Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
