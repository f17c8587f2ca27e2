package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/mdcount/internal/config"
	"github.com/dgallion1/mdcount/internal/counter"
)

func testConfig(workers, queue int) config.Config {
	return config.Config{WorkerCount: workers, MaxQueueSize: queue, JobTTL: time.Hour}
}

func waitForJob(t *testing.T, o *Orchestrator, id string) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := o.GetJob(id).Snapshot()
		switch snap.Status {
		case StatusCompleted, StatusPartial, StatusFailed:
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return JobSnapshot{}
}

func TestOrchestrator_RunsJobs(t *testing.T) {
	c, _ := newTestCounter(t, 16)
	o := NewOrchestrator(testConfig(2, 8), c, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	ok := NewJob([]Document{
		{Name: "a.md", Data: []byte("# Heading\n\nThree more words.")},
		{Name: "b.txt", Data: []byte("plain text")},
	}, counter.Default)
	mixed := NewJob([]Document{
		{Name: "c.md", Data: []byte("fine")},
		{Name: "d.bin", Data: []byte("nope")},
	}, counter.Default)
	bad := NewJob([]Document{{Name: "e.bin", Data: []byte("nope")}}, counter.Default)

	for _, job := range []*Job{ok, mixed, bad} {
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit %s: %v", job.ID, err)
		}
	}

	snap := waitForJob(t, o, ok.ID)
	if snap.Status != StatusCompleted || snap.Progress.Words != 6 || snap.Progress.FilesCounted != 2 {
		t.Errorf("expected completed job with 6 words, got %+v", snap)
	}
	if snap := waitForJob(t, o, mixed.ID); snap.Status != StatusPartial || snap.Progress.Words != 1 {
		t.Errorf("expected partial job with 1 word, got %+v", snap)
	}
	if snap := waitForJob(t, o, bad.ID); snap.Status != StatusFailed {
		t.Errorf("expected failed job, got %+v", snap)
	}
	if ok.Documents() != nil {
		t.Error("expected inputs released after counting")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	c, _ := newTestCounter(t, 0)
	// Workers never start, so the queue fills.
	o := NewOrchestrator(testConfig(1, 1), c, slog.New(slog.DiscardHandler))
	defer o.Stop()

	if err := o.Submit(NewJob(nil, counter.Default)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob(nil, counter.Default)
	if err := o.Submit(second); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if snap := o.GetJob(second.ID).Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected failed queue_full job, got %+v", snap)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	c, _ := newTestCounter(t, 0)
	o := NewOrchestrator(testConfig(1, 1), c, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	if err := o.Submit(NewJob(nil, counter.Default)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	c, _ := newTestCounter(t, 0)
	// Workers never start, so both jobs stay queued until Stop.
	o := NewOrchestrator(testConfig(1, 2), c, slog.New(slog.DiscardHandler))
	first := NewJob([]Document{{Name: "a.md", Data: []byte("one")}}, counter.Default)
	second := NewJob(nil, counter.Default)
	for _, job := range []*Job{first, second} {
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	o.Stop()

	for _, job := range []*Job{first, second} {
		snap := o.GetJob(job.ID).Snapshot()
		if snap.Status != StatusFailed || snap.Phase != "stopped" {
			t.Errorf("expected failed stopped job, got %+v", snap)
		}
	}
	if first.Documents() != nil {
		t.Error("expected inputs released for a dropped job")
	}
	if o.QueueDepth() != 0 {
		t.Errorf("expected an empty queue, got %d", o.QueueDepth())
	}
}
