package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Worker processes count jobs one document at a time.
type Worker struct {
	counter *Counter
	log     *slog.Logger
}

func NewWorker(c *Counter, log *slog.Logger) *Worker {
	return &Worker{counter: c, log: log}
}

// Process counts every document of job, updating its progress as it goes.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	start := time.Now()

	docs := job.Documents()
	job.SetStatus(StatusCounting, "counting")

	failed := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			log.Warn("job cancelled", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed, "cancelled")
			return
		}
		res := w.counter.Count(ctx, doc, job.Options)
		if res.Error != "" {
			failed++
		}
		job.AddResult(res)
	}
	job.releaseDocuments()

	switch {
	case len(docs) > 0 && failed == len(docs):
		job.SetStatus(StatusFailed, "done")
	case failed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}

	snap := job.Snapshot()
	log.Info("job finished",
		"status", snap.Status,
		"files", snap.Progress.FilesCounted,
		"words", snap.Progress.Words,
		"failed", failed,
		"duration", time.Since(start).String(),
	)
}
