package queue

import (
	"context"

	"webhaak/internal/model"
)

// Queue is the job transport between the receiver and the workers, plus the
// job status store the status endpoint polls.
type Queue interface {
	// Enqueue pushes a job onto the named queue and marks it queued.
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks until a job is available or the context is done.
	Dequeue(ctx context.Context) (Job, error)
	// SetStatus transitions a job's lifecycle state.
	SetStatus(ctx context.Context, jobID, status string) error
	// SetResult stores the terminal pipeline result for a job.
	SetResult(ctx context.Context, jobID, status string, result model.Result) error
	// State reads the current state of a job; unknown ids yield
	// State{Status: StatusUnknown}.
	State(ctx context.Context, jobID string) (State, error)
}
