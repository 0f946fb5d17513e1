package pipeline

import (
	"context"

	"webhaak/internal/model"
	"webhaak/internal/queue"
)

// Pipeline executes one dequeued job to completion.
type Pipeline interface {
	// Execute runs the job and returns its result plus the terminal queue
	// status (finished or failed).
	Execute(ctx context.Context, job queue.Job) (model.Result, string)
}

// GitClient synchronizes local repository checkouts.
type GitClient interface {
	// Update clones or fetches the repository into repoDir and checks out
	// the branch, returning a short description of what happened.
	Update(ctx context.Context, repoURL, repoDir, branch string) (string, error)
	// Describe returns a human-readable version for the checkout, empty
	// when none can be determined.
	Describe(ctx context.Context, repoDir string) string
}

// CommandRunner executes one rendered shell command.
type CommandRunner interface {
	// Run executes the command in dir and returns its output streams and
	// exit code. A non-nil error means the command could not be started.
	Run(ctx context.Context, command, dir string) (stdout, stderr string, exitCode int, err error)
}
