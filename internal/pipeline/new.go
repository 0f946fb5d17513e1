package pipeline

import (
	"webhaak/internal/joblog"
	"webhaak/internal/notify"
	"webhaak/pkg/gitclient"
	"webhaak/pkg/log"
)

type implPipeline struct {
	l         log.Logger
	git       GitClient
	runner    CommandRunner
	notifier  notify.Notifier
	jobLogs   *joblog.Store
	locks     *lockArena
	cacheRoot string
}

// New builds the pipeline with the default git client and shell runner.
// cacheRoot is the parent directory for repository checkouts without an
// explicit repo_parent.
func New(l log.Logger, notifier notify.Notifier, jobLogs *joblog.Store, cacheRoot string) Pipeline {
	return NewWithClients(l, gitclient.New(), shellRunner{}, notifier, jobLogs, cacheRoot)
}

// NewWithClients wires explicit git and command implementations, for tests.
func NewWithClients(l log.Logger, git GitClient, runner CommandRunner, notifier notify.Notifier, jobLogs *joblog.Store, cacheRoot string) Pipeline {
	return &implPipeline{
		l:         l,
		git:       git,
		runner:    runner,
		notifier:  notifier,
		jobLogs:   jobLogs,
		locks:     newLockArena(),
		cacheRoot: cacheRoot,
	}
}
