package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"webhaak/config"
	"webhaak/internal/joblog"
	"webhaak/internal/notify"
	"webhaak/internal/pipeline"
	"webhaak/internal/queue"
	"webhaak/pkg/log"
	"webhaak/pkg/pushover"
)

// jobTimeout caps one pipeline run, clone and command included.
const jobTimeout = 10 * time.Minute

// main is the entry point for the background worker service. It pops jobs
// from the Redis queue and runs them through the pipeline until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting webhaak worker...")
	logger.Infof(ctx, "Repos cache dir: %s", cfg.Hooks.ReposCacheDir)

	jobQueue := queue.NewRedis(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := jobQueue.Ping(ctx); err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	logger.Infof(ctx, "Connected to Redis at %s", cfg.Redis.Addr)

	jobLogs := joblog.New(cfg.Hooks.JobsLogDir)
	notifier := notify.New(logger, pushover.New(cfg.Pushover.UserKey, cfg.Pushover.AppToken))
	pipe := pipeline.New(logger, notifier, jobLogs, cfg.Hooks.ReposCacheDir)

	run(ctx, logger, jobQueue, pipe)
	logger.Info(ctx, "Worker stopped gracefully")
}

// run is the worker loop: dequeue, execute, store the result.
func run(ctx context.Context, logger log.Logger, jobQueue queue.Queue, pipe pipeline.Pipeline) {
	for {
		job, err := jobQueue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			logger.Errorf(ctx, "Failed to dequeue job: %v", err)
			time.Sleep(time.Second)
			continue
		}

		logger.Infof(ctx, "Picked up %s job %s for %s>%s", job.Kind, job.ID, job.Project, job.TriggerTitle)
		if err := jobQueue.SetStatus(ctx, job.ID, queue.StatusStarted); err != nil {
			logger.Warnf(ctx, "Failed to mark job %s started: %v", job.ID, err)
		}

		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		result, status := pipe.Execute(jobCtx, job)
		cancel()

		if err := jobQueue.SetResult(ctx, job.ID, status, result); err != nil {
			logger.Errorf(ctx, "Failed to store result for job %s: %v", job.ID, err)
		}
		logger.Infof(ctx, "Job %s %s in %.2fs", job.ID, status, result.Runtime.Seconds())
	}
}
