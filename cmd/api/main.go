package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"webhaak/config"
	"webhaak/internal/httpserver"
	"webhaak/internal/joblog"
	"webhaak/internal/notify"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/internal/webhook"
	"webhaak/pkg/log"
	"webhaak/pkg/pushover"
)

// @title       webhaak API
// @description Webhook service that runs update scripts and relays notifications.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting webhaak API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Projects file: %s", cfg.Hooks.ProjectsFile)

	// 3. Trigger registry
	registry, err := trigger.Load(cfg.Hooks.ProjectsFile)
	if err != nil {
		logger.Error(ctx, "Failed to load projects file: ", err)
		return
	}

	// 4. Job queue on Redis
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

	// 5. Webhook receiver
	jobLogs := joblog.New(cfg.Hooks.JobsLogDir)
	notifier := notify.New(logger, pushover.New(cfg.Pushover.UserKey, cfg.Pushover.AppToken))
	security := webhook.NewSecurityValidator(webhook.SecurityConfig{
		SecretKey:       cfg.Hooks.SecretKey,
		RateLimitPerMin: cfg.Hooks.RateLimitPerMin,
	})

	var archiver *webhook.Archiver
	if cfg.Hooks.EventLogDir != "" {
		archiver = webhook.NewArchiver(cfg.Hooks.EventLogDir)
	}

	webhookHandler := webhook.NewHandler(webhook.Config{
		Logger:    logger,
		Registry:  registry,
		Queue:     jobQueue,
		JobLogs:   jobLogs,
		Archiver:  archiver,
		Notifier:  notifier,
		Security:  security,
		ServerURL: cfg.HTTPServer.ServerURL,
	})

	// 6. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		ServerURL:      cfg.HTTPServer.ServerURL,
		Registry:       registry,
		Queue:          jobQueue,
		JobLogs:        jobLogs,
		WebhookHandler: webhookHandler,
		Security:       security,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
