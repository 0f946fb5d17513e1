package httpserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"webhaak/internal/joblog"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/internal/webhook"
	"webhaak/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// serverURL is the externally visible base URL, with trailing slash.
	serverURL string

	registry       *trigger.Registry
	queue          queue.Queue
	jobLogs        *joblog.Store
	webhookHandler *webhook.Handler
	security       *webhook.SecurityValidator
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string
	ServerURL   string

	Registry       *trigger.Registry
	Queue          queue.Queue
	JobLogs        *joblog.Store
	WebhookHandler *webhook.Handler
	Security       *webhook.SecurityValidator
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		serverURL:      cfg.ServerURL,
		registry:       cfg.Registry,
		queue:          cfg.Queue,
		jobLogs:        cfg.JobLogs,
		webhookHandler: cfg.WebhookHandler,
		security:       cfg.Security,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.registry == nil {
		return errors.New("trigger registry is required")
	}
	if srv.queue == nil {
		return errors.New("queue is required")
	}
	if srv.webhookHandler == nil {
		return errors.New("webhook handler is required")
	}
	return nil
}

// Run serves until the listener fails.
func (srv *HTTPServer) Run() error {
	return srv.gin.Run(fmt.Sprintf(":%d", srv.port))
}

// Engine exposes the router, for tests.
func (srv *HTTPServer) Engine() *gin.Engine {
	return srv.gin
}
