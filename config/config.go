package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Webhaak specifics
	Hooks    HooksConfig
	Redis    RedisConfig
	Pushover PushoverConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
	// ServerURL is the externally visible base URL used in trigger
	// listings and job status links. Always carries a trailing slash.
	ServerURL string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// HooksConfig configures trigger resolution and pipeline execution.
type HooksConfig struct {
	// SecretKey gates the /admin endpoints.
	SecretKey string
	// ProjectsFile is the declarative YAML file with all projects and triggers.
	ProjectsFile string
	// ReposCacheDir is the parent directory repositories are cloned into,
	// unless a trigger overrides it with repo_parent.
	ReposCacheDir string
	// LogDir is the base directory for service logs.
	LogDir string
	// JobsLogDir holds the per-job log files; defaults to <log_dir>/jobs.
	JobsLogDir string
	// EventLogDir is where raw payloads and headers are archived for debugging.
	EventLogDir string
	// RateLimitPerMin is the max trigger fires per minute per app_key.
	RateLimitPerMin int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PushoverConfig is the process-wide Pushover identity used when a trigger
// has no Telegram configuration of its own.
type PushoverConfig struct {
	UserKey  string
	AppToken string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/webhaak/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/webhaak/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.ServerURL = viper.GetString("http_server.server_url")
	if serverURL := viper.GetString("server_url"); serverURL != "" {
		cfg.HTTPServer.ServerURL = serverURL
	}
	if cfg.HTTPServer.ServerURL == "" {
		cfg.HTTPServer.ServerURL = fmt.Sprintf("http://localhost:%d/", cfg.HTTPServer.Port)
	}
	if !strings.HasSuffix(cfg.HTTPServer.ServerURL, "/") {
		cfg.HTTPServer.ServerURL += "/"
	}
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Webhaak specifics
	cfg.Hooks.SecretKey = viper.GetString("hooks.secret_key")
	if secretKey := viper.GetString("secretkey"); secretKey != "" {
		cfg.Hooks.SecretKey = secretKey
	}
	cfg.Hooks.ProjectsFile = viper.GetString("hooks.projects_file")
	if projectsFile := viper.GetString("projects_file"); projectsFile != "" {
		cfg.Hooks.ProjectsFile = projectsFile
	}
	cfg.Hooks.ReposCacheDir = viper.GetString("hooks.repos_cache_dir")
	if cacheDir := viper.GetString("repos_cache_dir"); cacheDir != "" {
		cfg.Hooks.ReposCacheDir = cacheDir
	}
	cfg.Hooks.LogDir = viper.GetString("hooks.log_dir")
	if logDir := viper.GetString("log_dir"); logDir != "" {
		cfg.Hooks.LogDir = logDir
	}
	cfg.Hooks.JobsLogDir = viper.GetString("hooks.jobs_log_dir")
	if cfg.Hooks.JobsLogDir == "" {
		// jobs_log_dir is a subdirectory of log_dir
		cfg.Hooks.JobsLogDir = filepath.Join(cfg.Hooks.LogDir, "jobs")
	}
	cfg.Hooks.EventLogDir = viper.GetString("hooks.eventlog_dir")
	if eventLogDir := viper.GetString("eventlog_dir"); eventLogDir != "" {
		cfg.Hooks.EventLogDir = eventLogDir
	}
	cfg.Hooks.RateLimitPerMin = viper.GetInt("hooks.rate_limit_per_min")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	if redisAddr := viper.GetString("redis_addr"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}

	cfg.Pushover.UserKey = viper.GetString("pushover.user_key")
	cfg.Pushover.AppToken = viper.GetString("pushover.app_token")
	if userKey := viper.GetString("pushover_userkey"); userKey != "" {
		cfg.Pushover.UserKey = userKey
	}
	if appToken := viper.GetString("pushover_apptoken"); appToken != "" {
		cfg.Pushover.AppToken = appToken
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Hooks.SecretKey == "" {
		return fmt.Errorf("hooks.secret_key is required")
	}
	if cfg.Hooks.ProjectsFile == "" {
		return fmt.Errorf("hooks.projects_file is required")
	}
	if cfg.Hooks.ReposCacheDir == "" {
		return fmt.Errorf("hooks.repos_cache_dir is required")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("hooks.log_dir", "./logs")
	viper.SetDefault("hooks.eventlog_dir", "./logs/events")
	viper.SetDefault("hooks.rate_limit_per_min", 60)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
}
