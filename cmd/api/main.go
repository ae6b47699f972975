// Package main is the entrypoint for the SimpleMicroservices users and todos API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/cache"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/config"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/handler"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/metrics"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/middleware"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/server"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/service"
	"github.com/Ry3n-Huang/SimpleMicroservices/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Redis is optional; without it the API runs unthrottled.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	recordStore := store.New()
	metricsRecorder := metrics.NewInMemory()

	deps := dependencies{
		cfg:     cfg,
		logger:  logger,
		store:   recordStore,
		metrics: metricsRecorder,
	}
	if cacheClient != nil {
		deps.cache = cacheClient
		if cfg.RateLimitActive() {
			deps.limiter = cacheClient
		}
	}

	srv := server.New(newRouter(deps), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"redis", cacheClient != nil,
		"rate_limit", deps.limiter != nil,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// dependencies carries what the router needs.
// cache and limiter stay nil interfaces when Redis is not configured.
type dependencies struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	metrics *metrics.InMemoryRecorder
	cache   handler.HealthChecker
	limiter middleware.IPRateLimiter
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(deps dependencies) http.Handler {
	cfg := deps.cfg
	logger := deps.logger

	userService := service.NewUserService(deps.store, deps.metrics)
	todoService := service.NewTodoService(deps.store, deps.metrics)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(deps.store, deps.cache)
	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.store)
	userHandler := handler.NewUserHandler(userService, logger, cfg.DefaultPageLimit)
	todoHandler := handler.NewTodoHandler(todoService, logger, cfg.DefaultPageLimit)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))

	// Operational endpoints are never throttled.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: deps.limiter,
			Limit:   cache.Limit{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		}))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Delete("/{id}", userHandler.Delete)
			r.Get("/{id}/todos", todoHandler.ListByUser)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", todoHandler.Create)
			r.Get("/", todoHandler.List)
			r.Get("/{id}", todoHandler.Get)
			r.Patch("/{id}", todoHandler.Update)
			r.Delete("/{id}", todoHandler.Delete)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces every secret in err's message with its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
