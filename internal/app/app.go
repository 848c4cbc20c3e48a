// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/garyellow/casmate/internal/bot"
	"github.com/garyellow/casmate/internal/buildinfo"
	"github.com/garyellow/casmate/internal/config"
	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/logger"
	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/ratelimit"
	"github.com/garyellow/casmate/internal/sentry"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	engines   *engine.Holder
	sessions  *bot.SessionStore
	limiter   *ratelimit.ClientLimiter // nil when chat rate limiting is off
	processor *bot.Processor
	router    *gin.Engine
	server    *http.Server
}

// Initialize creates the application and performs the first catalog load.
// A failed first load is logged and reported; the server still starts and
// answers /ready with 503 until a reload succeeds.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log = log.WithField("service", "casmate")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}
	// Package-level slog calls pick up request and session IDs from the context.
	slog.SetDefault(log.Logger)

	log.WithField("build", buildinfo.String()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("host", cfg.SentryHost).Info("Error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	src := cfg.Source()
	engines := engine.NewHolder(src, cfg.EngineOptions(), log, m)
	loadCtx, cancel := context.WithTimeout(ctx, config.CatalogLoad)
	if _, err := engines.Reload(loadCtx); err != nil {
		sentry.CaptureCatalogError(ctx, src.Name(), err)
		log.WithError(err).Warn("Starting without a catalog; POST /admin/reload or send SIGHUP once the data is fixed")
	}
	cancel()

	sessions := bot.NewSessionStore(bot.SessionConfig{
		TTL:           cfg.SessionTTL,
		CleanupPeriod: cfg.SessionCleanupInterval,
		Metrics:       m,
	})
	processor := bot.NewProcessor(bot.ProcessorConfig{
		Engines:          engines,
		Sessions:         sessions,
		Logger:           log.WithModule("bot"),
		Metrics:          m,
		FinanceOfficeURL: cfg.FinanceOfficeURL,
	})

	app := &Application{
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		registry:  registry,
		engines:   engines,
		sessions:  sessions,
		processor: processor,
		limiter:   newChatLimiter(cfg, m),
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.router = app.newRouter()
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until SIGINT or SIGTERM. SIGHUP reloads the catalog.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

	for {
		select {
		case err := <-errCh:
			a.logger.WithError(err).Error("HTTP server error")
			_ = a.shutdown()
			return err
		case sig := <-sigs:
			if sig == syscall.SIGHUP {
				a.reloadFromSignal()
				continue
			}
			a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
			return a.shutdown()
		}
	}
}

func (a *Application) reloadFromSignal() {
	a.logger.Info("Reloading catalog on SIGHUP")
	ctx, cancel := context.WithTimeout(context.Background(), config.CatalogLoad)
	defer cancel()
	if _, err := a.engines.Reload(ctx); err != nil {
		sentry.CaptureCatalogError(ctx, a.cfg.Source().Name(), err)
	}
}

// shutdown stops accepting requests, waits for in-flight ones, then stops
// the session sweeper and flushes error reports.
func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	a.logger.Info("Stopping HTTP server...")
	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.sessions.Stop()
	if a.limiter != nil {
		a.limiter.Stop()
	}
	sentry.Flush(2 * time.Second)

	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Shutdown complete")
	return err
}
