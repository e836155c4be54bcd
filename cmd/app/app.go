package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"contentHub/internal/ads"
	"contentHub/internal/analytics"
	"contentHub/internal/config"
	"contentHub/internal/consent"
	"contentHub/internal/content"
	"contentHub/internal/database"
	handlers "contentHub/internal/handler"
	"contentHub/internal/metrics"
	"contentHub/internal/repository"
	"contentHub/internal/service"
	"contentHub/internal/session"
	"contentHub/internal/sitemap"
	"contentHub/internal/storage"
)

type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Sessions *session.Registry
	Events   *analytics.AsyncEmitter
	Handlers *handlers.Handlers
	Metrics  *prometheus.Registry
	Recorder metrics.Recorder

	log zerolog.Logger
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	renderer := content.NewRenderer()
	services := service.NewService(repo, cfg, minioClient, renderer, log)

	sessions := session.NewRegistry(services.Auth, services.Profile, cfg.Auth.SessionIdleTTL, session.Options{
		AdminResolveTimeout: cfg.Auth.AdminResolveTimeout,
		Logger:              log,
		Metrics:             recorder,
	})

	events := analytics.NewAsyncEmitter(repo.Analytics, cfg.Analytics.EventBuffer, recorder, log)

	h := handlers.NewHandlers(repo, services, cfg, handlers.Deps{
		Ads:     ads.NewResolver(repo.Ad, log),
		Tracker: ads.NewTracker(ads.MetricsSink{Recorder: recorder, Log: log}, log),
		Consent: consent.NewGate(repo.Analytics, renderer, log, consent.WithMetrics(recorder)),
		Events:  events,
		Sitemap: sitemap.NewBuilder(cfg.SiteURL, repo.Post, repo.Tool, repo.Category),
		Health:  db.HealthCheck,
		Log:     log,
	})

	return &App{
		Cfg:      cfg,
		DB:       db,
		Repo:     repo,
		Services: services,
		Sessions: sessions,
		Events:   events,
		Handlers: h,
		Metrics:  registry,
		Recorder: recorder,
		log:      log,
	}, nil
}

// Run evicts idle browser sessions until ctx ends.
func (a *App) Run(ctx context.Context) {
	a.Sessions.Run(ctx, time.Minute)
}

// Close drains queued analytics before the database goes away.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if err := a.Events.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("очередь аналитики: %w", err))
	}
	a.Sessions.Close()

	if err := a.DB.CloseDB(); err != nil {
		errs = append(errs, fmt.Errorf("закрытие БД: %w", err))
	}

	return errors.Join(errs...)
}
