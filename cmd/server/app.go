package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"alcyxob/trainingsplan/internal/activity"
	"alcyxob/trainingsplan/internal/api"
	"alcyxob/trainingsplan/internal/config"
	"alcyxob/trainingsplan/internal/logging"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/repository/mongo"
	"alcyxob/trainingsplan/internal/repository/sqlite"
	"alcyxob/trainingsplan/internal/service"
	"alcyxob/trainingsplan/internal/storage"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *repository.Store
	registry *prometheus.Registry // Nil when metrics are disabled
	metrics  *observability.Metrics
	services api.Services
	closers  []func()
}

func newApp(ctx context.Context) (*app, error) {
	// --- Configuration ---
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	a := &app{cfg: cfg, logger: logger}

	// --- Database Connection ---
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
	} else {
		logger.Info("object storage disabled, documents are not archived")
	}

	// --- Metrics ---
	if cfg.Telemetry.Metrics {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = observability.NewMetrics(a.registry)
	}

	// --- Initialize Services ---
	scheduling := service.Scheduling{
		MaxTrainingWeeks: cfg.Scheduling.MaxTrainingWeeks,
		Location:         cfg.Scheduling.Location(),
	}
	weeks := service.NewWeekResolver(a.store.Weeks, a.metrics)
	trainings := service.NewTrainingService(a.store, a.metrics, logger)
	a.services = api.Services{
		Competitions:       service.NewCompetitionService(a.store, fileStorage, scheduling, a.metrics, logger),
		Plans:              service.NewPlanService(a.store, weeks, fileStorage, scheduling, a.metrics, logger),
		Trainings:          trainings,
		MixedDay:           service.NewMixedDayService(a.store, nil, a.metrics, logger),
		CompletedTrainings: service.NewCompletedTrainingService(a.store, activity.NewFITDecoder(), trainings, fileStorage, scheduling, a.metrics, logger),
		Completion:         service.NewCompletionService(a.store.Trainings, a.store.CompletedTrainings, scheduling),
		Descriptions:       service.NewDescriptionService(a.store.Descriptions),
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.OpenDB(a.cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("could not open SQLite database: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := db.Close(); err != nil {
				a.logger.Error("failed to close SQLite database", "error", err)
			}
		})
		a.store = sqlite.NewStore(db)
		a.logger.Info("database ready", "driver", config.DriverSQLite, "path", a.cfg.Database.SQLitePath)
		return nil

	default:
		client, err := mongo.ConnectDB(a.cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() {
			a.logger.Info("disconnecting MongoDB")
			if err := mongo.DisconnectDB(client); err != nil {
				a.logger.Error("failed to disconnect MongoDB", "error", err)
			}
		})
		db := client.Database(a.cfg.Database.Name)

		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			return fmt.Errorf("ensuring indexes: %w", err)
		}
		a.store = mongo.NewStore(db)
		a.logger.Info("database ready", "driver", config.DriverMongo, "name", a.cfg.Database.Name)
		return nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
