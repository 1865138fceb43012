package cmd

import (
	"context"

	"kbli-registry/core/config"
	"kbli-registry/core/database"
	"kbli-registry/core/events"
	"kbli-registry/core/metrics"
	"kbli-registry/core/storage"
	"kbli-registry/feature/classification"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
	colorWhite  = color.New(color.FgWhite)
)

// runtime bundles the collaborators a command wires around the registry service.
type runtime struct {
	service   *classification.Service
	client    storage.Client
	db        *gorm.DB
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func (r *runtime) Close() {
	r.publisher.Close()
}

type runtimeOptions struct {
	database bool
	events   bool
	metrics  bool
}

// newRuntime builds the registry service from configuration. Storage, the
// database and the event bus are optional: failures are logged and the
// service runs without them.
func newRuntime(ctx context.Context, cfg *config.Config, logg *zap.Logger, opts runtimeOptions) (*runtime, error) {
	rt := &runtime{publisher: events.Noop{}}

	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage client unavailable", zap.Error(err))
	} else {
		rt.client = client
	}

	if opts.database {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			rt.db = conn
			logg.Info("Connected to archive database", zap.String("driver", cfg.Database.Driver))
		}
	}

	if opts.events && cfg.Events.Enabled() {
		if pub, err := events.New(cfg.Events); err != nil {
			logg.Warn("Event bus unavailable", zap.Error(err))
		} else {
			rt.publisher = pub
			logg.Info("Publishing snapshot events", zap.String("subject", cfg.Events.Subject))
		}
	}

	if opts.metrics {
		rt.metrics = metrics.New()
	}

	svc, err := classification.NewService(cfg.Registry, cfg.Sources, classification.Dependencies{
		Client:    rt.client,
		Bucket:    cfg.Storage.Bucket,
		DB:        rt.db,
		Publisher: rt.publisher,
		Metrics:   rt.metrics,
		Logger:    logg,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.service = svc

	if a := svc.Archive(); a != nil {
		if err := a.Migrate(ctx); err != nil {
			logg.Warn("Archive migration failed", zap.Error(err))
		}
	}

	return rt, nil
}
