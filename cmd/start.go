package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kbli-registry/core/config"
	"kbli-registry/core/loader"
	"kbli-registry/core/logger"
	"kbli-registry/core/middleware/auth"
	"kbli-registry/core/middleware/rayid"

	"kbli-registry/feature/classification"
	"kbli-registry/feature/health"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "kbli-registry/docs/swagger"
)

// @title KBLI Registry API
// @version 1.0
// @description Reconciled KBLI classification registry with provenance, conflicts and surplus/deficit reports.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the registry server",
	Long:  `Starts the HTTP server, restores the last archived snapshot and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 3. Wire storage, archive, events and metrics around the registry
		rt, err := newRuntime(ctx, cfg, logg, runtimeOptions{database: true, events: true, metrics: true})
		if err != nil {
			logg.Fatal("Failed to initialize registry", zap.Error(err))
		}
		defer rt.Close()
		svc := rt.service

		// 4. Serve the last archived snapshot until the first pass completes
		if restored, err := svc.Restore(ctx); err != nil {
			logg.Warn("Failed to restore archived snapshot", zap.Error(err))
		} else if !restored {
			logg.Info("No archived snapshot to restore")
		}

		if cfg.Registry.RefreshOnStart {
			go func() {
				if _, err := svc.Refresh(ctx); err != nil {
					logg.Error("Initial reconciliation failed", zap.Error(err))
				}
			}()
		}

		go func() {
			if err := svc.Watch(ctx); err != nil {
				logg.Error("Inbox watcher stopped", zap.Error(err))
			}
		}()

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           cfg.Server.ReadTimeout,
		})

		// 6. Initialize Feature Loaders
		public := loader.NewManager()
		public.Register(health.NewFeature(health.NewService(rt.client, cfg.Storage.Bucket, cfg.Sources,
			cfg.Registry.ExportPrefix, rt.db, svc.Current, logg)))

		mgr := loader.NewManager()
		mgr.Register(classification.NewFeature(cfg.Registry, svc))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Public routes: documentation, metrics and health
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", rt.metrics.Handler())
		if err := public.LoadAll(app); err != nil {
			logg.Fatal("Failed to load public features", zap.Error(err))
		}

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
