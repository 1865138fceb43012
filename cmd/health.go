package cmd

import (
	"context"
	"fmt"
	"os"

	"kbli-registry/core/config"
	"kbli-registry/core/logger"
	"kbli-registry/feature/health"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	healthJSON bool
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the registry's storage, archive and snapshot",
	Long:  `Restores the last archived snapshot and checks the bucket layout and the archive schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth(cmd.Context(), true, true)
	},
}

// storageHealthCmd represents the health storage command
var storageHealthCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the source and export prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth(cmd.Context(), true, false)
	},
}

// databaseHealthCmd represents the health database command
var databaseHealthCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the snapshot archive schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealth(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(healthCmd)
	healthCmd.AddCommand(storageHealthCmd, databaseHealthCmd)

	storageHealthCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing export folders")
	healthCmd.PersistentFlags().BoolVar(&healthJSON, "json", false, "Print the report as JSON")
}

func runHealth(ctx context.Context, checkStorage, checkDatabase bool) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	rt, err := newRuntime(ctx, cfg, logg, runtimeOptions{database: checkDatabase})
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.service.Restore(ctx); err != nil {
		logg.Warn("Failed to restore archived snapshot", zap.Error(err))
	}

	svc := health.NewService(rt.client, cfg.Storage.Bucket, cfg.Sources, cfg.Registry.ExportPrefix,
		rt.db, rt.service.Current, logg)

	if !checkDatabase {
		return runStorageHealth(ctx, svc, logg)
	}
	if !checkStorage {
		status := svc.CheckDatabase()
		if healthJSON {
			return printJSON(status)
		}
		printDatabaseStatus(status)
		return nil
	}

	report := svc.Check(ctx)
	if healthJSON {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printHealthReport(report)
	}
	if report.Status == health.StatusError {
		os.Exit(1)
	}
	return nil
}

func runStorageHealth(ctx context.Context, svc *health.Service, logg *zap.Logger) error {
	status := svc.CheckStorage(ctx)
	if healthJSON {
		return printJSON(status)
	}
	printStorageStatus(status)

	if status.Status == health.StatusDisabled || status.Error != "" || len(status.Missing) == 0 {
		return nil
	}

	missing, err := svc.CheckExports(ctx)
	if err != nil {
		return fmt.Errorf("export check failed: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}
	if !fixFlag {
		logg.Info("Run with --fix to create missing export folders.")
		return nil
	}

	logg.Info("Fixing missing export folders...")
	if err := svc.FixExports(ctx, missing); err != nil {
		return fmt.Errorf("failed to fix export folders: %w", err)
	}
	logg.Info("Export folders fixed successfully.")
	return nil
}

func statusColor(status string) func(format string, a ...interface{}) (int, error) {
	switch status {
	case health.StatusOK:
		return colorGreen.Printf
	case health.StatusError:
		return colorRed.Printf
	default:
		return colorYellow.Printf
	}
}

func printHealthReport(r health.Report) {
	colorCyan.Println("\n=== Registry Health ===")
	statusColor(r.Status)("Status:   %s\n", r.Status)

	if r.Snapshot.Present {
		colorGreen.Printf("Snapshot: %s (%d codes, %s)\n", r.Snapshot.ID, r.Snapshot.TotalCodes,
			r.Snapshot.CreatedAt.Format("2006-01-02 15:04:05"))
	} else {
		colorRed.Println("Snapshot: none")
	}

	printStorageStatus(r.Storage)
	printDatabaseStatus(r.Database)
}

func printStorageStatus(s health.StorageStatus) {
	statusColor(s.Status)("Storage:  %s\n", s.Status)
	if s.Error != "" {
		colorWhite.Printf("  %s\n", s.Error)
	}
	for _, m := range s.Missing {
		colorWhite.Printf("  missing %s\n", m)
	}
}

func printDatabaseStatus(d health.DatabaseStatus) {
	statusColor(d.Status)("Database: %s\n", d.Status)
	if d.Error != "" {
		colorWhite.Printf("  %s\n", d.Error)
	}
	if d.Table != nil {
		for _, col := range d.Table.MissingColumns {
			colorWhite.Printf("  %s missing column %s\n", d.Table.Table, col)
		}
	}
}
