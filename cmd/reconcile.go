package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"kbli-registry/core/config"
	"kbli-registry/core/logger"
	"kbli-registry/feature/classification"
	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	portalFile     string
	regulationFile string
	outDir         string
	publishExports bool
	archivePass    bool
	jsonReport     bool
)

// reconcileCmd runs one reconciliation pass outside the server.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the portal and regulation catalogs",
	Long: `Runs one reconciliation pass over the configured portal and regulation batches
and prints the partition summary, conflicts and rejected rows.

Examples:
  # Reconcile the configured sources
  reconcile

  # Reconcile local files and write the exports to ./out
  reconcile --portal portal.csv --regulation lampiran.csv --out ./out

  # Reconcile, archive the snapshot and publish the exports to the bucket
  reconcile --archive --publish`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&portalFile, "portal", "", "Portal batch file (overrides sources.portal_path)")
	reconcileCmd.Flags().StringVar(&regulationFile, "regulation", "", "Regulation batch file (overrides sources.regulation_path)")
	reconcileCmd.Flags().StringVar(&outDir, "out", "", "Directory to write unified.json, surplus.csv and deficit.csv to")
	reconcileCmd.Flags().BoolVar(&publishExports, "publish", false, "Upload the exports to the storage bucket")
	reconcileCmd.Flags().BoolVar(&archivePass, "archive", false, "Save the snapshot to the archive database")
	reconcileCmd.Flags().BoolVar(&jsonReport, "json", false, "Print the pass report as JSON")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Local files given on the command line replace the configured sources.
	if portalFile != "" || regulationFile != "" {
		cfg.Sources.Origin = source.OriginFile
		if portalFile != "" {
			cfg.Sources.PortalPath = portalFile
		}
		if regulationFile != "" {
			cfg.Sources.RegulationPath = regulationFile
		}
	}

	rt, err := newRuntime(ctx, cfg, l, runtimeOptions{database: archivePass, events: publishExports})
	if err != nil {
		return err
	}
	defer rt.Close()

	l.Info("Starting reconciliation",
		zap.String("portal", cfg.Sources.PortalPath),
		zap.String("regulation", cfg.Sources.RegulationPath),
		zap.String("origin", cfg.Sources.Origin))

	report, err := rt.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if outDir != "" {
		if err := writeExports(rt.service, outDir); err != nil {
			return err
		}
		l.Info("Exports written", zap.String("dir", outDir))
	}

	if publishExports {
		published, err := rt.service.PublishExports(ctx)
		if err != nil {
			return fmt.Errorf("failed to publish exports: %w", err)
		}
		report.Published = published
	}

	if jsonReport {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printPassReport(rt.service, report)
	return nil
}

func writeExports(svc *classification.Service, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	unified, err := svc.ExportUnified()
	if err != nil {
		return err
	}
	files := map[string][]byte{"unified.json": unified}

	for name, p := range map[string]reconcile.Partition{
		"surplus.csv": reconcile.PartitionSurplus,
		"deficit.csv": reconcile.PartitionDeficit,
	} {
		r, err := svc.Report(p)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := r.WriteCSV(&buf); err != nil {
			return err
		}
		files[name] = buf.Bytes()
	}

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// printPassReport prints a coloured summary of a pass.
func printPassReport(svc *classification.Service, report *classification.PassReport) {
	s := report.Summary

	colorCyan.Printf("\n=== Reconciliation %s ===\n", report.SnapshotID)
	colorWhite.Printf("Portal codes:     %d\n", s.PortalTotal)
	colorWhite.Printf("Regulation codes: %d\n", s.RegulationTotal)
	colorWhite.Printf("Total codes:      %d\n", s.TotalCodes)
	colorGreen.Printf("Matched:          %d\n", s.Matched)
	colorYellow.Printf("Surplus:          %d\n", s.Surplus)
	colorYellow.Printf("Deficit:          %d\n", s.Deficit)
	if s.Conflicts > 0 {
		colorRed.Printf("Conflicts:        %d\n", s.Conflicts)
	} else {
		colorGreen.Printf("Conflicts:        %d\n", s.Conflicts)
	}

	fmt.Println()
	for _, rc := range s.RiskLevels {
		colorWhite.Printf("  %-13s %d\n", rc.RiskLevel, rc.Count)
	}

	if conflicts, err := svc.Conflicts(); err == nil && len(conflicts) > 0 {
		colorCyan.Println("\nSource conflicts (max 10):")
		for i, c := range conflicts {
			if i == 10 {
				colorWhite.Printf("  ... %d more\n", len(conflicts)-10)
				break
			}
			for _, field := range sortedConflictFields(c.SourceConflicts) {
				fc := c.SourceConflicts[field]
				colorWhite.Printf("  %s %-28s portal=%q regulation=%q\n", c.Code, field, fc.Portal, fc.Regulation)
			}
		}
	}

	if n := len(report.ParseErrors); n > 0 {
		colorRed.Printf("\nRejected rows: %d\n", n)
		for i, pe := range report.ParseErrors {
			if i == 5 {
				break
			}
			colorWhite.Printf("  %s\n", pe.Error())
		}
	}
	if n := len(report.Anomalies); n > 0 {
		colorYellow.Printf("\nNormalization anomalies: %d\n", n)
		for i, a := range report.Anomalies {
			if i == 5 {
				break
			}
			colorWhite.Printf("  %s\n", a.Error())
		}
	}
	if report.Archived {
		colorGreen.Println("\nSnapshot archived")
	}
	for _, name := range report.Published {
		colorGreen.Printf("Published %s\n", name)
	}
}

func sortedConflictFields(conflicts map[string]models.FieldConflict) []string {
	fields := make([]string, 0, len(conflicts))
	for f := range conflicts {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
