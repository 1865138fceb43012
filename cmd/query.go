package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"kbli-registry/core/config"
	"kbli-registry/core/logger"
	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/query"

	"github.com/spf13/cobra"
)

var (
	// Flags for the query command
	querySector      string
	queryRisk        string
	queryPMA         string
	queryScale       string
	queryPartition   string
	queryLimit       int
	queryOffset      int
	queryFromArchive bool
	queryJSON        bool
)

// queryCmd filters the registry from the command line.
var queryCmd = &cobra.Command{
	Use:   "query [code]",
	Short: "Query the reconciled registry",
	Long: `Reconciles the configured sources (or restores the last archived snapshot)
and prints the codes matching the filters, or a single code when one is given.

Examples:
  # All high risk codes of sector 64
  query --sector 64 --risk High

  # Codes listed only by the portal
  query --partition surplus

  # One code from the archived snapshot, as JSON
  query 55110 --from-archive --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&querySector, "sector", "", "Two-digit sector")
	queryCmd.Flags().StringVar(&queryRisk, "risk", "", "Low, Medium, High or Unclassified")
	queryCmd.Flags().StringVar(&queryPMA, "pma", "", "true, false or unknown")
	queryCmd.Flags().StringVar(&queryScale, "scale", "", "Micro, Small, Medium or Large")
	queryCmd.Flags().StringVar(&queryPartition, "partition", "", "matched, surplus or deficit")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Page size (0 returns every match)")
	queryCmd.Flags().IntVar(&queryOffset, "offset", 0, "Page offset")
	queryCmd.Flags().BoolVar(&queryFromArchive, "from-archive", false, "Read the last archived snapshot instead of reconciling")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print JSON")

	RootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt, err := newRuntime(ctx, cfg, l, runtimeOptions{database: queryFromArchive})
	if err != nil {
		return err
	}
	defer rt.Close()

	if queryFromArchive {
		restored, err := rt.service.Restore(ctx)
		if err != nil {
			return fmt.Errorf("failed to restore snapshot: %w", err)
		}
		if !restored {
			return fmt.Errorf("no archived snapshot available")
		}
	} else if _, err := rt.service.Refresh(ctx); err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if len(args) == 1 {
		view, err := rt.service.Lookup(args[0])
		if err != nil {
			return err
		}
		if queryJSON {
			return printJSON(view)
		}
		printCode(view.ClassificationCode, string(view.Partition))
		return nil
	}

	page, err := rt.service.Query(queryParams())
	if err != nil {
		return err
	}
	if queryJSON {
		return printJSON(page)
	}
	printPage(page)
	return nil
}

// queryParams turns the flags into the same parameter map the HTTP API reads.
func queryParams() map[string]string {
	params := map[string]string{
		query.KeySector:     querySector,
		query.KeyRiskLevel:  queryRisk,
		query.KeyPMAAllowed: queryPMA,
		query.KeyScaleTier:  queryScale,
		query.KeyPartition:  queryPartition,
	}
	if queryLimit > 0 {
		params[query.KeyLimit] = strconv.Itoa(queryLimit)
	}
	if queryOffset > 0 {
		params[query.KeyOffset] = strconv.Itoa(queryOffset)
	}
	return params
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printPage(page query.Page) {
	colorCyan.Printf("\n%d of %d codes (offset %d)\n\n", len(page.Items), page.Total, page.Offset)
	for _, c := range page.Items {
		line := fmt.Sprintf("%-6s %-13s %-8s %s", c.Code, c.RiskLevel, pmaLabel(c.PMAAllowed), c.Title)
		if c.HasConflicts() {
			colorYellow.Println(line)
		} else {
			colorWhite.Println(line)
		}
	}
}

func printCode(c models.ClassificationCode, partition string) {
	colorCyan.Printf("\n%s %s\n", c.Code, c.Title)
	colorWhite.Printf("Sector:       %s\n", c.Sector)
	colorWhite.Printf("Partition:    %s\n", partition)
	colorWhite.Printf("Risk level:   %s\n", c.RiskLevel)
	colorWhite.Printf("PMA:          %s\n", pmaLabel(c.PMAAllowed))
	if c.ForeignOwnershipCapPercent != nil {
		colorWhite.Printf("Foreign cap:  %d%%\n", *c.ForeignOwnershipCapPercent)
	}
	if len(c.ScaleTiers) > 0 {
		tiers := make([]string, len(c.ScaleTiers))
		for i, t := range c.ScaleTiers {
			tiers[i] = string(t)
		}
		colorWhite.Printf("Scale tiers:  %s\n", strings.Join(tiers, ", "))
	}
	if len(c.Requirements) > 0 {
		colorWhite.Printf("Requirements: %s\n", strings.Join(c.Requirements, ", "))
	}
	if len(c.Obligations) > 0 {
		colorWhite.Printf("Obligations:  %s\n", strings.Join(c.Obligations, ", "))
	}
	provenance := make([]string, len(c.Provenance))
	for i, p := range c.Provenance {
		provenance[i] = string(p)
	}
	colorWhite.Printf("Provenance:   %s\n", strings.Join(provenance, ", "))

	for _, field := range sortedConflictFields(c.SourceConflicts) {
		fc := c.SourceConflicts[field]
		colorRed.Printf("Conflict %-28s portal=%q regulation=%q\n", field, fc.Portal, fc.Regulation)
	}
}

func pmaLabel(v *bool) string {
	switch {
	case v == nil:
		return "unknown"
	case *v:
		return "open"
	default:
		return "closed"
	}
}
