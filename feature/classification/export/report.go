package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/registry"
)

// Report is the sector-grouped listing of one partition.
type Report struct {
	Partition  reconcile.Partition `json:"partition"`
	SnapshotID string              `json:"snapshotId"`
	// TotalCodes is the number of distinct codes in the registry.
	TotalCodes int `json:"totalCodes"`
	// SourceTotal is the size of the source that lists the partition's codes
	// (portal for surplus, regulation for deficit, the registry for matched).
	SourceTotal     int           `json:"sourceTotal"`
	Count           int           `json:"count"`
	PercentOfTotal  float64       `json:"percentOfTotal"`
	PercentOfSource float64       `json:"percentOfSource"`
	Sectors         []SectorGroup `json:"sectors"`
}

// SectorGroup holds the rows of one sector with its share of the partition
// and of the sector.
type SectorGroup struct {
	Sector             string      `json:"sector"`
	Title              string      `json:"title"`
	Count              int         `json:"count"`
	SectorTotal        int         `json:"sectorTotal"`
	PercentOfSector    float64     `json:"percentOfSector"`
	PercentOfPartition float64     `json:"percentOfPartition"`
	Entries            []ReportRow `json:"entries"`
}

// ReportRow is one code of a report.
type ReportRow struct {
	Code       string           `json:"code"`
	Title      string           `json:"title"`
	RiskLevel  models.RiskLevel `json:"riskLevel"`
	PMAAllowed *bool            `json:"pmaAllowed"`
}

// Surplus reports the codes only the portal lists.
func Surplus(snap *registry.Snapshot) Report {
	return BuildReport(snap, reconcile.PartitionSurplus)
}

// Deficit reports the codes only the regulation lists.
func Deficit(snap *registry.Snapshot) Report {
	return BuildReport(snap, reconcile.PartitionDeficit)
}

// BuildReport groups a partition by sector, in the same buckets as the
// snapshot's sector aggregates.
func BuildReport(snap *registry.Snapshot, p reconcile.Partition) Report {
	summary := snap.Summary()
	items := snap.Partition(p)

	r := Report{
		Partition:  p,
		SnapshotID: snap.ID(),
		TotalCodes: summary.TotalCodes,
		Count:      len(items),
		Sectors:    []SectorGroup{},
	}
	switch p {
	case reconcile.PartitionSurplus:
		r.SourceTotal = summary.PortalTotal
	case reconcile.PartitionDeficit:
		r.SourceTotal = summary.RegulationTotal
	default:
		r.SourceTotal = summary.TotalCodes
	}
	r.PercentOfTotal = percent(r.Count, r.TotalCodes)
	r.PercentOfSource = percent(r.Count, r.SourceTotal)

	sectorTotals := make(map[string]int, len(summary.Sectors))
	for _, s := range summary.Sectors {
		sectorTotals[s.Sector] = s.Total
	}

	// items are ordered by code, so each sector is one contiguous run.
	for _, c := range items {
		sector := models.SectorOf(c.Code)
		if n := len(r.Sectors); n == 0 || r.Sectors[n-1].Sector != sector {
			r.Sectors = append(r.Sectors, SectorGroup{
				Sector:      sector,
				Title:       snap.SectorTitle(sector),
				SectorTotal: sectorTotals[sector],
			})
		}
		g := &r.Sectors[len(r.Sectors)-1]
		g.Count++
		g.Entries = append(g.Entries, ReportRow{
			Code:       c.Code,
			Title:      c.Title,
			RiskLevel:  c.RiskLevel,
			PMAAllowed: c.PMAAllowed,
		})
	}

	for i := range r.Sectors {
		g := &r.Sectors[i]
		g.PercentOfSector = percent(g.Count, g.SectorTotal)
		g.PercentOfPartition = percent(g.Count, r.Count)
	}

	return r
}

// WriteCSV renders the report as one row per code.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sector", "sector_title", "code", "title", "risk_level", "pma_allowed"}); err != nil {
		return err
	}
	for _, g := range r.Sectors {
		for _, e := range g.Entries {
			if err := cw.Write([]string{g.Sector, g.Title, e.Code, e.Title, string(e.RiskLevel), FormatPMA(e.PMAAllowed)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// FormatPMA renders a tri-state PMA value.
func FormatPMA(v *bool) string {
	switch {
	case v == nil:
		return "unknown"
	case *v:
		return "true"
	default:
		return "false"
	}
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(whole)) / 100
}
