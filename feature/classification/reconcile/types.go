package reconcile

import "kbli-registry/feature/classification/models"

// Partition names which set a code falls into.
type Partition string

const (
	PartitionMatched Partition = "matched"
	PartitionSurplus Partition = "surplus"
	PartitionDeficit Partition = "deficit"
)

// Valid reports whether p is a known partition.
func (p Partition) Valid() bool {
	return p == PartitionMatched || p == PartitionSurplus || p == PartitionDeficit
}

// Result is the outcome of one reconciliation pass. Every slice is ordered by
// code ascending.
type Result struct {
	// Matched holds codes present in both sources, merged.
	Matched []models.ClassificationCode `json:"matched"`
	// Surplus holds codes only the portal lists.
	Surplus []models.ClassificationCode `json:"surplus"`
	// Deficit holds codes only the regulation lists.
	Deficit []models.ClassificationCode `json:"deficit"`
	// Conflicts lists matched codes with at least one recorded disagreement.
	Conflicts []string `json:"conflicts"`
	Summary   Summary  `json:"summary"`
}

// Summary holds aggregate counts of a result.
type Summary struct {
	PortalTotal     int           `json:"portalTotal"`
	RegulationTotal int           `json:"regulationTotal"`
	TotalCodes      int           `json:"totalCodes"`
	Matched         int           `json:"matched"`
	Surplus         int           `json:"surplus"`
	Deficit         int           `json:"deficit"`
	Conflicts       int           `json:"conflicts"`
	Sectors         []SectorCount `json:"sectors"`
	RiskLevels      []RiskCount   `json:"riskLevels"`
}

// SectorCount aggregates one sector (first two digits of the code).
type SectorCount struct {
	Sector    string `json:"sector"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`
	Surplus   int    `json:"surplus"`
	Deficit   int    `json:"deficit"`
	Conflicts int    `json:"conflicts"`
}

// RiskCount is the number of registry entries at one risk level.
type RiskCount struct {
	RiskLevel models.RiskLevel `json:"riskLevel"`
	Count     int              `json:"count"`
}
