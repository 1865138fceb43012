package reconcile

import (
	"sort"

	"kbli-registry/feature/classification/models"
)

// Reconcile partitions the two normalized catalogs by exact code equality and
// merges the codes both list. Titles are never used to join.
//
// It fails only when a catalog is empty or repeats a code; field disagreements
// are recorded on the merged entry and never abort the pass. A nil policy means
// DefaultPolicy.
func Reconcile(portal, regulation []models.ClassificationCode, policy Policy) (*Result, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	portalIndex, err := buildIndex(portal, models.SourcePortal)
	if err != nil {
		return nil, err
	}
	regulationIndex, err := buildIndex(regulation, models.SourceRegulation)
	if err != nil {
		return nil, err
	}

	keys := buildUnion(portalIndex, regulationIndex)

	result := &Result{
		Matched:   []models.ClassificationCode{},
		Surplus:   []models.ClassificationCode{},
		Deficit:   []models.ClassificationCode{},
		Conflicts: []string{},
	}

	for _, key := range keys {
		p, inPortal := portalIndex[key]
		r, inRegulation := regulationIndex[key]

		switch {
		case inPortal && inRegulation:
			merged := merge(p, r, policy)
			result.Matched = append(result.Matched, merged)
			if merged.HasConflicts() {
				result.Conflicts = append(result.Conflicts, key)
			}
		case inPortal:
			result.Surplus = append(result.Surplus, single(p, models.SourcePortal))
		default:
			result.Deficit = append(result.Deficit, single(r, models.SourceRegulation))
		}
	}

	result.Summary = Summarize(result.Matched, result.Surplus, result.Deficit)
	return result, nil
}

// buildIndex keys a catalog by code and rejects empty or repeated input.
func buildIndex(items []models.ClassificationCode, source models.SourceID) (map[string]models.ClassificationCode, error) {
	if len(items) == 0 {
		return nil, &InputError{Source: source, Reason: "empty catalog"}
	}

	index := make(map[string]models.ClassificationCode, len(items))
	var dups []string
	for _, item := range items {
		if _, exists := index[item.Code]; exists {
			dups = append(dups, item.Code)
			continue
		}
		index[item.Code] = item
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, &InputError{Source: source, Reason: "duplicate codes", Codes: dedupeSorted(dups)}
	}
	return index, nil
}

// buildUnion returns every code of either index, sorted ascending.
func buildUnion(a, b map[string]models.ClassificationCode) []string {
	union := make(map[string]struct{}, len(a)+len(b))
	for key := range a {
		union[key] = struct{}{}
	}
	for key := range b {
		union[key] = struct{}{}
	}

	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// single prepares an entry only one source lists.
func single(c models.ClassificationCode, source models.SourceID) models.ClassificationCode {
	c.Sector = models.SectorOf(c.Code)
	c.Provenance = []models.SourceID{source}
	c.SourceConflicts = nil
	return c
}

// Summarize computes the aggregate counts of a partitioned registry in one
// pass over its entries.
func Summarize(matched, surplus, deficit []models.ClassificationCode) Summary {
	s := Summary{
		Matched:         len(matched),
		Surplus:         len(surplus),
		Deficit:         len(deficit),
		PortalTotal:     len(matched) + len(surplus),
		RegulationTotal: len(matched) + len(deficit),
		TotalCodes:      len(matched) + len(surplus) + len(deficit),
	}

	sectors := make(map[string]*SectorCount)
	risks := make(map[models.RiskLevel]int, len(models.RiskLevels))

	visit := func(items []models.ClassificationCode, part Partition) {
		for _, c := range items {
			sector := models.SectorOf(c.Code)
			sc, ok := sectors[sector]
			if !ok {
				sc = &SectorCount{Sector: sector}
				sectors[sector] = sc
			}
			sc.Total++
			switch part {
			case PartitionMatched:
				sc.Matched++
				if c.HasConflicts() {
					sc.Conflicts++
					s.Conflicts++
				}
			case PartitionSurplus:
				sc.Surplus++
			case PartitionDeficit:
				sc.Deficit++
			}

			level := c.RiskLevel
			if !level.Valid() {
				level = models.RiskUnclassified
			}
			risks[level]++
		}
	}
	visit(matched, PartitionMatched)
	visit(surplus, PartitionSurplus)
	visit(deficit, PartitionDeficit)

	s.Sectors = make([]SectorCount, 0, len(sectors))
	for _, sc := range sectors {
		s.Sectors = append(s.Sectors, *sc)
	}
	sort.Slice(s.Sectors, func(i, j int) bool { return s.Sectors[i].Sector < s.Sectors[j].Sector })

	s.RiskLevels = make([]RiskCount, 0, len(models.RiskLevels))
	for _, level := range models.RiskLevels {
		s.RiskLevels = append(s.RiskLevels, RiskCount{RiskLevel: level, Count: risks[level]})
	}

	return s
}

func dedupeSorted(in []string) []string {
	out := in[:0]
	for i, s := range in {
		if i == 0 || s != in[i-1] {
			out = append(out, s)
		}
	}
	return out
}
