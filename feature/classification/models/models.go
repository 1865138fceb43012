package models

import (
	"sort"
	"time"
)

// RiskLevel is the canonical risk classification of a business field.
type RiskLevel string

const (
	RiskLow          RiskLevel = "Low"
	RiskMedium       RiskLevel = "Medium"
	RiskHigh         RiskLevel = "High"
	RiskUnclassified RiskLevel = "Unclassified"
)

// RiskLevels lists every risk level in reporting order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskUnclassified}

// Valid reports whether r is one of the canonical levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskUnclassified:
		return true
	}
	return false
}

// ScaleTier is a business scale a classification applies to.
type ScaleTier string

const (
	ScaleMicro  ScaleTier = "Micro"
	ScaleSmall  ScaleTier = "Small"
	ScaleMedium ScaleTier = "Medium"
	ScaleLarge  ScaleTier = "Large"
)

// ScaleTiers lists every tier in canonical order.
var ScaleTiers = []ScaleTier{ScaleMicro, ScaleSmall, ScaleMedium, ScaleLarge}

// Rank returns the canonical position of the tier, or -1 if unknown.
func (s ScaleTier) Rank() int {
	for i, t := range ScaleTiers {
		if t == s {
			return i
		}
	}
	return -1
}

// SortScaleTiers orders tiers canonically and drops duplicates.
func SortScaleTiers(tiers []ScaleTier) []ScaleTier {
	if len(tiers) == 0 {
		return nil
	}
	seen := make(map[ScaleTier]struct{}, len(tiers))
	out := make([]ScaleTier, 0, len(tiers))
	for _, t := range tiers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}

// SourceID identifies one of the two publishing channels.
type SourceID string

const (
	SourcePortal     SourceID = "Portal"
	SourceRegulation SourceID = "Regulation"
)

// Sources lists both sources in canonical order.
var Sources = []SourceID{SourcePortal, SourceRegulation}

// Valid reports whether s is a known source.
func (s SourceID) Valid() bool {
	return s == SourcePortal || s == SourceRegulation
}

// Field names used in precedence policies and conflict maps.
const (
	FieldTitle                      = "title"
	FieldRiskLevel                  = "riskLevel"
	FieldPMAAllowed                 = "pmaAllowed"
	FieldForeignOwnershipCapPercent = "foreignOwnershipCapPercent"
	FieldScaleTiers                 = "scaleTiers"
	FieldRequirements               = "requirements"
	FieldObligations                = "obligations"
	FieldFictitiousPositive         = "fictitiousPositiveEligible"
)

// MergeFields lists every field that takes part in a merge.
var MergeFields = []string{
	FieldTitle,
	FieldRiskLevel,
	FieldPMAAllowed,
	FieldForeignOwnershipCapPercent,
	FieldScaleTiers,
	FieldRequirements,
	FieldObligations,
	FieldFictitiousPositive,
}

// FieldConflict holds the two disagreeing values of a field.
type FieldConflict struct {
	Portal     string `json:"portal"`
	Regulation string `json:"regulation"`
}

// ClassificationCode is the canonical entry of the registry, one per code.
type ClassificationCode struct {
	// Code is a 2-5 digit numeric string; the first two digits are the sector.
	Code string `json:"code"`
	// Title is the human-readable label.
	Title string `json:"title"`
	// Sector is derived from Code.
	Sector    string    `json:"sector"`
	RiskLevel RiskLevel `json:"riskLevel"`
	// PMAAllowed is nil when no source states whether foreign investment is open.
	PMAAllowed *bool `json:"pmaAllowed"`
	// ForeignOwnershipCapPercent is nil when absent.
	ForeignOwnershipCapPercent *int        `json:"foreignOwnershipCapPercent,omitempty"`
	ScaleTiers                 []ScaleTier `json:"scaleTiers"`
	Requirements               []string    `json:"requirements"`
	Obligations                []string    `json:"obligations"`
	// FictitiousPositiveEligible is nil when no source says.
	FictitiousPositiveEligible *bool                    `json:"fictitiousPositiveEligible"`
	Provenance                 []SourceID               `json:"provenance"`
	SourceConflicts            map[string]FieldConflict `json:"sourceConflicts"`
}

// HasConflicts reports whether any field disagreement was recorded.
func (c ClassificationCode) HasConflicts() bool {
	return len(c.SourceConflicts) > 0
}

// HasSource reports whether src contributed to the entry.
func (c ClassificationCode) HasSource(src SourceID) bool {
	for _, p := range c.Provenance {
		if p == src {
			return true
		}
	}
	return false
}

// SectorOf returns the sector of a code, its first two digits.
func SectorOf(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[:2]
}

// RawRow is one extracted row: column label to cell value.
type RawRow map[string]string

// IntermediateRecord is the output of a source adapter. All fields other than
// Code and Title are raw strings that the normalizer interprets.
type IntermediateRecord struct {
	// Row is the zero-based index of the raw row this record came from.
	Row                int
	Code               string
	Title              string
	Risk               string
	PMA                string
	OwnershipCap       string
	Scale              string
	Requirements       string
	Obligations        string
	FictitiousPositive string
}

// SourceSnapshot is one adapter run over one source. It must not be modified
// after creation.
type SourceSnapshot struct {
	SourceID  SourceID
	FetchedAt time.Time
	Records   []IntermediateRecord
}

// NewSourceSnapshot copies records so later changes to the input do not leak in.
func NewSourceSnapshot(id SourceID, fetchedAt time.Time, records []IntermediateRecord) SourceSnapshot {
	cp := make([]IntermediateRecord, len(records))
	copy(cp, records)
	return SourceSnapshot{SourceID: id, FetchedAt: fetchedAt.UTC(), Records: cp}
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
