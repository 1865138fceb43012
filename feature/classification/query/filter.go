package query

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
)

// Filter keys accepted by ParseFilter.
const (
	KeySector     = "sector"
	KeyRiskLevel  = "riskLevel"
	KeyPMAAllowed = "pmaAllowed"
	KeyScaleTier  = "scaleTier"
	KeyPartition  = "partition"
	KeyLimit      = "limit"
	KeyOffset     = "offset"
)

var knownKeys = map[string]struct{}{
	KeySector: {}, KeyRiskLevel: {}, KeyPMAAllowed: {}, KeyScaleTier: {},
	KeyPartition: {}, KeyLimit: {}, KeyOffset: {},
}

var sectorPattern = regexp.MustCompile(`^\d{2}$`)

// PMAState filters on foreign investment status, including the unknown state.
type PMAState string

const (
	PMAAny     PMAState = ""
	PMAOpen    PMAState = "true"
	PMAClosed  PMAState = "false"
	PMAUnknown PMAState = "unknown"
)

// ValidationError rejects a malformed query. No partial result accompanies it.
type ValidationError struct {
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid filter %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
}

// Filter selects registry entries. Set fields compose with AND; the zero value
// matches everything.
type Filter struct {
	Sector     string              `json:"sector,omitempty"`
	RiskLevel  models.RiskLevel    `json:"riskLevel,omitempty"`
	PMAAllowed PMAState            `json:"pmaAllowed,omitempty"`
	ScaleTier  models.ScaleTier    `json:"scaleTier,omitempty"`
	Partition  reconcile.Partition `json:"partition,omitempty"`
	// Limit caps the page size; zero means no limit.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ParseFilter builds a filter from query parameters. Unknown keys and invalid
// values are a ValidationError.
func ParseFilter(params map[string]string) (Filter, error) {
	var f Filter

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := knownKeys[key]; !ok {
			return Filter{}, &ValidationError{Field: key, Value: params[key], Reason: "unknown filter field"}
		}
		value := strings.TrimSpace(params[key])
		if value == "" {
			continue
		}
		switch key {
		case KeySector:
			if !sectorPattern.MatchString(value) {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "sector must be 2 digits"}
			}
			f.Sector = value
		case KeyRiskLevel:
			level, ok := matchRisk(value)
			if !ok {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "expected Low, Medium, High or Unclassified"}
			}
			f.RiskLevel = level
		case KeyPMAAllowed:
			switch strings.ToLower(value) {
			case "true":
				f.PMAAllowed = PMAOpen
			case "false":
				f.PMAAllowed = PMAClosed
			case "unknown", "null":
				f.PMAAllowed = PMAUnknown
			default:
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "expected true, false or unknown"}
			}
		case KeyScaleTier:
			tier, ok := matchTier(value)
			if !ok {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "expected Micro, Small, Medium or Large"}
			}
			f.ScaleTier = tier
		case KeyPartition:
			p := reconcile.Partition(strings.ToLower(value))
			if !p.Valid() {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "expected matched, surplus or deficit"}
			}
			f.Partition = p
		case KeyLimit:
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "must be a positive integer"}
			}
			f.Limit = n
		case KeyOffset:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Filter{}, &ValidationError{Field: key, Value: value, Reason: "must be a non-negative integer"}
			}
			f.Offset = n
		}
	}

	return f, nil
}

// Match reports whether c satisfies every set criterion of f other than
// Partition, which needs the snapshot.
func (f Filter) Match(c models.ClassificationCode) bool {
	if f.Sector != "" && models.SectorOf(c.Code) != f.Sector {
		return false
	}
	if f.RiskLevel != "" && c.RiskLevel != f.RiskLevel {
		return false
	}
	switch f.PMAAllowed {
	case PMAOpen:
		if c.PMAAllowed == nil || !*c.PMAAllowed {
			return false
		}
	case PMAClosed:
		if c.PMAAllowed == nil || *c.PMAAllowed {
			return false
		}
	case PMAUnknown:
		if c.PMAAllowed != nil {
			return false
		}
	}
	if f.ScaleTier != "" && !hasTier(c.ScaleTiers, f.ScaleTier) {
		return false
	}
	return true
}

func matchRisk(s string) (models.RiskLevel, bool) {
	for _, r := range models.RiskLevels {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

func matchTier(s string) (models.ScaleTier, bool) {
	for _, t := range models.ScaleTiers {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

func hasTier(tiers []models.ScaleTier, want models.ScaleTier) bool {
	for _, t := range tiers {
		if t == want {
			return true
		}
	}
	return false
}
