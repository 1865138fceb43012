package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"kbli-registry/feature/classification/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
	bulletPattern = regexp.MustCompile(`^(?:[-•*·]+|\(?\d{1,3}[.)]|\(?[a-zA-Z][.)])\s+`)
	scaleJoiners  = regexp.MustCompile(`(?i)\s+(?:dan|and|&)\s+`)
)

// key folds a vocabulary value for lookup.
func key(s string) string {
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	return cases.Fold().String(s)
}

func isEmpty(s string) bool {
	k := key(s)
	if k == "" {
		return true
	}
	_, ok := placeholders[k]
	return ok
}

// NormalizeTitle applies NFC and collapses internal whitespace.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ParseRisk maps a risk label to a canonical level. Empty values are
// Unclassified and known. A cell listing several levels (one per business
// scale) resolves to the highest. ok is false for unrecognized labels.
func ParseRisk(s string) (level models.RiskLevel, ok bool) {
	if isEmpty(s) {
		return models.RiskUnclassified, true
	}
	if r, found := riskVocabulary[key(s)]; found {
		return r, true
	}

	best := models.RiskUnclassified
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' || r == ';' }) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, found := riskVocabulary[key(part)]
		if !found {
			return models.RiskUnclassified, false
		}
		if riskRank(r) > riskRank(best) {
			best = r
		}
	}
	return best, best != models.RiskUnclassified
}

func riskRank(r models.RiskLevel) int {
	switch r {
	case models.RiskLow:
		return 1
	case models.RiskMedium:
		return 2
	case models.RiskHigh:
		return 3
	}
	return 0
}

// ParsePMA maps a foreign-investment status to true, false or nil (unknown).
// ok is false when a non-empty value could not be interpreted.
func ParsePMA(s string) (*bool, bool) {
	return parseTriState(s, pmaVocabulary)
}

// ParseFlag maps a fictitious-positive marker to true, false or nil.
func ParseFlag(s string) (*bool, bool) {
	return parseTriState(s, flagVocabulary)
}

func parseTriState(s string, vocabulary map[string]bool) (*bool, bool) {
	if isEmpty(s) {
		return nil, true
	}
	k := key(s)
	if v, found := vocabulary[k]; found {
		return models.BoolPtr(v), true
	}
	// "Terbuka dengan persyaratan", "Tidak, kecuali ..."
	first := strings.FieldsFunc(k, func(r rune) bool { return r == ' ' || r == ',' || r == '(' })
	if len(first) > 0 {
		if v, found := vocabulary[first[0]]; found {
			return models.BoolPtr(v), true
		}
	}
	return nil, false
}

// ParseOwnershipCap extracts an integer percentage in [0,100] from a cell such
// as "Maksimal 49%". Empty cells return nil without error.
func ParseOwnershipCap(s string) (*int, error) {
	if isEmpty(s) {
		return nil, nil
	}
	m := numberPattern.FindString(s)
	if m == "" {
		return nil, fmt.Errorf("no percentage found")
	}
	f, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", m)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("percentage %s is not a whole number", m)
	}
	if f < 0 || f > 100 {
		return nil, fmt.Errorf("percentage %s outside 0-100", m)
	}
	return models.IntPtr(int(f)), nil
}

// ParseScaleTiers splits a scale cell into canonical tiers. Unrecognized tokens
// are returned separately.
func ParseScaleTiers(s string) (tiers []models.ScaleTier, unknown []string) {
	if isEmpty(s) {
		return nil, nil
	}
	s = scaleJoiners.ReplaceAllString(s, ",")
	for _, token := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '|' || r == '\n'
	}) {
		k := strings.TrimPrefix(key(token), "usaha ")
		if k == "" {
			continue
		}
		mapped, found := scaleVocabulary[k]
		if !found {
			unknown = append(unknown, strings.TrimSpace(token))
			continue
		}
		tiers = append(tiers, mapped...)
	}
	return models.SortScaleTiers(tiers), unknown
}

// SplitClauses splits a free-text cell into ordered clauses, stripping list
// markers and dropping repeats.
func SplitClauses(s string) []string {
	if isEmpty(s) {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == ';' || r == '|' }) {
		clause := NormalizeTitle(bulletPattern.ReplaceAllString(strings.TrimSpace(part), ""))
		if clause == "" || isEmpty(clause) {
			continue
		}
		k := key(clause)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, clause)
	}
	return out
}
