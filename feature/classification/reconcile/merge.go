package reconcile

import (
	"strconv"
	"strings"
	"unicode"

	"kbli-registry/feature/classification/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// merge combines the portal and regulation entries of one code. For each field
// the policy's source wins when both supply a value; otherwise whichever source
// has one is used. Every disagreement is recorded as (portal, regulation).
func merge(p, r models.ClassificationCode, policy Policy) models.ClassificationCode {
	m := &merger{policy: policy, conflicts: make(map[string]models.FieldConflict)}

	out := models.ClassificationCode{
		Code:       p.Code,
		Sector:     models.SectorOf(p.Code),
		Provenance: []models.SourceID{models.SourcePortal, models.SourceRegulation},
	}

	if m.pick(models.FieldTitle, p.Title != "", r.Title != "", !sameTitle(p.Title, r.Title), p.Title, r.Title) {
		out.Title = p.Title
	} else {
		out.Title = r.Title
	}

	if m.pick(models.FieldRiskLevel, riskPresent(p.RiskLevel), riskPresent(r.RiskLevel),
		p.RiskLevel != r.RiskLevel, string(p.RiskLevel), string(r.RiskLevel)) {
		out.RiskLevel = p.RiskLevel
	} else {
		out.RiskLevel = r.RiskLevel
	}
	if out.RiskLevel == "" {
		out.RiskLevel = models.RiskUnclassified
	}

	if m.pick(models.FieldPMAAllowed, p.PMAAllowed != nil, r.PMAAllowed != nil,
		!equalBool(p.PMAAllowed, r.PMAAllowed), formatBool(p.PMAAllowed), formatBool(r.PMAAllowed)) {
		out.PMAAllowed = p.PMAAllowed
	} else {
		out.PMAAllowed = r.PMAAllowed
	}

	if m.pick(models.FieldForeignOwnershipCapPercent, p.ForeignOwnershipCapPercent != nil, r.ForeignOwnershipCapPercent != nil,
		!equalInt(p.ForeignOwnershipCapPercent, r.ForeignOwnershipCapPercent),
		formatInt(p.ForeignOwnershipCapPercent), formatInt(r.ForeignOwnershipCapPercent)) {
		out.ForeignOwnershipCapPercent = p.ForeignOwnershipCapPercent
	} else {
		out.ForeignOwnershipCapPercent = r.ForeignOwnershipCapPercent
	}
	// A cap has no meaning once foreign investment is closed.
	if out.PMAAllowed != nil && !*out.PMAAllowed {
		out.ForeignOwnershipCapPercent = nil
	}

	pTiers, rTiers := models.SortScaleTiers(p.ScaleTiers), models.SortScaleTiers(r.ScaleTiers)
	if m.pick(models.FieldScaleTiers, len(pTiers) > 0, len(rTiers) > 0,
		formatTiers(pTiers) != formatTiers(rTiers), formatTiers(pTiers), formatTiers(rTiers)) {
		out.ScaleTiers = pTiers
	} else {
		out.ScaleTiers = rTiers
	}

	if m.pick(models.FieldRequirements, len(p.Requirements) > 0, len(r.Requirements) > 0,
		!equalClauses(p.Requirements, r.Requirements), formatClauses(p.Requirements), formatClauses(r.Requirements)) {
		out.Requirements = p.Requirements
	} else {
		out.Requirements = r.Requirements
	}

	if m.pick(models.FieldObligations, len(p.Obligations) > 0, len(r.Obligations) > 0,
		!equalClauses(p.Obligations, r.Obligations), formatClauses(p.Obligations), formatClauses(r.Obligations)) {
		out.Obligations = p.Obligations
	} else {
		out.Obligations = r.Obligations
	}

	if m.pick(models.FieldFictitiousPositive, p.FictitiousPositiveEligible != nil, r.FictitiousPositiveEligible != nil,
		!equalBool(p.FictitiousPositiveEligible, r.FictitiousPositiveEligible),
		formatBool(p.FictitiousPositiveEligible), formatBool(r.FictitiousPositiveEligible)) {
		out.FictitiousPositiveEligible = p.FictitiousPositiveEligible
	} else {
		out.FictitiousPositiveEligible = r.FictitiousPositiveEligible
	}

	if len(m.conflicts) > 0 {
		out.SourceConflicts = m.conflicts
	}
	return out
}

type merger struct {
	policy    Policy
	conflicts map[string]models.FieldConflict
}

// pick reports whether the portal value should be used for field, recording a
// conflict when both sources supply differing values.
func (m *merger) pick(field string, portalHas, regulationHas, differ bool, portalValue, regulationValue string) bool {
	switch {
	case portalHas && regulationHas:
		if differ {
			m.conflicts[field] = models.FieldConflict{Portal: portalValue, Regulation: regulationValue}
		}
		return m.policy.Precedence(field) == models.SourcePortal
	case portalHas:
		return true
	default:
		return false
	}
}

func riskPresent(r models.RiskLevel) bool {
	return r != "" && r != models.RiskUnclassified
}

func equalBool(a, b *bool) bool {
	return a != nil && b != nil && *a == *b
}

func equalInt(a, b *int) bool {
	return a != nil && b != nil && *a == *b
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatTiers(tiers []models.ScaleTier) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func equalClauses(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatClauses(c []string) string {
	return strings.Join(c, "; ")
}

// sameTitle compares titles ignoring case, punctuation and spacing, which vary
// between the two publications for the same code.
func sameTitle(a, b string) bool {
	return titleKey(a) == titleKey(b)
}

func titleKey(s string) string {
	s = cases.Fold().String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
