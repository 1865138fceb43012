package normalize

import (
	"fmt"

	"kbli-registry/feature/classification/models"

	"go.uber.org/zap"
)

// Anomaly is a field value that could not be mapped to its canonical type.
// The field is left absent and normalization continues.
type Anomaly struct {
	Source models.SourceID `json:"source"`
	Code   string          `json:"code"`
	Field  string          `json:"field"`
	Value  string          `json:"value"`
	Reason string          `json:"reason"`
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("%s %s %s=%q: %s", a.Source, a.Code, a.Field, a.Value, a.Reason)
}

// Normalizer maps intermediate records onto the canonical schema.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a normalizer that logs anomalies to logger.
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts records from one source. Each result carries provenance
// {source} and no conflicts. Values that cannot be interpreted never fail the
// call; they are returned as anomalies.
func (n *Normalizer) Normalize(records []models.IntermediateRecord, source models.SourceID) ([]models.ClassificationCode, []Anomaly) {
	out := make([]models.ClassificationCode, 0, len(records))
	var anomalies []Anomaly

	for _, rec := range records {
		code, found := n.normalizeOne(rec, source)
		out = append(out, code)
		anomalies = append(anomalies, found...)
	}

	for _, a := range anomalies {
		n.logger.Warn("Normalization anomaly",
			zap.String("source", string(a.Source)),
			zap.String("code", a.Code),
			zap.String("field", a.Field),
			zap.String("value", a.Value),
			zap.String("reason", a.Reason),
		)
	}

	return out, anomalies
}

func (n *Normalizer) normalizeOne(rec models.IntermediateRecord, source models.SourceID) (models.ClassificationCode, []Anomaly) {
	var anomalies []Anomaly
	flag := func(field, value, reason string) {
		anomalies = append(anomalies, Anomaly{Source: source, Code: rec.Code, Field: field, Value: value, Reason: reason})
	}

	code := models.ClassificationCode{
		Code:       rec.Code,
		Title:      NormalizeTitle(rec.Title),
		Sector:     models.SectorOf(rec.Code),
		Provenance: []models.SourceID{source},
	}

	risk, ok := ParseRisk(rec.Risk)
	if !ok {
		flag(models.FieldRiskLevel, rec.Risk, "unrecognized risk level")
	}
	code.RiskLevel = risk

	if pma, ok := ParsePMA(rec.PMA); ok {
		code.PMAAllowed = pma
	} else {
		flag(models.FieldPMAAllowed, rec.PMA, "unrecognized foreign investment status")
	}

	if ownershipCap, err := ParseOwnershipCap(rec.OwnershipCap); err != nil {
		flag(models.FieldForeignOwnershipCapPercent, rec.OwnershipCap, err.Error())
	} else if ownershipCap != nil && code.PMAAllowed != nil && !*code.PMAAllowed {
		flag(models.FieldForeignOwnershipCapPercent, rec.OwnershipCap, "cap ignored: foreign investment closed")
	} else {
		code.ForeignOwnershipCapPercent = ownershipCap
	}

	tiers, unknown := ParseScaleTiers(rec.Scale)
	for _, token := range unknown {
		flag(models.FieldScaleTiers, token, "unrecognized scale tier")
	}
	code.ScaleTiers = tiers

	code.Requirements = SplitClauses(rec.Requirements)
	code.Obligations = SplitClauses(rec.Obligations)

	if fp, ok := ParseFlag(rec.FictitiousPositive); ok {
		code.FictitiousPositiveEligible = fp
	} else {
		flag(models.FieldFictitiousPositive, rec.FictitiousPositive, "unrecognized fictitious-positive marker")
	}

	return code, anomalies
}
