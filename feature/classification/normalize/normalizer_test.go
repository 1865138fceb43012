package normalize

import (
	"testing"

	"kbli-registry/feature/classification/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalize_Regulation(t *testing.T) {
	records := []models.IntermediateRecord{{
		Code:               "55110",
		Title:              " Hotel  Bintang ",
		Risk:               "Menengah Tinggi",
		PMA:                "Terbuka",
		OwnershipCap:       "Maksimal 67%",
		Scale:              "Menengah, Besar",
		Requirements:       "NIB; Sertifikat Standar",
		Obligations:        "Laporan Kegiatan Penanaman Modal",
		FictitiousPositive: "Ya",
	}}

	got, anomalies := New(zap.NewNop()).Normalize(records, models.SourceRegulation)
	require.Empty(t, anomalies)
	require.Len(t, got, 1)

	assert.Equal(t, models.ClassificationCode{
		Code:                       "55110",
		Title:                      "Hotel Bintang",
		Sector:                     "55",
		RiskLevel:                  models.RiskMedium,
		PMAAllowed:                 models.BoolPtr(true),
		ForeignOwnershipCapPercent: models.IntPtr(67),
		ScaleTiers:                 []models.ScaleTier{models.ScaleMedium, models.ScaleLarge},
		Requirements:               []string{"NIB", "Sertifikat Standar"},
		Obligations:                []string{"Laporan Kegiatan Penanaman Modal"},
		FictitiousPositiveEligible: models.BoolPtr(true),
		Provenance:                 []models.SourceID{models.SourceRegulation},
	}, got[0])
}

func TestNormalize_PortalMinimal(t *testing.T) {
	got, anomalies := New(nil).Normalize([]models.IntermediateRecord{
		{Code: "01112", Title: "Pertanian Jagung"},
	}, models.SourcePortal)

	assert.Empty(t, anomalies)
	require.Len(t, got, 1)
	assert.Equal(t, models.RiskUnclassified, got[0].RiskLevel)
	assert.Nil(t, got[0].PMAAllowed)
	assert.Nil(t, got[0].ForeignOwnershipCapPercent)
	assert.Nil(t, got[0].ScaleTiers)
	assert.Nil(t, got[0].SourceConflicts)
	assert.Equal(t, []models.SourceID{models.SourcePortal}, got[0].Provenance)
}

func TestNormalize_AnomaliesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := New(zap.New(core))

	got, anomalies := n.Normalize([]models.IntermediateRecord{
		{Code: "64110", Title: "Bank Sentral", Risk: "Ekstrem", OwnershipCap: "150%", Scale: "Raksasa"},
		{Code: "64122", Title: "Bank Syariah", PMA: "Tidak", OwnershipCap: "49%", FictitiousPositive: "kadang"},
	}, models.SourceRegulation)

	require.Len(t, got, 2)
	assert.Equal(t, models.RiskUnclassified, got[0].RiskLevel)
	assert.Nil(t, got[0].ForeignOwnershipCapPercent)
	assert.Nil(t, got[0].ScaleTiers)
	assert.Equal(t, models.BoolPtr(false), got[1].PMAAllowed)
	assert.Nil(t, got[1].ForeignOwnershipCapPercent)
	assert.Nil(t, got[1].FictitiousPositiveEligible)

	fields := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		fields = append(fields, a.Code+"/"+a.Field)
	}
	assert.Equal(t, []string{
		"64110/riskLevel",
		"64110/foreignOwnershipCapPercent",
		"64110/scaleTiers",
		"64122/foreignOwnershipCapPercent",
		"64122/fictitiousPositiveEligible",
	}, fields)

	assert.Equal(t, len(anomalies), logs.FilterMessage("Normalization anomaly").Len())
	first := logs.All()[0].ContextMap()
	assert.Equal(t, "Regulation", first["source"])
	assert.Equal(t, "Ekstrem", first["value"])
	assert.Contains(t, anomalies[1].Error(), "outside 0-100")
}
