package export

import (
	"testing"
	"time"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/registry"

	"github.com/stretchr/testify/require"
)

// fixture: matched 55110 (with conflicts), surplus 01112 and 01115, deficit
// 64110 and 64122.
func fixture(t *testing.T) *registry.Snapshot {
	t.Helper()

	portal := []models.ClassificationCode{
		{Code: "01112", Title: "Pertanian Jagung", Sector: "01", RiskLevel: models.RiskLow, PMAAllowed: models.BoolPtr(true)},
		{Code: "01115", Title: "Pertanian Tembakau", Sector: "01", RiskLevel: models.RiskUnclassified},
		{
			Code: "55110", Title: "Hotel Bintang", Sector: "55", RiskLevel: models.RiskMedium,
			PMAAllowed: models.BoolPtr(true), ForeignOwnershipCapPercent: models.IntPtr(49),
			Requirements: []string{"NIB"}, FictitiousPositiveEligible: models.BoolPtr(true),
		},
	}
	regulation := []models.ClassificationCode{
		{
			Code: "55110", Title: "HOTEL BINTANG", Sector: "55", RiskLevel: models.RiskHigh,
			PMAAllowed: models.BoolPtr(true), ForeignOwnershipCapPercent: models.IntPtr(67),
			ScaleTiers:   []models.ScaleTier{models.ScaleMedium, models.ScaleLarge},
			Requirements: []string{"NIB", "Sertifikat Standar"},
			Obligations:  []string{"Laporan Kegiatan Penanaman Modal"},
		},
		{Code: "64110", Title: "Bank Sentral", Sector: "64", RiskLevel: models.RiskHigh, PMAAllowed: models.BoolPtr(false)},
		{Code: "64122", Title: "Bank Syariah", Sector: "64", RiskLevel: models.RiskUnclassified},
	}

	res, err := reconcile.Reconcile(portal, regulation, nil)
	require.NoError(t, err)

	return registry.New(res, registry.Meta{
		ID:                  "7f1c9a52-4d7e-4b5e-9a51-3c2f0c9d1e20",
		CreatedAt:           time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC),
		PortalFetchedAt:     time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC),
		RegulationFetchedAt: time.Date(2024, 5, 29, 9, 30, 0, 0, time.UTC),
	})
}
