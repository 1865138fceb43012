package normalize

import (
	"testing"

	"kbli-registry/feature/classification/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRisk(t *testing.T) {
	tests := []struct {
		in     string
		want   models.RiskLevel
		wantOK bool
	}{
		{"Rendah", models.RiskLow, true},
		{"  MENENGAH   rendah ", models.RiskMedium, true},
		{"Menengah Tinggi", models.RiskMedium, true},
		{"MT", models.RiskMedium, true},
		{"Tinggi", models.RiskHigh, true},
		{"high", models.RiskHigh, true},
		{"Rendah, Tinggi", models.RiskHigh, true},
		{"Rendah / Menengah Rendah", models.RiskMedium, true},
		{"", models.RiskUnclassified, true},
		{"-", models.RiskUnclassified, true},
		{"Sangat Tinggi", models.RiskUnclassified, false},
		{"Rendah, Entah", models.RiskUnclassified, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRisk(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParsePMA(t *testing.T) {
	tests := []struct {
		in     string
		want   *bool
		wantOK bool
	}{
		{"Ya", models.BoolPtr(true), true},
		{"Terbuka", models.BoolPtr(true), true},
		{"Terbuka dengan persyaratan", models.BoolPtr(true), true},
		{"TIDAK BOLEH", models.BoolPtr(false), true},
		{"Tertutup", models.BoolPtr(false), true},
		{"Tidak, kecuali KEK", models.BoolPtr(false), true},
		{"", nil, true},
		{"tidak ada", nil, true},
		{"Mungkin", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePMA(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseFlag(t *testing.T) {
	v, ok := ParseFlag("Berlaku")
	require.True(t, ok)
	assert.True(t, *v)

	v, ok = ParseFlag("Tidak Berlaku")
	require.True(t, ok)
	assert.False(t, *v)

	v, ok = ParseFlag("1")
	require.True(t, ok)
	assert.True(t, *v)

	v, ok = ParseFlag("0")
	require.True(t, ok)
	assert.False(t, *v)

	// Only vocabulary words count; "2" is not read as a truthy number.
	_, ok = ParseFlag("2")
	assert.False(t, ok)

	v, ok = ParseFlag("")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = ParseFlag("kadang")
	assert.False(t, ok)
}

func TestParseOwnershipCap(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{"49", models.IntPtr(49), false},
		{"Maksimal 49%", models.IntPtr(49), false},
		{"100%", models.IntPtr(100), false},
		{"0", models.IntPtr(0), false},
		{"67,00 %", models.IntPtr(67), false},
		{"", nil, false},
		{"-", nil, false},
		{"150%", nil, true},
		{"-5", nil, true},
		{"49,5%", nil, true},
		{"sesuai ketentuan", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOwnershipCap(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScaleTiers(t *testing.T) {
	tests := []struct {
		in          string
		want        []models.ScaleTier
		wantUnknown []string
	}{
		{"Mikro, Kecil", []models.ScaleTier{models.ScaleMicro, models.ScaleSmall}, nil},
		{"Usaha Besar dan Usaha Menengah", []models.ScaleTier{models.ScaleMedium, models.ScaleLarge}, nil},
		{"UMK; Besar", []models.ScaleTier{models.ScaleMicro, models.ScaleSmall, models.ScaleLarge}, nil},
		{"Semua Skala", models.ScaleTiers, nil},
		{"kecil/kecil", []models.ScaleTier{models.ScaleSmall}, nil},
		{"Raksasa, Besar", []models.ScaleTier{models.ScaleLarge}, []string{"Raksasa"}},
		{"", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, unknown := ParseScaleTiers(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUnknown, unknown)
		})
	}
}

func TestSplitClauses(t *testing.T) {
	in := "1. NIB\n2) Sertifikat Standar; - Izin Lingkungan |• NIB\n\n  a. Laporan   Berkala "
	assert.Equal(t, []string{"NIB", "Sertifikat Standar", "Izin Lingkungan", "Laporan Berkala"}, SplitClauses(in))
	assert.Nil(t, SplitClauses(""))
	assert.Nil(t, SplitClauses(" ; | "))
}

func TestNormalizeTitle(t *testing.T) {
	// A decomposed "e" plus combining acute composes to U+00E9.
	assert.Equal(t, "Caf\u00e9 Restoran", NormalizeTitle("  Cafe\u0301 \t Restoran "))
}
