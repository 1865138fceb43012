package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortScaleTiers(t *testing.T) {
	got := SortScaleTiers([]ScaleTier{ScaleLarge, ScaleMicro, ScaleLarge, ScaleSmall})
	assert.Equal(t, []ScaleTier{ScaleMicro, ScaleSmall, ScaleLarge}, got)
	assert.Nil(t, SortScaleTiers(nil))
}

func TestSectorOf(t *testing.T) {
	assert.Equal(t, "64", SectorOf("64110"))
	assert.Equal(t, "01", SectorOf("01"))
	assert.Equal(t, "1", SectorOf("1"))
}

func TestClassificationCode_Helpers(t *testing.T) {
	c := ClassificationCode{
		Code:       "55110",
		Provenance: []SourceID{SourcePortal, SourceRegulation},
	}
	assert.True(t, c.HasSource(SourceRegulation))
	assert.False(t, c.HasConflicts())

	c.SourceConflicts = map[string]FieldConflict{FieldRiskLevel: {Portal: "Medium", Regulation: "High"}}
	assert.True(t, c.HasConflicts())
}

func TestNewSourceSnapshot_CopiesRecords(t *testing.T) {
	in := []IntermediateRecord{{Code: "01112", Title: "Pertanian Padi"}}
	loc := time.FixedZone("WIB", 7*3600)
	snap := NewSourceSnapshot(SourcePortal, time.Date(2024, 1, 2, 10, 0, 0, 0, loc), in)

	in[0].Code = "99999"
	assert.Equal(t, "01112", snap.Records[0].Code)
	assert.Equal(t, time.UTC, snap.FetchedAt.Location())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, RiskHigh.Valid())
	assert.False(t, RiskLevel("Severe").Valid())
	assert.True(t, SourcePortal.Valid())
	assert.False(t, SourceID("Web").Valid())
	assert.Equal(t, -1, ScaleTier("Huge").Rank())
}
