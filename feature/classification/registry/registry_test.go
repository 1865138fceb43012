package registry

import (
	"sync"
	"testing"
	"time"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(c, title string, risk models.RiskLevel) models.ClassificationCode {
	return models.ClassificationCode{Code: c, Title: title, Sector: models.SectorOf(c), RiskLevel: risk}
}

func buildSnapshot(t *testing.T, portal, regulation []models.ClassificationCode) *Snapshot {
	t.Helper()
	res, err := reconcile.Reconcile(portal, regulation, nil)
	require.NoError(t, err)
	return New(res, Meta{})
}

func TestSnapshot_LookupAndPartitions(t *testing.T) {
	snap := buildSnapshot(t,
		[]models.ClassificationCode{code("01112", "Padi", models.RiskLow), code("55110", "Hotel", models.RiskHigh)},
		[]models.ClassificationCode{code("55110", "Hotel", models.RiskHigh), code("64110", "Bank", models.RiskHigh)},
	)

	assert.NotEmpty(t, snap.ID())
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"01112", "55110", "64110"}, []string{snap.All()[0].Code, snap.All()[1].Code, snap.All()[2].Code})

	c, part, ok := snap.Lookup("64110")
	require.True(t, ok)
	assert.Equal(t, reconcile.PartitionDeficit, part)
	assert.Equal(t, "Bank", c.Title)

	_, part, ok = snap.Lookup("55110")
	require.True(t, ok)
	assert.Equal(t, reconcile.PartitionMatched, part)

	_, _, ok = snap.Lookup("99999")
	assert.False(t, ok)

	assert.Len(t, snap.Partition(reconcile.PartitionSurplus), 1)
	assert.Nil(t, snap.Partition("other"))
}

func TestSnapshot_Meta(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	res, err := reconcile.Reconcile(
		[]models.ClassificationCode{code("01", "Pertanian Versi Portal", models.RiskUnclassified)},
		[]models.ClassificationCode{code("01112", "Padi", models.RiskLow)},
		nil,
	)
	require.NoError(t, err)

	snap := New(res, Meta{ID: "fixed", CreatedAt: time.Date(2024, 1, 1, 7, 0, 0, 0, wib)})
	assert.Equal(t, "fixed", snap.ID())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), snap.Meta().CreatedAt)
	assert.Equal(t, time.UTC, snap.Meta().PortalFetchedAt.Location())

	assert.Equal(t, "Pertanian Versi Portal", snap.SectorTitle("01"))
	assert.Equal(t, "Penyediaan Akomodasi", snap.SectorTitle("55"))
	assert.Equal(t, "", snap.SectorTitle("00"))
}

func TestStore_Swap(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Current())

	_, err := store.Swap(nil)
	assert.ErrorIs(t, err, ErrNilSnapshot)

	first := buildSnapshot(t, []models.ClassificationCode{code("01112", "Padi", models.RiskLow)}, []models.ClassificationCode{code("01112", "Padi", models.RiskLow)})
	second := buildSnapshot(t, []models.ClassificationCode{code("01115", "Tembakau", models.RiskLow)}, []models.ClassificationCode{code("01115", "Tembakau", models.RiskLow)})

	old, err := store.Swap(first)
	require.NoError(t, err)
	assert.Nil(t, old)
	assert.Nil(t, store.Previous())

	old, err = store.Swap(second)
	require.NoError(t, err)
	assert.Same(t, first, old)
	assert.Same(t, second, store.Current())
	assert.Same(t, first, store.Previous())
}

func TestStore_ConcurrentReaders(t *testing.T) {
	store := NewStore()
	snaps := make([]*Snapshot, 0, 20)
	for i := 0; i < 20; i++ {
		c := code("0111"+string(rune('0'+i%10)), "Padi", models.RiskLow)
		snaps = append(snaps, buildSnapshot(t, []models.ClassificationCode{c}, []models.ClassificationCode{c}))
	}
	_, err := store.Swap(snaps[0])
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := store.Current()
				// A reader always sees a complete snapshot.
				if s == nil || s.Len() != 1 || s.Summary().TotalCodes != 1 {
					t.Error("observed an incomplete snapshot")
					return
				}
			}
		}()
	}

	for _, s := range snaps[1:] {
		_, err := store.Swap(s)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	assert.Same(t, snaps[len(snaps)-1], store.Current())
}

func TestDiff(t *testing.T) {
	before := buildSnapshot(t,
		[]models.ClassificationCode{code("01112", "Padi", models.RiskLow), code("55110", "Hotel", models.RiskMedium)},
		[]models.ClassificationCode{code("64110", "Bank", models.RiskHigh)},
	)
	after := buildSnapshot(t,
		[]models.ClassificationCode{code("55110", "Hotel", models.RiskMedium), code("66142", "Asuransi", models.RiskLow)},
		[]models.ClassificationCode{code("55110", "Hotel", models.RiskHigh), code("64110", "Bank", models.RiskHigh)},
	)

	d := Diff(before, after)
	assert.Equal(t, before.ID(), d.FromID)
	assert.Equal(t, after.ID(), d.ToID)
	assert.Equal(t, []string{"66142"}, d.Added)
	assert.Equal(t, []string{"01112"}, d.Removed)
	assert.Equal(t, []Change{
		{Code: "55110", Fields: []string{"partition", "riskLevel", "sourceConflicts"}},
	}, d.Changed)
	assert.False(t, d.Empty())

	assert.True(t, Diff(after, after).Empty())

	initial := Diff(nil, after)
	assert.Equal(t, []string{"55110", "64110", "66142"}, initial.Added)
	assert.Empty(t, initial.FromID)
}
