package registry

import (
	"sort"
	"time"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"

	"github.com/google/uuid"
)

// Meta identifies a snapshot and the source captures behind it.
type Meta struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"createdAt"`
	PortalFetchedAt     time.Time `json:"portalFetchedAt"`
	RegulationFetchedAt time.Time `json:"regulationFetchedAt"`
}

type ref struct {
	partition reconcile.Partition
	idx       int
}

// Snapshot is an immutable, served view of one reconciliation result.
// It is safe for concurrent readers; nothing mutates it after New returns.
type Snapshot struct {
	meta   Meta
	result *reconcile.Result
	index  map[string]ref
	all    []models.ClassificationCode
	titles map[string]string
}

// New wraps a result. A missing ID or creation time is generated.
func New(result *reconcile.Result, meta Meta) *Snapshot {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	// Round(0) strips the monotonic clock reading.
	meta.CreatedAt = meta.CreatedAt.Round(0).UTC()
	meta.PortalFetchedAt = meta.PortalFetchedAt.Round(0).UTC()
	meta.RegulationFetchedAt = meta.RegulationFetchedAt.Round(0).UTC()

	total := len(result.Matched) + len(result.Surplus) + len(result.Deficit)
	s := &Snapshot{
		meta:   meta,
		result: result,
		index:  make(map[string]ref, total),
		all:    make([]models.ClassificationCode, 0, total),
		titles: make(map[string]string),
	}

	for _, part := range []struct {
		name  reconcile.Partition
		items []models.ClassificationCode
	}{
		{reconcile.PartitionMatched, result.Matched},
		{reconcile.PartitionSurplus, result.Surplus},
		{reconcile.PartitionDeficit, result.Deficit},
	} {
		for i, c := range part.items {
			s.index[c.Code] = ref{partition: part.name, idx: i}
			s.all = append(s.all, c)
			if len(c.Code) == 2 && c.Title != "" {
				s.titles[c.Code] = c.Title
			}
		}
	}
	sort.Slice(s.all, func(i, j int) bool { return s.all[i].Code < s.all[j].Code })

	return s
}

// Meta returns the snapshot identity.
func (s *Snapshot) Meta() Meta { return s.meta }

// ID returns the snapshot id.
func (s *Snapshot) ID() string { return s.meta.ID }

// Result returns the reconciliation result the snapshot serves.
func (s *Snapshot) Result() *reconcile.Result { return s.result }

// Summary returns the aggregate counts.
func (s *Snapshot) Summary() reconcile.Summary { return s.result.Summary }

// All returns every entry ordered by code. Callers must not modify it.
func (s *Snapshot) All() []models.ClassificationCode { return s.all }

// Len returns the number of distinct codes.
func (s *Snapshot) Len() int { return len(s.all) }

// Partition returns the entries of one partition ordered by code.
func (s *Snapshot) Partition(p reconcile.Partition) []models.ClassificationCode {
	switch p {
	case reconcile.PartitionMatched:
		return s.result.Matched
	case reconcile.PartitionSurplus:
		return s.result.Surplus
	case reconcile.PartitionDeficit:
		return s.result.Deficit
	}
	return nil
}

// Lookup finds a code and the partition it belongs to.
func (s *Snapshot) Lookup(code string) (models.ClassificationCode, reconcile.Partition, bool) {
	r, ok := s.index[code]
	if !ok {
		return models.ClassificationCode{}, "", false
	}
	return s.Partition(r.partition)[r.idx], r.partition, true
}

// SectorTitle names a sector, preferring a 2-digit row in the snapshot over
// the built-in division list.
func (s *Snapshot) SectorTitle(sector string) string {
	if t, ok := s.titles[sector]; ok {
		return t
	}
	return DivisionTitle(sector)
}
