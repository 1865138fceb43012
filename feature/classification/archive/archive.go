package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kbli-registry/feature/classification/export"
	"kbli-registry/feature/classification/registry"

	"gorm.io/gorm"
)

// TableName is the table holding archived snapshots.
const TableName = "registry_snapshots"

// ErrNotFound is returned when no archived snapshot has the requested id.
var ErrNotFound = errors.New("snapshot not found in archive")

// SnapshotRecord is one archived snapshot. Document holds the canonical
// unified export the snapshot is rebuilt from.
type SnapshotRecord struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `gorm:"column:created_at;index" json:"createdAt"`
	Digest     string    `gorm:"column:digest;size:64;index" json:"digest"`
	TotalCodes int       `gorm:"column:total_codes" json:"totalCodes"`
	Matched    int       `gorm:"column:matched" json:"matched"`
	Surplus    int       `gorm:"column:surplus" json:"surplus"`
	Deficit    int       `gorm:"column:deficit" json:"deficit"`
	Conflicts  int       `gorm:"column:conflicts" json:"conflicts"`
	Document   string    `gorm:"column:document;type:longtext" json:"-"`
}

// TableName implements gorm's Tabler.
func (SnapshotRecord) TableName() string {
	return TableName
}

// Columns lists the columns the archive table must carry.
var Columns = []string{"id", "created_at", "digest", "total_codes", "matched", "surplus", "deficit", "conflicts", "document"}

// Archive persists snapshots so a restarted service can serve the last
// registry before its first pass completes.
type Archive struct {
	db *gorm.DB
}

// New creates an archive over db.
func New(db *gorm.DB) *Archive {
	return &Archive{db: db}
}

// Migrate creates or updates the archive table.
func (a *Archive) Migrate(ctx context.Context) error {
	if err := a.db.WithContext(ctx).AutoMigrate(&SnapshotRecord{}); err != nil {
		return fmt.Errorf("migrate %s: %w", TableName, err)
	}
	return nil
}

// Save archives snap unless the newest archived snapshot has the same
// content digest. It reports whether a row was written.
func (a *Archive) Save(ctx context.Context, snap *registry.Snapshot) (*SnapshotRecord, bool, error) {
	digest, err := export.ContentDigest(snap)
	if err != nil {
		return nil, false, err
	}

	latest, err := a.latestRecord(ctx, false)
	if err != nil {
		return nil, false, err
	}
	if latest != nil && latest.Digest == digest {
		return latest, false, nil
	}

	doc, err := export.EncodeUnified(snap)
	if err != nil {
		return nil, false, err
	}

	summary := snap.Summary()
	rec := &SnapshotRecord{
		ID:         snap.ID(),
		CreatedAt:  snap.Meta().CreatedAt,
		Digest:     digest,
		TotalCodes: summary.TotalCodes,
		Matched:    summary.Matched,
		Surplus:    summary.Surplus,
		Deficit:    summary.Deficit,
		Conflicts:  summary.Conflicts,
		Document:   string(doc),
	}
	if err := a.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, false, fmt.Errorf("archive snapshot %s: %w", rec.ID, err)
	}
	return rec, true, nil
}

// Latest rebuilds the newest archived snapshot. It returns nil when the
// archive is empty.
func (a *Archive) Latest(ctx context.Context) (*registry.Snapshot, error) {
	rec, err := a.latestRecord(ctx, true)
	if err != nil || rec == nil {
		return nil, err
	}
	return decode(rec)
}

// Get rebuilds the archived snapshot with the given id.
func (a *Archive) Get(ctx context.Context, id string) (*registry.Snapshot, error) {
	var rec SnapshotRecord
	err := a.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	return decode(&rec)
}

// List returns archived snapshot headers, newest first, without documents.
func (a *Archive) List(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	q := a.db.WithContext(ctx).
		Select("id", "created_at", "digest", "total_codes", "matched", "surplus", "deficit", "conflicts").
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []SnapshotRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return records, nil
}

func (a *Archive) latestRecord(ctx context.Context, withDocument bool) (*SnapshotRecord, error) {
	q := a.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if !withDocument {
		q = q.Omit("document")
	}

	var rec SnapshotRecord
	err := q.Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	return &rec, nil
}

func decode(rec *SnapshotRecord) (*registry.Snapshot, error) {
	snap, err := export.DecodeUnified([]byte(rec.Document))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", rec.ID, err)
	}
	return snap, nil
}
