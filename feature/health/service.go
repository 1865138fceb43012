package health

import (
	"context"
	"time"

	"kbli-registry/core/storage"
	"kbli-registry/feature/classification/registry"
	"kbli-registry/feature/classification/source"
	"kbli-registry/feature/health/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status values reported per component.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusDisabled = "disabled"
	StatusDegraded = "degraded"
)

// SnapshotStatus describes the snapshot being served.
type SnapshotStatus struct {
	Present    bool      `json:"present"`
	ID         string    `json:"id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	TotalCodes int       `json:"total_codes"`
}

// StorageStatus describes the bucket the sources and exports live in.
type StorageStatus struct {
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// DatabaseStatus describes the snapshot archive database.
type DatabaseStatus struct {
	Status string                `json:"status"`
	Table  *checks.ArchiveReport `json:"table,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Report is the combined health of the registry.
type Report struct {
	Status   string         `json:"status"`
	Snapshot SnapshotStatus `json:"snapshot"`
	Storage  StorageStatus  `json:"storage"`
	Database DatabaseStatus `json:"database"`
}

// Service handles health checks.
type Service struct {
	client       storage.Client
	bucket       string
	sources      source.Config
	exportPrefix string
	db           *gorm.DB
	current      func() *registry.Snapshot
	logger       *zap.Logger
}

// NewService creates a new health service. client and db may be nil when
// storage or the archive are not configured.
func NewService(client storage.Client, bucket string, sources source.Config, exportPrefix string, db *gorm.DB, current func() *registry.Snapshot, logger *zap.Logger) *Service {
	return &Service{
		client:       client,
		bucket:       bucket,
		sources:      sources,
		exportPrefix: exportPrefix,
		db:           db,
		current:      current,
		logger:       logger,
	}
}

// CheckSnapshot reports whether a snapshot is being served.
func (s *Service) CheckSnapshot() SnapshotStatus {
	snap := s.current()
	if snap == nil {
		return SnapshotStatus{}
	}
	meta := snap.Meta()
	return SnapshotStatus{
		Present:    true,
		ID:         meta.ID,
		CreatedAt:  meta.CreatedAt,
		TotalCodes: snap.Len(),
	}
}

// CheckSources returns the source objects missing from the bucket. Sources
// read from the local filesystem are not checked.
func (s *Service) CheckSources(ctx context.Context) ([]string, error) {
	if s.sources.Origin != source.OriginBucket {
		return []string{}, nil
	}
	return checks.CheckObjects(ctx, s.client, s.bucket, []string{s.sources.PortalPath, s.sources.RegulationPath})
}

// CheckExports returns the export folder when it holds no object yet.
func (s *Service) CheckExports(ctx context.Context) ([]string, error) {
	return checks.CheckPrefixes(ctx, s.client, s.bucket, []string{s.exportPrefix})
}

// FixExports creates the missing export folder.
func (s *Service) FixExports(ctx context.Context, missing []string) error {
	return checks.FixPrefixes(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckStorage combines the source and export checks.
func (s *Service) CheckStorage(ctx context.Context) StorageStatus {
	if s.client == nil {
		return StorageStatus{Status: StatusDisabled}
	}

	missing, err := s.CheckSources(ctx)
	if err != nil {
		return StorageStatus{Status: StatusError, Error: err.Error()}
	}
	exports, err := s.CheckExports(ctx)
	if err != nil {
		return StorageStatus{Status: StatusError, Error: err.Error()}
	}

	// An empty export folder is expected before the first publish.
	status := StorageStatus{Status: StatusOK, Missing: append(missing, exports...)}
	if len(missing) > 0 {
		status.Status = StatusError
	}
	return status
}

// CheckDatabase verifies the archive table.
func (s *Service) CheckDatabase() DatabaseStatus {
	if s.db == nil {
		return DatabaseStatus{Status: StatusDisabled}
	}
	report, err := checks.CheckArchive(s.db)
	if err != nil {
		return DatabaseStatus{Status: StatusError, Error: err.Error()}
	}
	return DatabaseStatus{Status: report.Status, Table: report}
}

// Check runs every check.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		Snapshot: s.CheckSnapshot(),
		Storage:  s.CheckStorage(ctx),
		Database: s.CheckDatabase(),
	}

	r.Status = StatusOK
	if r.Storage.Status == StatusError || r.Database.Status == StatusError {
		r.Status = StatusDegraded
	}
	if !r.Snapshot.Present {
		r.Status = StatusError
	}
	return r
}
