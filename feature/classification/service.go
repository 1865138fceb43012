package classification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"kbli-registry/core/events"
	"kbli-registry/core/metrics"
	"kbli-registry/core/storage"
	"kbli-registry/feature/classification/archive"
	"kbli-registry/feature/classification/export"
	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/normalize"
	"kbli-registry/feature/classification/query"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/registry"
	"kbli-registry/feature/classification/source"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	// ErrNoSnapshot is returned by reads before the first successful pass.
	ErrNoSnapshot = errors.New("no registry snapshot available yet")
	// ErrCodeNotFound is returned when a code is in neither source.
	ErrCodeNotFound = errors.New("classification code not found")
	// ErrNoStorage is returned when publishing without a storage client.
	ErrNoStorage = errors.New("object storage is not configured")
	// ErrNoArchive is returned when history is requested without a database.
	ErrNoArchive = errors.New("snapshot archive is not configured")
)

// Dependencies are the collaborators of the service. Every field except
// Logger is optional.
type Dependencies struct {
	Client    storage.Client
	Bucket    string
	DB        *gorm.DB
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service runs reconciliation passes and answers registry queries.
type Service struct {
	cfg        Config
	sources    source.Config
	loader     *source.Loader
	normalizer *normalize.Normalizer
	policy     reconcile.Policy
	store      *registry.Store
	archive    *archive.Archive
	publisher  events.Publisher
	metrics    *metrics.Metrics
	client     storage.Client
	bucket     string
	logger     *zap.Logger
	sf         singleflight.Group
}

// PassReport describes one reconciliation pass.
type PassReport struct {
	SnapshotID  string                `json:"snapshotId"`
	Summary     reconcile.Summary     `json:"summary"`
	ParseErrors []source.ParseError   `json:"parseErrors"`
	Anomalies   []normalize.Anomaly   `json:"anomalies"`
	Archived    bool                  `json:"archived"`
	Published   []string              `json:"published,omitempty"`
	Delta       *registry.Delta       `json:"delta,omitempty"`
	Sources     map[string]SourceInfo `json:"sources"`
}

// SourceInfo describes the batch a source was read from.
type SourceInfo struct {
	Location  string    `json:"location"`
	FetchedAt time.Time `json:"fetchedAt"`
	Rows      int       `json:"rows"`
	Records   int       `json:"records"`
}

// SnapshotEvent is published after every successful swap.
type SnapshotEvent struct {
	SnapshotID string            `json:"snapshotId"`
	CreatedAt  time.Time         `json:"createdAt"`
	Digest     string            `json:"digest"`
	Summary    reconcile.Summary `json:"summary"`
}

// SummaryView is the summary of the current snapshot.
type SummaryView struct {
	SnapshotID          string            `json:"snapshotId"`
	CreatedAt           time.Time         `json:"createdAt"`
	PortalFetchedAt     time.Time         `json:"portalFetchedAt"`
	RegulationFetchedAt time.Time         `json:"regulationFetchedAt"`
	Summary             reconcile.Summary `json:"summary"`
}

// CodeView is one code with the partition it belongs to.
type CodeView struct {
	models.ClassificationCode
	Partition reconcile.Partition `json:"partition"`
}

// SectorView is a sector aggregate with its title.
type SectorView struct {
	reconcile.SectorCount
	Title string `json:"title"`
}

// NewService creates the registry service. The precedence policy is loaded
// from cfg.PolicyPath when set.
func NewService(cfg Config, sources source.Config, deps Dependencies) (*Service, error) {
	policy, err := reconcile.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}

	s := &Service{
		cfg:        cfg,
		sources:    sources,
		loader:     source.NewLoader(sources, deps.Client, deps.Bucket),
		normalizer: normalize.New(logger),
		policy:     policy,
		store:      registry.NewStore(),
		publisher:  publisher,
		metrics:    deps.Metrics,
		client:     deps.Client,
		bucket:     deps.Bucket,
		logger:     logger,
	}
	if deps.DB != nil && cfg.ArchiveEnabled {
		s.archive = archive.New(deps.DB)
	}
	return s, nil
}

// Current returns the snapshot queries are answered from.
func (s *Service) Current() *registry.Snapshot {
	return s.store.Current()
}

// Archive returns the snapshot archive, or nil without a database.
func (s *Service) Archive() *archive.Archive {
	return s.archive
}

// Sources returns the source configuration.
func (s *Service) Sources() source.Config {
	return s.sources
}

// Refresh runs one reconciliation pass. Concurrent callers share the pass in
// flight instead of starting another.
func (s *Service) Refresh(ctx context.Context) (*PassReport, error) {
	v, err, shared := s.sf.Do("refresh", func() (any, error) {
		return s.pass(ctx)
	})
	if shared {
		s.logger.Debug("Joined reconciliation pass in flight")
	}
	if err != nil {
		return nil, err
	}
	return v.(*PassReport), nil
}

type sourceRun struct {
	info      SourceInfo
	codes     []models.ClassificationCode
	parseErrs []source.ParseError
	anomalies []normalize.Anomaly
}

func (s *Service) pass(ctx context.Context) (*PassReport, error) {
	started := time.Now()

	runs := make([]sourceRun, len(models.Sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range models.Sources {
		g.Go(func() error {
			run, err := s.runSource(gctx, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.observe(metrics.OutcomeFailure, started)
		s.logger.Error("Reconciliation pass failed", zap.Error(err))
		return nil, err
	}
	portal, regulation := runs[0], runs[1]

	result, err := reconcile.Reconcile(portal.codes, regulation.codes, s.policy)
	if err != nil {
		s.observe(metrics.OutcomeFailure, started)
		s.logger.Error("Reconciliation rejected its input", zap.Error(err))
		return nil, err
	}

	snap := registry.New(result, registry.Meta{
		PortalFetchedAt:     portal.info.FetchedAt,
		RegulationFetchedAt: regulation.info.FetchedAt,
	})
	previous, err := s.store.Swap(snap)
	if err != nil {
		s.observe(metrics.OutcomeFailure, started)
		return nil, err
	}
	s.observe(metrics.OutcomeSuccess, started)
	s.setPartitions(result.Summary)

	delta := registry.Diff(previous, snap)
	report := &PassReport{
		SnapshotID:  snap.ID(),
		Summary:     result.Summary,
		ParseErrors: append(portal.parseErrs, regulation.parseErrs...),
		Anomalies:   append(portal.anomalies, regulation.anomalies...),
		Delta:       &delta,
		Sources: map[string]SourceInfo{
			string(models.SourcePortal):     portal.info,
			string(models.SourceRegulation): regulation.info,
		},
	}
	if report.ParseErrors == nil {
		report.ParseErrors = []source.ParseError{}
	}
	if report.Anomalies == nil {
		report.Anomalies = []normalize.Anomaly{}
	}

	s.logger.Info("Reconciliation pass completed",
		zap.String("snapshot", snap.ID()),
		zap.Int("matched", result.Summary.Matched),
		zap.Int("surplus", result.Summary.Surplus),
		zap.Int("deficit", result.Summary.Deficit),
		zap.Int("conflicts", result.Summary.Conflicts),
		zap.Int("parse_errors", len(report.ParseErrors)),
		zap.Int("anomalies", len(report.Anomalies)),
		zap.Duration("duration", time.Since(started)))

	report.Archived = s.archiveSnapshot(ctx, snap)
	s.announce(ctx, snap)

	return report, nil
}

func (s *Service) runSource(ctx context.Context, id models.SourceID) (sourceRun, error) {
	batch, err := s.loader.Load(ctx, id)
	if err != nil {
		return sourceRun{}, err
	}

	snapshot, parseErrs := source.ForSource(id).ParseBatch(batch)
	for _, pe := range parseErrs {
		s.logger.Warn("Rejected source row",
			zap.String("source", string(pe.Source)),
			zap.Int("row", pe.Row),
			zap.String("code", pe.Code),
			zap.String("reason", pe.Reason))
	}

	codes, anomalies := s.normalizer.Normalize(snapshot.Records, id)

	if s.metrics != nil {
		s.metrics.ParseErrors.WithLabelValues(string(id)).Add(float64(len(parseErrs)))
		s.metrics.Anomalies.WithLabelValues(string(id)).Add(float64(len(anomalies)))
	}

	return sourceRun{
		info: SourceInfo{
			Location:  batch.Location,
			FetchedAt: snapshot.FetchedAt,
			Rows:      len(batch.Rows),
			Records:   len(snapshot.Records),
		},
		codes:     codes,
		parseErrs: parseErrs,
		anomalies: anomalies,
	}, nil
}

func (s *Service) observe(outcome string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObservePass(outcome, started)
	}
}

func (s *Service) setPartitions(sum reconcile.Summary) {
	if s.metrics != nil {
		s.metrics.SetPartitions(sum.Matched, sum.Surplus, sum.Deficit, sum.Conflicts)
	}
}

// archiveSnapshot persists snap. Failures are logged; the swapped snapshot
// stays current either way.
func (s *Service) archiveSnapshot(ctx context.Context, snap *registry.Snapshot) bool {
	if s.archive == nil {
		return false
	}
	_, saved, err := s.archive.Save(ctx, snap)
	if err != nil {
		s.logger.Warn("Failed to archive snapshot", zap.String("snapshot", snap.ID()), zap.Error(err))
		return false
	}
	return saved
}

func (s *Service) announce(ctx context.Context, snap *registry.Snapshot) {
	digest, err := export.ContentDigest(snap)
	if err != nil {
		s.logger.Warn("Failed to digest snapshot", zap.Error(err))
		return
	}
	event := SnapshotEvent{
		SnapshotID: snap.ID(),
		CreatedAt:  snap.Meta().CreatedAt,
		Digest:     digest,
		Summary:    snap.Summary(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish snapshot event", zap.String("snapshot", snap.ID()), zap.Error(err))
	}
}

// Restore loads the newest archived snapshot when nothing is served yet.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	if s.archive == nil || s.store.Current() != nil {
		return false, nil
	}
	if err := s.archive.Migrate(ctx); err != nil {
		return false, err
	}
	snap, err := s.archive.Latest(ctx)
	if err != nil || snap == nil {
		return false, err
	}
	if _, err := s.store.Swap(snap); err != nil {
		return false, err
	}
	s.setPartitions(snap.Summary())
	s.logger.Info("Restored archived snapshot",
		zap.String("snapshot", snap.ID()),
		zap.Time("created_at", snap.Meta().CreatedAt),
		zap.Int("codes", snap.Len()))
	return true, nil
}

// Watch refreshes the registry whenever the inbox directory changes. It
// returns immediately when no inbox is configured.
func (s *Service) Watch(ctx context.Context) error {
	if s.sources.WatchDir == "" {
		return nil
	}
	w := source.NewWatcher(s.sources, s.logger, func(ctx context.Context) {
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn("Inbox refresh failed", zap.Error(err))
		}
	})
	return w.Run(ctx)
}

func (s *Service) snapshot() (*registry.Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Query filters the current registry. Without a limit every match is
// returned; explicit limits are capped.
func (s *Service) Query(params map[string]string) (query.Page, error) {
	filter, err := query.ParseFilter(params)
	if err != nil {
		return query.Page{}, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return query.Page{}, err
	}

	if s.cfg.MaxPageSize > 0 && filter.Limit > s.cfg.MaxPageSize {
		filter.Limit = s.cfg.MaxPageSize
	}
	return query.Run(snap, filter), nil
}

// Lookup returns one code of the current registry.
func (s *Service) Lookup(code string) (*CodeView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	c, p, ok := snap.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, code)
	}
	return &CodeView{ClassificationCode: c, Partition: p}, nil
}

// Summary returns the aggregates of the current registry.
func (s *Service) Summary() (*SummaryView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	meta := snap.Meta()
	return &SummaryView{
		SnapshotID:          meta.ID,
		CreatedAt:           meta.CreatedAt,
		PortalFetchedAt:     meta.PortalFetchedAt,
		RegulationFetchedAt: meta.RegulationFetchedAt,
		Summary:             snap.Summary(),
	}, nil
}

// Conflicts returns the matched codes whose sources disagree.
func (s *Service) Conflicts() ([]models.ClassificationCode, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]models.ClassificationCode, 0, len(snap.Result().Conflicts))
	for _, code := range snap.Result().Conflicts {
		c, _, _ := snap.Lookup(code)
		out = append(out, c)
	}
	return out, nil
}

// Sectors returns the per-sector aggregates with division titles.
func (s *Service) Sectors() ([]SectorView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	sectors := snap.Summary().Sectors
	out := make([]SectorView, 0, len(sectors))
	for _, sc := range sectors {
		out = append(out, SectorView{SectorCount: sc, Title: snap.SectorTitle(sc.Sector)})
	}
	return out, nil
}

// Diff compares the current snapshot with the one it replaced.
func (s *Service) Diff() (registry.Delta, error) {
	snap, err := s.snapshot()
	if err != nil {
		return registry.Delta{}, err
	}
	return registry.Diff(s.store.Previous(), snap), nil
}

// History lists archived snapshots, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]archive.SnapshotRecord, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.List(ctx, limit)
}

// ExportUnified returns the canonical unified document of the current registry.
func (s *Service) ExportUnified() ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return export.EncodeUnified(snap)
}

// Report returns the sector-grouped report of a partition.
func (s *Service) Report(p reconcile.Partition) (export.Report, error) {
	snap, err := s.snapshot()
	if err != nil {
		return export.Report{}, err
	}
	return export.BuildReport(snap, p), nil
}

// PublishExports uploads the unified document and the surplus and deficit
// reports under <prefix>/<snapshot-id>/. It returns the object names written.
func (s *Service) PublishExports(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}

	unified, err := export.EncodeUnified(snap)
	if err != nil {
		return nil, err
	}
	var surplus, deficit bytes.Buffer
	if err := export.Surplus(snap).WriteCSV(&surplus); err != nil {
		return nil, err
	}
	if err := export.Deficit(snap).WriteCSV(&deficit); err != nil {
		return nil, err
	}

	objects := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{"unified.json", unified, "application/json"},
		{"surplus.csv", surplus.Bytes(), "text/csv"},
		{"deficit.csv", deficit.Bytes(), "text/csv"},
	}

	written := make([]string, 0, len(objects))
	for _, obj := range objects {
		name := path.Join(s.cfg.ExportPrefix, snap.ID(), obj.name)
		_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(obj.data), int64(len(obj.data)),
			minio.PutObjectOptions{ContentType: obj.contentType})
		if err != nil {
			return written, fmt.Errorf("upload %s: %w", name, err)
		}
		written = append(written, name)
	}

	s.logger.Info("Published exports", zap.String("snapshot", snap.ID()), zap.Strings("objects", written))
	return written, nil
}
