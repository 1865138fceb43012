package classification

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"kbli-registry/core/database"
	"kbli-registry/core/events/mocks"
	"kbli-registry/core/metrics"
	storagemocks "kbli-registry/core/storage/mocks"
	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/query"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/source"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const portalCSV = `Kode KBLI,Judul KBLI,Tingkat Risiko,Status PMA
01112,Pertanian Jagung,Rendah,Terbuka
55110,Hotel Bintang,Menengah Tinggi,Terbuka
64110,Bank Sentral,Tinggi,Tertutup
`

const regulationCSV = `KBLI,Uraian KBLI,Tingkat Risiko,PMA
55110,Hotel Bintang,Tinggi,Terbuka
64110,Bank Sentral,Tinggi,Tertutup
66142,Perusahaan Modal Ventura,Tinggi,Terbuka
`

func testConfig() Config {
	return Config{Enabled: true, MaxPageSize: 500, ArchiveEnabled: true, ExportPrefix: "exports"}
}

func writeSources(t *testing.T, portal, regulation string) source.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := source.Config{
		PortalPath:     filepath.Join(dir, "portal.csv"),
		RegulationPath: filepath.Join(dir, "regulation.csv"),
		Origin:         source.OriginFile,
	}
	require.NoError(t, os.WriteFile(cfg.PortalPath, []byte(portal), 0o644))
	require.NoError(t, os.WriteFile(cfg.RegulationPath, []byte(regulation), 0o644))
	return cfg
}

func newTestService(t *testing.T, cfg Config, sources source.Config, deps Dependencies) *Service {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	svc, err := NewService(cfg, sources, deps)
	require.NoError(t, err)
	return svc
}

func TestNewService_InvalidPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.PolicyPath = "/nonexistent/policy.yaml"
	svc, err := NewService(cfg, source.Config{}, Dependencies{})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestService_ReadsBeforeFirstPass(t *testing.T) {
	svc := newTestService(t, testConfig(), source.Config{}, Dependencies{})

	_, err := svc.Summary()
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.Query(nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.Lookup("01112")
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.Diff()
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.ExportUnified()
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.History(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoArchive)
}

func TestService_Refresh(t *testing.T) {
	m := metrics.New()
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{Metrics: m})

	report, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Matched)
	assert.Equal(t, 1, report.Summary.Surplus)
	assert.Equal(t, 1, report.Summary.Deficit)
	assert.Equal(t, 1, report.Summary.Conflicts)
	assert.Equal(t, 4, report.Summary.TotalCodes)
	assert.Empty(t, report.ParseErrors)
	assert.Empty(t, report.Anomalies)
	assert.False(t, report.Archived)
	assert.Equal(t, 3, report.Sources["Portal"].Records)
	require.NotNil(t, report.Delta)
	assert.Len(t, report.Delta.Added, 4)

	view, err := svc.Lookup("55110")
	require.NoError(t, err)
	assert.Equal(t, reconcile.PartitionMatched, view.Partition)
	assert.Equal(t, models.RiskHigh, view.RiskLevel)
	assert.Equal(t, models.FieldConflict{Portal: "Medium", Regulation: "High"}, view.SourceConflicts[models.FieldRiskLevel])

	_, err = svc.Lookup("99999")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	conflicts, err := svc.Conflicts()
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "55110", conflicts[0].Code)

	sectors, err := svc.Sectors()
	require.NoError(t, err)
	require.Len(t, sectors, 4)
	assert.Equal(t, "01", sectors[0].Sector)
	assert.NotEmpty(t, sectors[0].Title)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Codes.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts))
}

func TestService_QueryPaging(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPageSize = 2
	svc := newTestService(t, cfg, writeSources(t, portalCSV, regulationCSV), Dependencies{})
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	// No filter and no limit returns the whole registry, past the cap.
	page, err := svc.Query(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Limit)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 4)
	assert.Equal(t, svc.Current().All(), page.Items)

	page, err = svc.Query(map[string]string{"limit": "10"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Limit, "explicit limit is capped")
	assert.Len(t, page.Items, 2)

	page, err = svc.Query(map[string]string{"riskLevel": "High", "limit": "1", "offset": "1"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "64110", page.Items[0].Code)

	_, err = svc.Query(map[string]string{"colour": "red"})
	var vErr *query.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestService_FailedPassKeepsSnapshot(t *testing.T) {
	m := metrics.New()
	sources := writeSources(t, portalCSV, regulationCSV)
	svc := newTestService(t, testConfig(), sources, Dependencies{Metrics: m})

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	// A duplicated code rejects the whole pass.
	require.NoError(t, os.WriteFile(sources.PortalPath, []byte(portalCSV+"01112,Pertanian Jagung Lagi,Rendah,Terbuka\n"), 0o644))
	_, err = svc.Refresh(context.Background())
	var inputErr *reconcile.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, []string{"01112"}, inputErr.Codes)
	assert.Equal(t, first.SnapshotID, svc.Current().ID())

	require.NoError(t, os.Remove(sources.RegulationPath))
	_, err = svc.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, first.SnapshotID, svc.Current().ID())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Passes.WithLabelValues(metrics.OutcomeFailure)))
}

func TestService_ParseErrorsAndAnomalies(t *testing.T) {
	portal := portalCSV + "ABC,Kode Rusak,Rendah,Terbuka\n47111,Minimarket,Sangat Aneh,Terbuka\n"
	m := metrics.New()
	svc := newTestService(t, testConfig(), writeSources(t, portal, regulationCSV), Dependencies{Metrics: m})

	report, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, report.ParseErrors, 1)
	assert.Equal(t, models.SourcePortal, report.ParseErrors[0].Source)
	require.Len(t, report.Anomalies, 1)
	assert.Equal(t, "47111", report.Anomalies[0].Code)
	assert.Equal(t, 2, report.Summary.Surplus)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParseErrors.WithLabelValues("Portal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Anomalies.WithLabelValues("Portal")))
}

func TestService_Diff(t *testing.T) {
	sources := writeSources(t, portalCSV, regulationCSV)
	svc := newTestService(t, testConfig(), sources, Dependencies{})
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(sources.RegulationPath, []byte(regulationCSV+"01112,Pertanian Jagung,Rendah,Terbuka\n"), 0o644))
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	delta, err := svc.Diff()
	require.NoError(t, err)
	assert.Empty(t, delta.Added)
	assert.Empty(t, delta.Removed)
	require.Len(t, delta.Changed, 1)
	assert.Equal(t, "01112", delta.Changed[0].Code)
	assert.Contains(t, delta.Changed[0].Fields, "partition")
}

func TestService_ConcurrentRefresh(t *testing.T) {
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 4, svc.Current().Len())
}

func TestService_PublishesEvent(t *testing.T) {
	pub := new(mocks.Publisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e SnapshotEvent) bool {
		return e.Summary.TotalCodes == 4 && len(e.Digest) == 64
	})).Return(errors.New("nats: no servers available")).Once()

	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{Publisher: pub})
	_, err := svc.Refresh(context.Background())
	assert.NoError(t, err, "event failures are not fatal")
	pub.AssertExpectations(t)
}

func TestService_ArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	sources := writeSources(t, portalCSV, regulationCSV)
	first := newTestService(t, testConfig(), sources, Dependencies{DB: db})
	require.NotNil(t, first.Archive())
	require.NoError(t, first.Archive().Migrate(ctx))

	report, err := first.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, report.Archived)

	history, err := first.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, report.SnapshotID, history[0].ID)

	restarted := newTestService(t, testConfig(), sources, Dependencies{DB: db})
	restored, err := restarted.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, report.SnapshotID, restarted.Current().ID())

	want, err := first.ExportUnified()
	require.NoError(t, err)
	got, err := restarted.ExportUnified()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	restored, err = restarted.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored, "nothing to restore once a snapshot is served")
}

func TestService_ArchiveDisabled(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.ArchiveEnabled = false
	svc := newTestService(t, cfg, source.Config{}, Dependencies{DB: db})
	assert.Nil(t, svc.Archive())

	restored, err := svc.Restore(context.Background())
	assert.NoError(t, err)
	assert.False(t, restored)
}

func TestService_PublishExports(t *testing.T) {
	ctx := context.Background()
	client := new(storagemocks.Client)
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{Client: client, Bucket: "registry"})

	_, err := svc.PublishExports(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	report, err := svc.Refresh(ctx)
	require.NoError(t, err)

	client.On("BucketExists", mock.Anything, "registry").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "registry", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "registry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	written, err := svc.PublishExports(ctx)
	require.NoError(t, err)
	prefix := "exports/" + report.SnapshotID + "/"
	assert.Equal(t, []string{prefix + "unified.json", prefix + "surplus.csv", prefix + "deficit.csv"}, written)
	client.AssertNumberOfCalls(t, "PutObject", 3)
	client.AssertCalled(t, "MakeBucket", mock.Anything, "registry", mock.Anything)
}

func TestService_PublishExportsUploadFails(t *testing.T) {
	ctx := context.Background()
	client := new(storagemocks.Client)
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{Client: client, Bucket: "registry"})
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
	client.On("PutObject", mock.Anything, "registry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	written, err := svc.PublishExports(ctx)
	assert.ErrorContains(t, err, "access denied")
	assert.Empty(t, written)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PublishExportsWithoutStorage(t *testing.T) {
	svc := newTestService(t, testConfig(), source.Config{}, Dependencies{})
	_, err := svc.PublishExports(context.Background())
	assert.ErrorIs(t, err, ErrNoStorage)
}

func TestService_WatchWithoutInbox(t *testing.T) {
	svc := newTestService(t, testConfig(), source.Config{}, Dependencies{})
	assert.NoError(t, svc.Watch(context.Background()))
}
