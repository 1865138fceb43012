package classification

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"kbli-registry/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, refresh bool) (*fiber.App, *Service, *mocks.Client) {
	app := fiber.New()
	client := new(mocks.Client)
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, regulationCSV), Dependencies{Client: client, Bucket: "registry"})
	if refresh {
		_, err := svc.Refresh(t.Context())
		require.NoError(t, err)
	}
	NewHandler(svc).RegisterRoutes(app)
	return app, svc, client
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHandler_NoSnapshot(t *testing.T) {
	app, _, _ := setupTestApp(t, false)

	for _, target := range []string{"/registry/summary", "/registry/codes", "/registry/codes/01112", "/registry/diff", "/export/unified", "/export/surplus"} {
		status, body := doRequest(t, app, "GET", target)
		assert.Equal(t, fiber.StatusServiceUnavailable, status, target)
		assert.Contains(t, string(body), "no registry snapshot", target)
	}
}

func TestHandleSummary(t *testing.T) {
	app, svc, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/registry/summary")
	require.Equal(t, 200, status)

	var view SummaryView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, svc.Current().ID(), view.SnapshotID)
	assert.Equal(t, 4, view.Summary.TotalCodes)
	assert.Equal(t, 1, view.Summary.Conflicts)
}

func TestHandleQuery(t *testing.T) {
	app, _, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/registry/codes?sector=64")
	require.Equal(t, 200, status)
	var page struct {
		Items []struct {
			Code string `json:"code"`
		} `json:"items"`
		Total int `json:"total"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 0, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "64110", page.Items[0].Code)

	status, body = doRequest(t, app, "GET", "/registry/codes?colour=red")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "unknown filter field")

	status, _ = doRequest(t, app, "GET", "/registry/codes?riskLevel=Severe")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleLookup(t *testing.T) {
	app, _, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/registry/codes/66142")
	require.Equal(t, 200, status)
	var view map[string]any
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "deficit", view["partition"])
	assert.Equal(t, []any{"Regulation"}, view["provenance"])

	status, _ = doRequest(t, app, "GET", "/registry/codes/99999")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleConflictsAndSectors(t *testing.T) {
	app, _, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/registry/conflicts")
	require.Equal(t, 200, status)
	var conflicts []map[string]any
	require.NoError(t, json.Unmarshal(body, &conflicts))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "55110", conflicts[0]["code"])

	status, body = doRequest(t, app, "GET", "/registry/sectors")
	require.Equal(t, 200, status)
	var sectors []map[string]any
	require.NoError(t, json.Unmarshal(body, &sectors))
	assert.Len(t, sectors, 4)
	assert.Equal(t, "Penyediaan Akomodasi", sectors[1]["title"])
}

func TestHandleDiffAndHistory(t *testing.T) {
	app, _, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/registry/diff")
	require.Equal(t, 200, status)
	var delta map[string]any
	require.NoError(t, json.Unmarshal(body, &delta))
	assert.Len(t, delta["added"], 4)

	status, _ = doRequest(t, app, "GET", "/registry/history")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestHandleExports(t *testing.T) {
	app, svc, _ := setupTestApp(t, true)

	status, body := doRequest(t, app, "GET", "/export/unified")
	require.Equal(t, 200, status)
	want, err := svc.ExportUnified()
	require.NoError(t, err)
	assert.Equal(t, want, body)

	status, body = doRequest(t, app, "GET", "/export/surplus")
	require.Equal(t, 200, status)
	var report map[string]any
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "surplus", report["partition"])
	assert.Equal(t, 1.0, report["count"])
	assert.Equal(t, 25.0, report["percentOfTotal"])

	resp, err := app.Test(httptest.NewRequest("GET", "/export/deficit?format=csv", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv"))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="deficit.csv"`)
	csv, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "sector,sector_title,code,title,risk_level,pma_allowed\n"+
		"66,\"Aktivitas Penunjang Jasa Keuangan, Asuransi dan Dana Pensiun\",66142,Perusahaan Modal Ventura,High,true\n", string(csv))

	status, _ = doRequest(t, app, "GET", "/export/deficit?format=xml")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleReconcile(t *testing.T) {
	app, _, client := setupTestApp(t, false)

	status, body := doRequest(t, app, "POST", "/reconcile")
	require.Equal(t, 200, status)
	var report PassReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 4, report.Summary.TotalCodes)
	assert.Empty(t, report.Published)

	client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
	client.On("PutObject", mock.Anything, "registry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	status, body = doRequest(t, app, "POST", "/reconcile?publish=true")
	require.Equal(t, 200, status)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Len(t, report.Published, 3)
}

func TestHandleReconcile_InputRejected(t *testing.T) {
	app := fiber.New()
	svc := newTestService(t, testConfig(), writeSources(t, portalCSV, "KBLI,Uraian KBLI\n"), Dependencies{})
	NewHandler(svc).RegisterRoutes(app)

	status, body := doRequest(t, app, "POST", "/reconcile")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "empty catalog")
}
