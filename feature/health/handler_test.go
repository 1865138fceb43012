package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"kbli-registry/core/storage/mocks"
	"kbli-registry/feature/classification/registry"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, snap *registry.Snapshot) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	client := new(mocks.Client)
	svc := NewService(client, "registry", bucketSources, "exports", nil, func() *registry.Snapshot { return snap }, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, client
}

func TestHandleHealth(t *testing.T) {
	t.Run("Not Ready", func(t *testing.T) {
		app, client := setupTestApp(t, nil)
		client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
		client.On("ListObjects", mock.Anything, "registry", mock.Anything).Return(listing())

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("Serving", func(t *testing.T) {
		app, client := setupTestApp(t, testSnapshot(t))
		client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
		client.On("ListObjects", mock.Anything, "registry", prefix("sources/portal.csv")).Return(listing("sources/portal.csv"))
		client.On("ListObjects", mock.Anything, "registry", prefix("sources/regulation.csv")).Return(listing("sources/regulation.csv"))
		client.On("ListObjects", mock.Anything, "registry", prefix("exports/")).Return(listing("exports/"))

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var report Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, StatusOK, report.Status)
		assert.Equal(t, StatusDisabled, report.Database.Status)
	})
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("Checked", func(t *testing.T) {
		app, client := setupTestApp(t, nil)
		client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
		client.On("ListObjects", mock.Anything, "registry", mock.Anything).Return(listing())

		resp, err := app.Test(httptest.NewRequest("GET", "/health/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "checked", body["status"])
		assert.Len(t, body["missing_sources"], 2)
		assert.Equal(t, []any{"exports"}, body["missing_exports"])
	})

	t.Run("Fix", func(t *testing.T) {
		app, client := setupTestApp(t, nil)
		client.On("BucketExists", mock.Anything, "registry").Return(true, nil)
		client.On("ListObjects", mock.Anything, "registry", mock.Anything).Return(listing())
		client.On("PutObject", mock.Anything, "registry", "exports/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/health/storage?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "fixed", body["status"])
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		app, client := setupTestApp(t, nil)
		client.On("BucketExists", mock.Anything, "registry").Return(false, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/health/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandleDatabaseCheck_NotConfigured(t *testing.T) {
	app, _ := setupTestApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/database", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(NewService(nil, "", bucketSources, "exports", nil, none, zap.NewNop()))
	assert.Equal(t, "health", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
