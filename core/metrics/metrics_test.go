package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePass(t *testing.T) {
	m := New()
	m.ObservePass(OutcomeSuccess, time.Now())
	m.ObservePass(OutcomeSuccess, time.Now())
	m.ObservePass(OutcomeFailure, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Passes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes.WithLabelValues(OutcomeFailure)))
}

func TestSetPartitions(t *testing.T) {
	m := New()
	m.SetPartitions(1, 2, 0, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Codes.WithLabelValues("matched")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Codes.WithLabelValues("surplus")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Codes.WithLabelValues("deficit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ParseErrors.WithLabelValues("portal").Add(3)

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `kbli_registry_parse_errors_total{source="portal"} 3`)
}
