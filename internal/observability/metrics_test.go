package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordQRRender("svg", true)
		m.RecordSignOutFailure()
		m.RecordSession("started")
	})
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordQRRender("hosted", true)
	m.RecordQRRender("hosted", false)
	m.RecordQRRender("hosted", false)
	m.RecordSignOutFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.qrRenders.WithLabelValues("hosted", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.qrRenders.WithLabelValues("hosted", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.signOutFailures))
}

func TestRequestLoggerAndHandler(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/ping", "GET", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_http_requests_total")
}
