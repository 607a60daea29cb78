package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	configs := []*config.Config{
		nil,
		{},
		{Tracing: &config.TracingConfig{Exporter: "none"}},
		{Tracing: &config.TracingConfig{ServiceName: "test-service", Exporter: "stdout"}},
		{Tracing: &config.TracingConfig{ServiceName: "test-service-otlp", Exporter: "otlp", Endpoint: "http://localhost:4318"}},
		{Tracing: &config.TracingConfig{Exporter: "otlp"}},
		{Tracing: &config.TracingConfig{Exporter: "unknown"}}, // falls back to stdout
	}

	for i, cfg := range configs {
		shutdown, err := Init(cfg)
		require.NoError(t, err, "config %d", i)
		require.NotNil(t, shutdown)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		// Exporters with nothing buffered return promptly; a cancelled context keeps OTLP from dialing.
		_ = shutdown(ctx)
	}
}

func TestInitServerless(t *testing.T) {
	shutdown, err := InitServerless(nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	shutdown, err = InitServerless(&config.Config{Tracing: &config.TracingConfig{Exporter: "stdout"}})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestWrapHandler(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom-Header", "custom-value")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("test response"))
	})
	wrapped := WrapHandler("wrap-test", testHandler)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("wrap-test", "POST", "429"))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "test response", rec.Body.String())
	assert.Equal(t, "custom-value", rec.Header().Get("X-Custom-Header"))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("wrap-test", "POST", "429")))
}

func TestWrapHandlerImplicitStatus(t *testing.T) {
	wrapped := WrapHandler("implicit-test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("part1"))
		w.Write([]byte("part2"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "part1part2", rec.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("implicit-test", "GET", "200")))
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("ok"))
	ObserveUpstream("ok")
	ObserveUpstream("ok")
	assert.Equal(t, before+2, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("ok")))
}

func TestNewTransport(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer upstream.Close()

	client := &http.Client{Transport: NewTransport(http.DefaultTransport)}
	resp, err := client.Get(upstream.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsHandler(t *testing.T) {
	WrapHandler("metrics-test", http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	ObserveUpstream("transport_error")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, pattern := range []string{
		"gemini_proxy_http_requests_total",
		"gemini_proxy_http_request_duration_seconds",
		"gemini_proxy_upstream_requests_total",
		"# HELP",
		"# TYPE",
	} {
		assert.True(t, strings.Contains(body, pattern), "expected metrics to contain %s", pattern)
	}
}
