package utils

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// LOGGER TESTS
// ============================================================================

func TestLoggerOutputs(t *testing.T) {
	var userBuf bytes.Buffer
	SetUserOutput(&userBuf)
	User("test user output")
	assert.Contains(t, userBuf.String(), "test user output")

	var internalBuf bytes.Buffer
	SetInternalOutput(&internalBuf)
	Info("test internal output")
	Debug("test debug output")
	assert.Contains(t, internalBuf.String(), "test internal output")
	assert.Contains(t, internalBuf.String(), "test debug output")

	SetUserOutput(os.Stdout)
	SetInternalOutput(os.Stderr)
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	ctxWithID := WithRequestID(ctx, "test-request-id")

	requestID, ok := RequestIDFromContext(ctxWithID)
	require.True(t, ok)
	assert.Equal(t, "test-request-id", requestID)

	emptyRequestID, ok := RequestIDFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, emptyRequestID)

	var buf bytes.Buffer
	SetInternalOutput(&buf)
	defer SetInternalOutput(os.Stderr)

	ErrorCtx(ctxWithID, "upstream failed", "status", 429)
	WarnCtx(ctx, "no request id", "field", "value")
	out := buf.String()
	assert.Contains(t, out, "upstream failed")
	assert.Contains(t, out, "test-request-id")
	assert.Contains(t, out, "429")
	assert.Equal(t, 1, strings.Count(out, "request_id"))
}

func TestLoggerEdgeCases(t *testing.T) {
	originalInternalLogger := internalLogger
	internalLogger = nil
	defer func() { internalLogger = originalInternalLogger }()

	Info("test with nil internal logger")
	Warn("test warn with nil logger")
	Debug("test debug with nil logger")
	ErrorCtx(context.Background(), "nil logger ctx")
	Sync()
}

func TestSetMode(t *testing.T) {
	t.Setenv("GEMINI_PROXY_DEBUG", "")
	defer SetMode("production")

	SetMode("error")
	require.NotNil(t, internalLogger)
	assert.False(t, internalLogger.Desugar().Core().Enabled(zapcore.WarnLevel))
	assert.True(t, internalLogger.Desugar().Core().Enabled(zapcore.ErrorLevel))

	SetMode("debug")
	assert.True(t, internalLogger.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestLevelForMode(t *testing.T) {
	t.Setenv("GEMINI_PROXY_DEBUG", "")
	assert.Equal(t, "debug", levelForMode("debug").String())
	assert.Equal(t, "warn", levelForMode("WARN").String())
	assert.Equal(t, "error", levelForMode("error").String())
	assert.Equal(t, "info", levelForMode("production").String())

	t.Setenv("GEMINI_PROXY_DEBUG", "1")
	assert.Equal(t, "debug", levelForMode("production").String())
}

// ============================================================================
// HTTP HELPER TESTS
// ============================================================================

func TestWriteHTTPJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteHTTPJSON(rec, http.StatusMethodNotAllowed, NewErrorBody("Method Not Allowed")))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"message":"Method Not Allowed"}}`, rec.Body.String())
}

func TestWriteRawJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	raw := []byte(`{"candidates":[{"index":0}]}`)
	require.NoError(t, WriteRawJSON(rec, http.StatusOK, raw))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(raw), rec.Body.String())
}

func TestRedactURL(t *testing.T) {
	got := RedactURL("https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=secret")
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/m:generateContent", got)
	assert.NotContains(t, got, "secret")
	assert.Equal(t, "<invalid url>", RedactURL("http://[::1"))
}
