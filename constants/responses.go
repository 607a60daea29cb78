package constants

// HTTP Response Messages
const (
	ResponseMethodNotAllowed    = "Method Not Allowed"
	ResponseAPIKeyNotConfigured = "API key not configured on the server."
	ResponseInternalError       = "An internal error occurred."
	ResponseHealthy             = `{"status":"healthy"}`
)

// Error Messages for Logging
const (
	LogUpstreamError       = "Gemini API Error"
	LogInternalError       = "Internal Server Error"
	LogAPIKeyMissing       = "API key lookup failed"
	LogFailedWriteResponse = "failed to write response"
	LogFailedWriteHealth   = "failed to write health check response"
)

// Upstream outcomes used as metric labels
const (
	OutcomeOK             = "ok"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
)
