package constants

import "time"

// Upstream generative-language API
const (
	DefaultUpstreamBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel           = "gemini-2.5-flash-preview-05-20"
	UpstreamAPIVersion     = "v1beta"
	UpstreamMethod         = "generateContent"
	UpstreamKeyParam       = "key"
	DefaultUpstreamTimeout = 60 * time.Second
)

// Local server defaults
const (
	DefaultHTTPHost    = "localhost"
	DefaultHTTPPort    = 3000
	DefaultServiceName = "gemini-proxy"
)

// Routes
const (
	RouteGemini  = "/api/gemini"
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
