package constants

// Configuration Files
const (
	ConfigFileName = "gemini-proxy.config.json"
)

// Environment Variables
const (
	EnvDebug         = "GEMINI_PROXY_DEBUG"
	EnvAPIKey        = "GEMINI_API_KEY"
	EnvModel         = "GEMINI_MODEL"
	EnvBaseURL       = "GEMINI_PROXY_BASE_URL"
	EnvTimeout       = "GEMINI_PROXY_TIMEOUT"
	EnvSecretsDriver = "GEMINI_PROXY_SECRETS_DRIVER"
	EnvSecretsRegion = "GEMINI_PROXY_SECRETS_REGION"
	EnvSecretsPrefix = "GEMINI_PROXY_SECRETS_PREFIX"
	EnvTracingExport = "GEMINI_PROXY_TRACING_EXPORTER"
	EnvTracingTarget = "GEMINI_PROXY_TRACING_ENDPOINT"
)

// Secrets Drivers
const (
	SecretsDriverEnv = "env"
	SecretsDriverAWS = "aws-sm"
)

// Tracing Exporters
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)
