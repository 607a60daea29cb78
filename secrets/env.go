package secrets

import (
	"context"
	"os"
)

// EnvSecretsProvider implements SecretsProvider using environment variables
type EnvSecretsProvider struct {
	prefix string
}

var _ SecretsProvider = (*EnvSecretsProvider)(nil)

// NewEnvSecretsProvider creates a new environment variable secrets provider
func NewEnvSecretsProvider(prefix string) *EnvSecretsProvider {
	return &EnvSecretsProvider{
		prefix: prefix,
	}
}

// GetSecret reads the variable on every call. An empty value counts as missing.
func (e *EnvSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	envKey := key
	if e.prefix != "" {
		envKey = e.prefix + key
	}

	value := os.Getenv(envKey)
	if value == "" && e.prefix != "" {
		// Try without prefix as fallback
		value = os.Getenv(key)
	}
	if value == "" {
		return "", notFound(e.Type(), key, nil)
	}
	return value, nil
}

// Close cleans up resources (no-op for environment provider)
func (e *EnvSecretsProvider) Close() error {
	return nil
}

func (e *EnvSecretsProvider) Type() string {
	return "env"
}
