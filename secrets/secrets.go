package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/awantoch/gemini-proxy/constants"
)

// NewSecretsProvider creates a secrets provider from proxy configuration.
// The aws-sm driver falls back to environment variables so a key exported
// locally still works.
func NewSecretsProvider(ctx context.Context, cfg *config.SecretsConfig) (SecretsProvider, error) {
	if cfg == nil {
		// Default to environment variables
		return NewEnvSecretsProvider(""), nil
	}

	switch strings.ToLower(cfg.Driver) {
	case "", constants.SecretsDriverEnv:
		return NewEnvSecretsProvider(cfg.Prefix), nil
	case constants.SecretsDriverAWS, "aws":
		aws, err := NewAWSSecretsProvider(ctx, cfg.Region, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return NewMultiSecretsProvider(aws, NewEnvSecretsProvider("")), nil
	default:
		return nil, fmt.Errorf("unsupported secrets driver: %s", cfg.Driver)
	}
}
