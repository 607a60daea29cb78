package secrets

import (
	"context"
	"errors"
)

// MultiSecretsProvider tries providers in order until one returns a value.
// Only not-found errors fall through to the next provider; anything else is
// returned immediately.
type MultiSecretsProvider struct {
	providers []SecretsProvider
}

var _ SecretsProvider = (*MultiSecretsProvider)(nil)

func NewMultiSecretsProvider(providers ...SecretsProvider) *MultiSecretsProvider {
	return &MultiSecretsProvider{providers: providers}
}

func (m *MultiSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	var lastErr error
	for _, provider := range m.providers {
		value, err := provider.GetSecret(ctx, key)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if !errors.Is(err, ErrSecretNotFound) {
			break
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", notFound(m.Type(), key, nil)
}

func (m *MultiSecretsProvider) Close() error {
	var errs []error
	for _, provider := range m.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSecretsProvider) Type() string {
	return "multi"
}
