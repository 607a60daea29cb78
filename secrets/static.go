package secrets

import "context"

// StaticSecretsProvider serves secrets from a fixed map. Useful for tests and
// for wiring a key that was resolved some other way.
type StaticSecretsProvider struct {
	values map[string]string
}

var _ SecretsProvider = (*StaticSecretsProvider)(nil)

func NewStaticSecretsProvider(values map[string]string) *StaticSecretsProvider {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &StaticSecretsProvider{values: copied}
}

func (s *StaticSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok || v == "" {
		return "", notFound(s.Type(), key, nil)
	}
	return v, nil
}

func (s *StaticSecretsProvider) Close() error { return nil }

func (s *StaticSecretsProvider) Type() string { return "static" }
