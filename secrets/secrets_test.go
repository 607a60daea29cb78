package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSecretsProvider(t *testing.T) {
	ctx := context.Background()

	t.Setenv("TEST_SECRET", "test_value")
	t.Setenv("GEMINI_PROXY_API_KEY", "api_key_value")
	t.Setenv("EMPTY_SECRET", "")

	t.Run("WithoutPrefix", func(t *testing.T) {
		provider := NewEnvSecretsProvider("")

		value, err := provider.GetSecret(ctx, "TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "test_value", value)

		_, err = provider.GetSecret(ctx, "NON_EXISTENT")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSecretNotFound))
	})

	t.Run("EmptyIsMissing", func(t *testing.T) {
		_, err := NewEnvSecretsProvider("").GetSecret(ctx, "EMPTY_SECRET")
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})

	t.Run("WithPrefix", func(t *testing.T) {
		value, err := NewEnvSecretsProvider("GEMINI_PROXY_").GetSecret(ctx, "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "api_key_value", value)
	})

	t.Run("FallbackWithoutPrefix", func(t *testing.T) {
		value, err := NewEnvSecretsProvider("MISSING_").GetSecret(ctx, "TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "test_value", value)
	})

	t.Run("ReadsAtCallTime", func(t *testing.T) {
		provider := NewEnvSecretsProvider("")
		t.Setenv("ROTATED_SECRET", "v1")
		v1, err := provider.GetSecret(ctx, "ROTATED_SECRET")
		require.NoError(t, err)
		t.Setenv("ROTATED_SECRET", "v2")
		v2, err := provider.GetSecret(ctx, "ROTATED_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "v1", v1)
		assert.Equal(t, "v2", v2)
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, NewEnvSecretsProvider("").Close())
	})
}

func TestStaticSecretsProvider(t *testing.T) {
	ctx := context.Background()
	values := map[string]string{"GEMINI_API_KEY": "k", "BLANK": ""}
	provider := NewStaticSecretsProvider(values)
	values["GEMINI_API_KEY"] = "mutated"

	v, err := provider.GetSecret(ctx, "GEMINI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "k", v)

	_, err = provider.GetSecret(ctx, "BLANK")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	_, err = provider.GetSecret(ctx, "OTHER")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

type failingProvider struct {
	err      error
	closeErr error
	calls    int
}

func (f *failingProvider) GetSecret(ctx context.Context, key string) (string, error) {
	f.calls++
	return "", f.err
}
func (f *failingProvider) Close() error { return f.closeErr }
func (f *failingProvider) Type() string { return "failing" }

func TestMultiSecretsProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("FailoverOnNotFound", func(t *testing.T) {
		first := NewStaticSecretsProvider(nil)
		second := NewStaticSecretsProvider(map[string]string{"KEY": "from-second"})
		v, err := NewMultiSecretsProvider(first, second).GetSecret(ctx, "KEY")
		require.NoError(t, err)
		assert.Equal(t, "from-second", v)
	})

	t.Run("StopsOnOtherErrors", func(t *testing.T) {
		down := &failingProvider{err: NewSecretError("PROVIDER_DOWN", "unavailable", "failing", "KEY", nil)}
		backup := NewStaticSecretsProvider(map[string]string{"KEY": "never"})
		_, err := NewMultiSecretsProvider(down, backup).GetSecret(ctx, "KEY")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrSecretNotFound))
		assert.Equal(t, 1, down.calls)
	})

	t.Run("NoProviders", func(t *testing.T) {
		_, err := NewMultiSecretsProvider().GetSecret(ctx, "KEY")
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})

	t.Run("CloseJoinsErrors", func(t *testing.T) {
		closeErr := errors.New("close failed")
		m := NewMultiSecretsProvider(&failingProvider{closeErr: closeErr}, NewStaticSecretsProvider(nil))
		assert.ErrorIs(t, m.Close(), closeErr)
	})
}

func TestNewSecretsProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultToEnv", func(t *testing.T) {
		provider, err := NewSecretsProvider(ctx, nil)
		require.NoError(t, err)
		assert.IsType(t, &EnvSecretsProvider{}, provider)
	})

	t.Run("EnvDriver", func(t *testing.T) {
		provider, err := NewSecretsProvider(ctx, &config.SecretsConfig{Driver: "env", Prefix: "TEST_"})
		require.NoError(t, err)
		envProvider, ok := provider.(*EnvSecretsProvider)
		require.True(t, ok, "Expected EnvSecretsProvider for env driver")
		assert.Equal(t, "TEST_", envProvider.prefix)
	})

	t.Run("AWSDriverWithoutRegion", func(t *testing.T) {
		_, err := NewSecretsProvider(ctx, &config.SecretsConfig{Driver: "aws-sm"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "region")
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		_, err := NewSecretsProvider(ctx, &config.SecretsConfig{Driver: "vault"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported secrets driver")
	})
}
