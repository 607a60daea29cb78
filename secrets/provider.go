package secrets

import (
	"context"
	"errors"
)

// SecretsProvider resolves a named secret at call time. The proxy never caches
// what it returns, so rotating a key takes effect on the next request.
type SecretsProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	Close() error
	Type() string
}

// ErrSecretNotFound is returned (possibly wrapped) when a provider has no value for a key.
var ErrSecretNotFound = &SecretError{Code: "SECRET_NOT_FOUND", Message: "secret not found"}

// SecretError provides structured error information
type SecretError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	Key      string `json:"key,omitempty"`
	Cause    error  `json:"-"`
}

func (e *SecretError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg += ": " + e.Key
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *SecretError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so a provider-specific error still satisfies errors.Is(err, ErrSecretNotFound).
func (e *SecretError) Is(target error) bool {
	var t *SecretError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewSecretError creates a new SecretError with the given details
func NewSecretError(code, message, provider, key string, cause error) *SecretError {
	return &SecretError{
		Code:     code,
		Message:  message,
		Provider: provider,
		Key:      key,
		Cause:    cause,
	}
}

func notFound(provider, key string, cause error) *SecretError {
	return NewSecretError(ErrSecretNotFound.Code, ErrSecretNotFound.Message, provider, key, cause)
}
