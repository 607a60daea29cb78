package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// secretsManagerAPI is the slice of the Secrets Manager client the provider uses.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsProvider implements SecretsProvider using AWS Secrets Manager
type AWSSecretsProvider struct {
	client secretsManagerAPI
	prefix string
}

var _ SecretsProvider = (*AWSSecretsProvider)(nil)

// NewAWSSecretsProvider creates a new AWS Secrets Manager provider
func NewAWSSecretsProvider(ctx context.Context, region, prefix string) (*AWSSecretsProvider, error) {
	if region == "" {
		return nil, NewSecretError("INVALID_CONFIG", "region is required for AWS Secrets Manager", "aws-sm", "", nil)
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecretsProviderWithClient(secretsmanager.NewFromConfig(cfg), prefix), nil
}

func newAWSSecretsProviderWithClient(client secretsManagerAPI, prefix string) *AWSSecretsProvider {
	return &AWSSecretsProvider{
		client: client,
		prefix: prefix,
	}
}

// GetSecret retrieves a secret from AWS Secrets Manager. With a prefix set, a
// missing prefixed name falls back to the bare key.
func (a *AWSSecretsProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if a.prefix != "" {
		value, err := a.getSecretValue(ctx, a.prefix+key, key)
		if err == nil || !errors.Is(err, ErrSecretNotFound) {
			return value, err
		}
	}
	return a.getSecretValue(ctx, key, key)
}

func (a *AWSSecretsProvider) getSecretValue(ctx context.Context, secretID, key string) (string, error) {
	result, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return "", notFound(a.Type(), key, err)
		}
		return "", NewSecretError("PROVIDER_DOWN", "failed to get secret", a.Type(), key, err)
	}
	if result.SecretString == nil || *result.SecretString == "" {
		return "", notFound(a.Type(), key, nil)
	}
	return *result.SecretString, nil
}

// Close cleans up resources (no-op for AWS provider)
func (a *AWSSecretsProvider) Close() error {
	return nil
}

func (a *AWSSecretsProvider) Type() string {
	return "aws-sm"
}
