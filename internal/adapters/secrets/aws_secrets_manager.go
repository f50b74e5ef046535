package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
)

// AWSSecretsManagerConfig contains configuration for the AWS Secrets
// Manager backend.
type AWSSecretsManagerConfig struct {
	// AWS Region (e.g. "us-east-1").
	Region string

	// Optional AWS profile name, for local development.
	Profile string

	// Optional custom endpoint, for LocalStack testing.
	Endpoint string

	// Cache TTL for resolved secrets.
	CacheTTL time.Duration

	// Enable caching.
	EnableCache bool
}

// DefaultAWSSecretsManagerConfig returns default configuration.
func DefaultAWSSecretsManagerConfig(region string) *AWSSecretsManagerConfig {
	return &AWSSecretsManagerConfig{
		Region:      region,
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

type awsSecretsManager struct {
	client *secretsmanager.Client
	config *AWSSecretsManagerConfig
	logger *zap.Logger
	cache  *secretCache
}

// NewAWSSecretsManager creates an AWS Secrets Manager backed secret
// manager using the default credential chain (IAM role in production,
// shared profile locally).
func NewAWSSecretsManager(ctx context.Context, cfg *AWSSecretsManagerConfig, logger *zap.Logger) (ports.SecretManager, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	logger.Info("AWS Secrets Manager backend initialized",
		zap.String("region", cfg.Region),
		zap.Bool("cache_enabled", cfg.EnableCache),
	)

	return &awsSecretsManager{
		client: secretsmanager.NewFromConfig(awsCfg, clientOpts...),
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

// GetSecret retrieves a secret by name or full ARN.
func (m *awsSecretsManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := m.cache.get(path); cached != nil {
		m.logger.Debug("secret served from cache", zap.String("path", path))
		return cached, nil
	}

	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", path, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", path)
	}

	secret := &ports.Secret{
		Value:   aws.ToString(out.SecretString),
		Version: aws.ToString(out.VersionId),
	}
	m.cache.put(path, secret)
	return secret, nil
}
