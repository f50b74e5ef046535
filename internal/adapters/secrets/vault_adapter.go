package secrets

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault backend.
type VaultConfig struct {
	// Vault server address (e.g. "https://vault.example.com:8200").
	Address string

	// Token for token authentication.
	Token string

	// KV secrets engine mount path.
	MountPath string

	// Vault namespace (Vault Enterprise).
	Namespace string

	// TLS configuration.
	TLSSkipVerify bool

	// Cache TTL for resolved secrets.
	CacheTTL time.Duration

	// Enable caching.
	EnableCache bool
}

// DefaultVaultConfig returns default configuration for the Vault backend.
func DefaultVaultConfig(address, token string) *VaultConfig {
	return &VaultConfig{
		Address:     address,
		Token:       token,
		MountPath:   "secret",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

type vaultSecretManager struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger
	cache  *secretCache
}

// NewVaultSecretManager creates a Vault-backed secret manager reading
// from the KV v2 engine.
func NewVaultSecretManager(cfg *VaultConfig, logger *zap.Logger) (ports.SecretManager, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("vault token is required")
	}
	client.SetToken(cfg.Token)

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	logger.Info("Vault secret backend initialized",
		zap.String("address", cfg.Address),
		zap.String("mount_path", cfg.MountPath),
	)

	return &vaultSecretManager{
		client: client,
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}, nil
}

// GetSecret reads a KV v2 secret. The value is taken from the "value"
// key of the secret data.
func (m *vaultSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := m.cache.get(path); cached != nil {
		m.logger.Debug("secret served from cache", zap.String("path", path))
		return cached, nil
	}

	kv, err := m.client.KVv2(m.config.MountPath).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", path, err)
	}

	value, ok := kv.Data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("secret %s has no string \"value\" key", path)
	}

	secret := &ports.Secret{
		Value:   value,
		Version: fmt.Sprintf("%d", kv.VersionMetadata.Version),
	}
	m.cache.put(path, secret)
	return secret, nil
}
