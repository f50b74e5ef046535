package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
	"github.com/opentransact/orbital/internal/adapters/secrets"
	"github.com/opentransact/orbital/internal/config"
)

// resolveCredentials fills in the gateway login and password from the
// configured secret backend when they are not already set in the
// environment. Supports:
//   - AWS Secrets Manager: SECRET_MANAGER=aws and AWS_REGION
//   - HashiCorp Vault: SECRET_MANAGER=vault, VAULT_ADDR and VAULT_TOKEN
//   - Local filesystem (development): SECRET_MANAGER=local
//
// The secret value is a JSON document {"login": "...", "password": "..."}.
func resolveCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Secrets.Backend == "" {
		return nil
	}
	if cfg.Gateway.IPAuthentication || (cfg.Gateway.Login != "" && cfg.Gateway.Password != "") {
		return nil
	}

	manager, err := initSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		return err
	}

	secret, err := manager.GetSecret(ctx, cfg.Secrets.CredentialPath)
	if err != nil {
		return fmt.Errorf("failed to fetch gateway credentials: %w", err)
	}

	var creds struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(secret.Value), &creds); err != nil {
		return fmt.Errorf("credential secret is not valid JSON: %w", err)
	}
	if creds.Login == "" || creds.Password == "" {
		return fmt.Errorf("credential secret is missing login or password")
	}

	cfg.Gateway.Login = creds.Login
	cfg.Gateway.Password = creds.Password

	logger.Info("Gateway credentials resolved from secret backend",
		zap.String("backend", cfg.Secrets.Backend),
	)
	return nil
}

func initSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Backend {
	case "aws":
		return secrets.NewAWSSecretsManager(ctx, secrets.DefaultAWSSecretsManagerConfig(cfg.AWSRegion), logger)
	case "vault":
		return secrets.NewVaultSecretManager(secrets.DefaultVaultConfig(cfg.VaultAddress, cfg.VaultToken), logger)
	case "local":
		logger.Warn("Using local filesystem secrets - NOT for production use!",
			zap.String("base_path", cfg.LocalBasePath),
		)
		return secrets.NewLocalSecretManager(cfg.LocalBasePath, logger), nil
	default:
		return nil, fmt.Errorf("unknown secret backend %q", cfg.Backend)
	}
}
