package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/opentransact/orbital/internal/adapters/ports"
)

// localSecretManager reads secrets from the local filesystem.
// Development only; use AWS Secrets Manager or Vault anywhere real
// gateway credentials live.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a filesystem-backed secret manager
// rooted at basePath.
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManager {
	return &localSecretManager{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret reads the file at basePath/path. Files may be plain text or
// a JSON document of the form {"value": "...", "tags": {...}}.
func (m *localSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	filePath := filepath.Join(m.basePath, path)

	m.logger.Debug("reading secret from filesystem", zap.String("path", path))

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	var secretData struct {
		Value string            `json:"value"`
		Tags  map[string]string `json:"tags"`
	}
	if err := json.Unmarshal(data, &secretData); err == nil && secretData.Value != "" {
		return &ports.Secret{
			Value:    secretData.Value,
			Version:  "v1",
			Metadata: secretData.Tags,
		}, nil
	}

	return &ports.Secret{
		Value:   strings.TrimSpace(string(data)),
		Version: "v1",
	}, nil
}
