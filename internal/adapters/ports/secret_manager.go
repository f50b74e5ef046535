package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata.
type Secret struct {
	Value    string
	Version  string
	Metadata map[string]string
}

// SecretManager defines the port for resolving gateway credentials from
// a secret management service. This client only ever reads secrets;
// rotation and writes belong to the operator tooling.
//
// Implementations are responsible for authenticating with the backend
// and caching values with a TTL.
type SecretManager interface {
	// GetSecret retrieves a secret by its path/name. Path format depends
	// on the backend:
	//   - local: file path relative to the base directory
	//   - AWS:   secret name or full ARN
	//   - Vault: KV v2 path under the mount
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
