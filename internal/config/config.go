package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror the processor's documented ones. Tampa BIN is 000002,
// Salem is 000001.
const (
	DefaultAPIVersion  = "5.2"
	DefaultBIN         = "000002"
	DefaultTerminalID  = "001"
	DefaultCountryCode = "CA"
	DefaultCurrency    = "CAD"

	DefaultFailoverRetries = 3
	DefaultTimeout         = 30 * time.Second
)

// Config holds all application configuration.
type Config struct {
	Gateway GatewayConfig
	Logger  LoggerConfig
	Secrets SecretsConfig
}

// GatewayConfig holds the Orbital connection settings. It is constructed
// once and treated as immutable afterwards; the content-type header is
// derived from APIVersion on demand.
type GatewayConfig struct {
	// Connection credentials. Ignored entirely when IPAuthentication is
	// set: the gateway then trusts the source IP and the credential
	// elements are omitted from every request.
	Login    string
	Password string

	IPAuthentication bool

	MerchantID  string
	BIN         string
	TerminalID  string
	CountryCode string
	Currency    string
	APIVersion  string

	// TestMode selects the orbitalvar* certification endpoints.
	TestMode bool

	// FailoverRetries bounds the total connection attempts per call.
	FailoverRetries int

	// CleanCCFromResponse strips account-number fields from raw results.
	CleanCCFromResponse bool

	// Timeout applies to each individual HTTP attempt.
	Timeout time.Duration
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// SecretsConfig selects the backend used to resolve connection
// credentials when they are not set in the environment.
type SecretsConfig struct {
	// Backend: "local", "aws" or "vault". Empty disables secret lookup.
	Backend string

	// Path of the credential secret within the backend.
	CredentialPath string

	// Local backend base directory.
	LocalBasePath string

	// AWS region.
	AWSRegion string

	// Vault server address and token.
	VaultAddress string
	VaultToken   string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			Login:               getEnv("ORBITAL_LOGIN", ""),
			Password:            getEnv("ORBITAL_PASSWORD", ""),
			IPAuthentication:    getEnvAsBool("ORBITAL_IP_AUTHENTICATION", false),
			MerchantID:          getEnv("ORBITAL_MERCHANT_ID", ""),
			BIN:                 getEnv("ORBITAL_BIN", DefaultBIN),
			TerminalID:          getEnv("ORBITAL_TERMINAL_ID", DefaultTerminalID),
			CountryCode:         getEnv("ORBITAL_COUNTRY_CODE", DefaultCountryCode),
			Currency:            getEnv("ORBITAL_CURRENCY", DefaultCurrency),
			APIVersion:          getEnv("ORBITAL_API_VERSION", DefaultAPIVersion),
			TestMode:            getEnvAsBool("ORBITAL_TEST_MODE", true),
			FailoverRetries:     getEnvAsInt("ORBITAL_FAILOVER_RETRIES", DefaultFailoverRetries),
			CleanCCFromResponse: getEnvAsBool("ORBITAL_CLEAN_CC_FROM_RESPONSE", false),
			Timeout:             time.Duration(getEnvAsInt("ORBITAL_TIMEOUT_SECONDS", int(DefaultTimeout/time.Second))) * time.Second,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRET_MANAGER", ""),
			CredentialPath: getEnv("ORBITAL_CREDENTIAL_SECRET", "orbital/credentials"),
			LocalBasePath:  getEnv("SECRET_LOCAL_PATH", ".secrets"),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
		},
	}

	if cfg.Gateway.FailoverRetries < 1 {
		cfg.Gateway.FailoverRetries = DefaultFailoverRetries
	}

	return cfg, nil
}

// Validate checks that the gateway settings are usable. Called after any
// secret-backend credential resolution has run.
func (c *GatewayConfig) Validate() error {
	if c.MerchantID == "" {
		return fmt.Errorf("ORBITAL_MERCHANT_ID is required")
	}
	if !c.IPAuthentication {
		if c.Login == "" {
			return fmt.Errorf("ORBITAL_LOGIN is required unless IP authentication is enabled")
		}
		if c.Password == "" {
			return fmt.Errorf("ORBITAL_PASSWORD is required unless IP authentication is enabled")
		}
	}
	return nil
}

// ContentType derives the wire content type from the API version: only
// the digits survive, so version "5.2" becomes "Application/PTI52".
func (c *GatewayConfig) ContentType() string {
	var digits strings.Builder
	for _, r := range c.APIVersion {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "Application/PTI" + digits.String()
}

// SupportsOnlineReversal reports whether the configured API version
// accepts the OnlineReversalInd element (5.2 and later).
func (c *GatewayConfig) SupportsOnlineReversal() bool {
	v, err := strconv.ParseFloat(c.APIVersion, 64)
	if err != nil {
		return false
	}
	return v >= 5.2
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
