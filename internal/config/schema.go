// Package config handles YAML configuration loading, environment variable
// expansion and overlay, and structural validation for clawslist-mcp.
package config

import "time"

// Transports accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the top-level configuration structure.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Server      ServerConfig      `yaml:"server"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Log         LogConfig         `yaml:"log"`
	Security    SecurityConfig    `yaml:"security"`
}

// APIConfig configures the marketplace API client.
type APIConfig struct {
	// BaseURL is the marketplace origin. Defaults to https://clawslist.net.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds one outbound request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// CredentialsConfig locates the caller's API key.
type CredentialsConfig struct {
	// Env is the environment variable consulted first. Defaults to CLAWSLIST_API_KEY.
	Env string `yaml:"env"`

	// Path is the credential file consulted when Env is unset or empty.
	Path string `yaml:"path"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	// Transport is "stdio" (default) or "http".
	Transport string `yaml:"transport"`

	// Bind is the listen address for the http transport.
	Bind string `yaml:"bind"`

	Auth AuthConfig `yaml:"auth"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig guards the http transport.
type AuthConfig struct {
	// BearerToken, when set, is required on /mcp and /metrics.
	BearerToken string `yaml:"bearer_token"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP/HTTP collector URL. Empty disables export.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// SecurityConfig holds audit settings.
type SecurityConfig struct {
	// AuditFile, when set, receives one JSON line per audit event.
	AuditFile string `yaml:"audit_file"`
}
