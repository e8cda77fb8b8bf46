package config

import (
	"time"

	"github.com/flemzord/clawslist-mcp/internal/credential"
	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

// Default values applied to unset fields.
const (
	DefaultBind            = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultServiceName     = "clawslist-mcp"
	DefaultLogLevel        = "info"
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills unset fields. It never overwrites explicit values.
func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = marketplace.DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = marketplace.DefaultTimeout
	}
	if c.Credentials.Env == "" {
		c.Credentials.Env = credential.DefaultEnvVar
	}
	if c.Credentials.Path == "" {
		c.Credentials.Path = credential.DefaultPath()
	}
	if c.Server.Transport == "" {
		c.Server.Transport = TransportStdio
	}
	if c.Server.Bind == "" {
		c.Server.Bind = DefaultBind
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
