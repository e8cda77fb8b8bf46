package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
)

// Validate checks the structural validity of a Config with defaults
// applied. Every problem is reported, joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateAPI(cfg.API)...)
	errs = append(errs, validateServer(cfg.Server)...)

	if cfg.Credentials.Env == "" {
		errs = append(errs, errors.New("config: credentials.env must not be empty"))
	}
	if cfg.Credentials.Path == "" {
		errs = append(errs, errors.New("config: credentials.path must not be empty"))
	}

	if cfg.Telemetry.OTLPEndpoint != "" {
		if err := validateURL(cfg.Telemetry.OTLPEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("config: telemetry.otlp_endpoint: %w", err))
		}
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateAPI(api APIConfig) []error {
	var errs []error
	if err := validateURL(api.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("config: api.base_url: %w", err))
	}
	if api.Timeout <= 0 {
		errs = append(errs, errors.New("config: api.timeout must be positive"))
	}
	return errs
}

func validateServer(srv ServerConfig) []error {
	var errs []error

	switch srv.Transport {
	case TransportStdio:
	case TransportHTTP:
		if _, _, err := net.SplitHostPort(srv.Bind); err != nil {
			errs = append(errs, fmt.Errorf("config: server.bind %q: %w", srv.Bind, err))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unsupported server.transport %q (supported: %q, %q)", srv.Transport, TransportStdio, TransportHTTP))
	}

	if srv.ReadTimeout <= 0 || srv.WriteTimeout <= 0 || srv.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("config: server timeouts must be positive"))
	}
	return errs
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// ParseLevel converts a configured level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", name, err)
	}
	return level, nil
}
