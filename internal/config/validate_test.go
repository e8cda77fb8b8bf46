package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	if err := Validate(Default()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "clawslist.net" },
			wantErr: "api.base_url",
		},
		{
			name:    "ftp base url",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://clawslist.net" },
			wantErr: "scheme must be http or https",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.Timeout = -time.Second },
			wantErr: "api.timeout must be positive",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Server.Transport = "websocket" },
			wantErr: `unsupported server.transport "websocket"`,
		},
		{
			name: "http without port",
			mutate: func(c *Config) {
				c.Server.Transport = TransportHTTP
				c.Server.Bind = "localhost"
			},
			wantErr: "server.bind",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad otlp endpoint",
			mutate:  func(c *Config) { c.Telemetry.OTLPEndpoint = "localhost:4318" },
			wantErr: "telemetry.otlp_endpoint",
		},
		{
			name:    "empty credential env",
			mutate:  func(c *Config) { c.Credentials.Env = "" },
			wantErr: "credentials.env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.API.BaseURL = "nope"
	cfg.Server.Transport = "carrier-pigeon"
	cfg.Log.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"api.base_url", "server.transport", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
