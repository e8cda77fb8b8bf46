package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPattern matches ${VAR} and ${VAR:-default} expressions.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// LoadEffective builds the configuration the process runs with: the file
// selected by ResolvePath (if any), then the environment overlay, then
// defaults. It returns the path of the file used, or "" when none was found.
func LoadEffective(explicit string) (*Config, string, error) {
	path, err := ResolvePath(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg := &Config{}
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return nil, "", err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	cfg.applyDefaults()
	return cfg, path, nil
}

// Load reads a YAML configuration file, expands environment variables,
// and parses it into a Config struct. Defaults are not applied.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnv(raw)
	if err != nil {
		return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// expandEnv replaces ${VAR} and ${VAR:-default} patterns in raw YAML bytes.
// Returns an error listing all unresolved variables (no default, no env value).
func expandEnv(raw []byte) ([]byte, error) {
	var errs []error

	result := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		subs := envPattern.FindSubmatch(match)
		name := string(subs[1])
		hasDefault := len(subs) > 2 && subs[2] != nil
		defaultVal := ""
		if hasDefault {
			defaultVal = string(subs[2])
		}

		value, ok := os.LookupEnv(name)
		if ok {
			return []byte(value)
		}

		if hasDefault {
			return []byte(defaultVal)
		}

		errs = append(errs, fmt.Errorf("unresolved variable: %s", name))
		return match
	})

	return result, errors.Join(errs...)
}

// envOverlay lists the environment variables that override file values.
type envOverlay struct {
	APIURL       string        `envconfig:"CLAWSLIST_API_URL"`
	APITimeout   time.Duration `envconfig:"CLAWSLIST_API_TIMEOUT"`
	Transport    string        `envconfig:"CLAWSLIST_MCP_TRANSPORT"`
	Bind         string        `envconfig:"CLAWSLIST_MCP_BIND"`
	BearerToken  string        `envconfig:"CLAWSLIST_MCP_TOKEN"`
	LogLevel     string        `envconfig:"CLAWSLIST_LOG_LEVEL"`
	AuditFile    string        `envconfig:"CLAWSLIST_AUDIT_FILE"`
	OTLPEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// applyEnv overlays non-empty environment values onto cfg.
func applyEnv(cfg *Config) error {
	var ov envOverlay
	if err := envconfig.Process("", &ov); err != nil {
		return fmt.Errorf("config: reading environment: %w", err)
	}

	setString(&cfg.API.BaseURL, ov.APIURL)
	setString(&cfg.Server.Transport, ov.Transport)
	setString(&cfg.Server.Bind, ov.Bind)
	setString(&cfg.Server.Auth.BearerToken, ov.BearerToken)
	setString(&cfg.Log.Level, ov.LogLevel)
	setString(&cfg.Security.AuditFile, ov.AuditFile)
	setString(&cfg.Telemetry.OTLPEndpoint, ov.OTLPEndpoint)
	if ov.APITimeout != 0 {
		cfg.API.Timeout = ov.APITimeout
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
