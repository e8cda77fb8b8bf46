package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// errNoToken is returned by loadFile when the file parses but carries no token.
var errNoToken = errors.New("credential: file has no apiKey")

// fileFormat is the on-disk JSON shape of the credential file.
type fileFormat struct {
	APIKey    string `json:"apiKey"`
	AgentID   string `json:"agentId,omitempty"`
	AgentName string `json:"agentName,omitempty"`
}

// Resolver determines the caller's credential.
// Precedence: a non-empty environment variable, then the credential file.
// It holds no state between calls and is safe for concurrent use.
type Resolver struct {
	envVar string
	path   string

	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

// NewResolver creates a resolver reading envVar and then the file at path.
// Empty arguments fall back to DefaultEnvVar and DefaultPath.
func NewResolver(envVar, path string) *Resolver {
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	if path == "" {
		path = DefaultPath()
	}
	return &Resolver{
		envVar:    envVar,
		path:      path,
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
	}
}

// EnvVar returns the environment variable name consulted first.
func (r *Resolver) EnvVar() string { return r.envVar }

// Path returns the credential file location.
func (r *Resolver) Path() string { return r.path }

// Resolve returns the current credential, or false when none is available.
// A missing, unreadable, or malformed credential file is not an error.
func (r *Resolver) Resolve() (Credential, bool) {
	if token, ok := r.lookupEnv(r.envVar); ok && token != "" {
		return Credential{Token: token, Source: SourceEnv}, true
	}

	cred, err := r.loadFile()
	if err != nil {
		return Credential{}, false
	}
	return cred, true
}

// loadFile reads and parses the credential file. Every failure mode is
// reported as an error so Resolve can fold it into "no credential".
func (r *Resolver) loadFile() (Credential, error) {
	raw, err := r.readFile(r.path)
	if err != nil {
		return Credential{}, fmt.Errorf("credential: reading %s: %w", r.path, err)
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return Credential{}, fmt.Errorf("credential: parsing %s: %w", r.path, err)
	}
	if strings.TrimSpace(f.APIKey) == "" {
		return Credential{}, errNoToken
	}

	return Credential{
		Token:     f.APIKey,
		AgentID:   f.AgentID,
		AgentName: f.AgentName,
		Source:    SourceFile,
	}, nil
}
