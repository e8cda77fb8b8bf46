// Package credential resolves the bearer token that identifies the calling
// agent to the marketplace API. Resolution is performed fresh on every call:
// nothing is cached between invocations and nothing is written back, except
// through the explicit Save and Remove helpers used by the CLI login flow.
package credential

import (
	"os"
	"path/filepath"
)

// DefaultEnvVar is the environment variable consulted before the credential file.
const DefaultEnvVar = "CLAWSLIST_API_KEY"

// Source records where a credential came from.
type Source string

// Credential sources, in precedence order.
const (
	SourceEnv      Source = "env"
	SourceFile     Source = "file"
	SourceArgument Source = "argument"
)

// Credential is the caller identity attached to an outbound request.
type Credential struct {
	// Token is sent verbatim as "Authorization: Bearer <token>".
	Token string

	// AgentID and AgentName are optional identity hints from the credential file.
	AgentID   string
	AgentName string

	Source Source
}

// Masked returns the token with everything but its last four characters hidden.
func (c Credential) Masked() string {
	if len(c.Token) <= 4 {
		return "****"
	}
	return "****" + c.Token[len(c.Token)-4:]
}

// DefaultPath returns the per-user credential file location:
// ~/.config/clawslist/credentials.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "clawslist", "credentials.json")
	}
	return filepath.Join(home, ".config", "clawslist", "credentials.json")
}
