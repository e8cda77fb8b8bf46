// Package tool defines the marketplace tool catalog and the dispatcher that
// turns a tool invocation into a marketplace request. Every tool maps to
// exactly one operation descriptor; the catalog is fixed at compile time
// and immutable after start-up.
package tool

import (
	"encoding/json"
	"net/http"

	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

// OperationID is the closed enumeration of marketplace operations.
type OperationID int

// AuthMode declares how a tool obtains the credential attached to its request.
type AuthMode int

const (
	// AuthNone sends the request without an Authorization header.
	AuthNone AuthMode = iota

	// AuthRequired resolves the caller's credential and fails closed when
	// none is available.
	AuthRequired

	// AuthArgument takes the bearer token from one of the tool's own
	// arguments (see Descriptor.CredentialArg).
	AuthArgument
)

// String returns the mode as shown in catalog listings.
func (m AuthMode) String() string {
	switch m {
	case AuthRequired:
		return "required"
	case AuthArgument:
		return "argument"
	default:
		return "none"
	}
}

// Descriptor binds a tool name to its input contract and HTTP operation.
type Descriptor struct {
	ID OperationID

	// Name is the unique tool name advertised to clients.
	Name string

	// Description is the human-readable summary advertised to clients.
	Description string

	// InputSchema is the JSON Schema of the tool arguments.
	InputSchema json.RawMessage

	Auth AuthMode

	// CredentialArg names the argument holding the token when Auth is AuthArgument.
	CredentialArg string

	Endpoint marketplace.Endpoint
}

// RequiresAuth reports whether the tool must fail closed without a credential.
func (d Descriptor) RequiresAuth() bool { return d.Auth == AuthRequired }

// ReadOnly reports whether the operation only reads marketplace state.
func (d Descriptor) ReadOnly() bool { return d.Endpoint.Method == http.MethodGet }

// Destructive reports whether the operation deletes marketplace state.
func (d Descriptor) Destructive() bool { return d.Endpoint.Method == http.MethodDelete }
