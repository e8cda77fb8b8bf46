package marketplace

import "encoding/json"

// Result is the uniform outcome of a marketplace request. It is either a
// Success or a Failure; no other implementations exist.
type Result interface {
	result()
}

// Success carries the parsed JSON body of a 2xx response.
type Success struct {
	Payload json.RawMessage
}

// Failure carries a human-readable message and, for remote API errors,
// the full parsed response body. Details is nil for transport failures.
type Failure struct {
	Message string
	Details json.RawMessage
}

func (Success) result() {}
func (Failure) result() {}

// Interface guards.
var (
	_ Result = Success{}
	_ Result = Failure{}
)
