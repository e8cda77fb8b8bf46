package tool

import (
	"bytes"
	"encoding/json"

	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

// errorPrefix starts the text of every failed invocation.
const errorPrefix = "Error: "

// Response is the text content returned to the protocol client.
type Response struct {
	Text    string
	IsError bool
}

// Render turns a marketplace result into the client-visible response.
// Success payloads are pretty-printed with two-space indentation.
func Render(r marketplace.Result) Response {
	switch r := r.(type) {
	case marketplace.Success:
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Payload, "", "  "); err != nil {
			return Response{Text: string(r.Payload)}
		}
		return Response{Text: buf.String()}
	case marketplace.Failure:
		return errorResponse(r.Message)
	default:
		return errorResponse("unexpected result")
	}
}

func errorResponse(msg string) Response {
	return Response{Text: errorPrefix + msg, IsError: true}
}
