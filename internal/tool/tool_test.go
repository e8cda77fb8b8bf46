package tool

import (
	"net/http"
	"testing"

	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

func TestAuthMode_String(t *testing.T) {
	t.Parallel()

	tests := map[AuthMode]string{
		AuthNone:     "none",
		AuthRequired: "required",
		AuthArgument: "argument",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

func TestDescriptor_Hints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method          string
		wantReadOnly    bool
		wantDestructive bool
	}{
		{method: http.MethodGet, wantReadOnly: true},
		{method: http.MethodPost},
		{method: http.MethodPatch},
		{method: http.MethodDelete, wantDestructive: true},
	}

	for _, tt := range tests {
		d := Descriptor{Endpoint: marketplace.Endpoint{Method: tt.method, Path: "/x"}}
		if d.ReadOnly() != tt.wantReadOnly {
			t.Errorf("%s: ReadOnly() = %v", tt.method, d.ReadOnly())
		}
		if d.Destructive() != tt.wantDestructive {
			t.Errorf("%s: Destructive() = %v", tt.method, d.Destructive())
		}
	}
}

func TestOperationID_String(t *testing.T) {
	t.Parallel()

	if got := OpListListings.String(); got != "list_listings" {
		t.Errorf("OpListListings.String() = %q", got)
	}
	if got := operationCount.String(); got != "unknown" {
		t.Errorf("out of range String() = %q", got)
	}
}
