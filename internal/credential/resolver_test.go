package credential

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write credential file: %v", err)
	}
	return path
}

func newTestResolver(path string, env map[string]string) *Resolver {
	r := NewResolver("CLAWSLIST_API_KEY", path)
	r.lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return r
}

func TestResolve_EnvWinsOverFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), `{"apiKey":"file-token"}`)
	r := newTestResolver(path, map[string]string{"CLAWSLIST_API_KEY": "env-token"})

	cred, ok := r.Resolve()
	if !ok {
		t.Fatal("expected a credential")
	}
	if cred.Token != "env-token" {
		t.Errorf("token = %q, want env-token", cred.Token)
	}
	if cred.Source != SourceEnv {
		t.Errorf("source = %q, want %q", cred.Source, SourceEnv)
	}
}

func TestResolve_EmptyEnvFallsBackToFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), `{"apiKey":"file-token","agentId":"a1","agentName":"crab"}`)
	r := newTestResolver(path, map[string]string{"CLAWSLIST_API_KEY": ""})

	cred, ok := r.Resolve()
	if !ok {
		t.Fatal("expected a credential")
	}
	if cred.Token != "file-token" || cred.AgentID != "a1" || cred.AgentName != "crab" {
		t.Errorf("cred = %+v", cred)
	}
	if cred.Source != SourceFile {
		t.Errorf("source = %q, want %q", cred.Source, SourceFile)
	}
}

func TestResolve_NoCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "malformed json", content: `{"apiKey":`},
		{name: "empty token", content: `{"apiKey":""}`},
		{name: "whitespace token", content: `{"apiKey":"   "}`},
		{name: "no token field", content: `{"agentId":"a1"}`},
		{name: "wrong type", content: `{"apiKey":42}`},
		{name: "not an object", content: `["token"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "credentials.json")
			if !tt.missing {
				path = writeFile(t, dir, tt.content)
			}

			r := newTestResolver(path, nil)
			if cred, ok := r.Resolve(); ok {
				t.Fatalf("expected no credential, got %+v", cred)
			}
		})
	}
}

func TestResolve_RereadsOnEveryCall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, `{"apiKey":"first"}`)
	r := newTestResolver(path, nil)

	if cred, _ := r.Resolve(); cred.Token != "first" {
		t.Fatalf("token = %q, want first", cred.Token)
	}

	writeFile(t, dir, `{"apiKey":"second"}`)
	if cred, _ := r.Resolve(); cred.Token != "second" {
		t.Fatalf("token = %q, want second", cred.Token)
	}
}

func TestResolve_ProcessEnvironment(t *testing.T) {
	t.Setenv("CLAWSLIST_TEST_KEY", "from-env")

	r := NewResolver("CLAWSLIST_TEST_KEY", filepath.Join(t.TempDir(), "none.json"))
	cred, ok := r.Resolve()
	if !ok || cred.Token != "from-env" {
		t.Fatalf("Resolve() = %+v, %v", cred, ok)
	}
}

func TestNewResolver_Defaults(t *testing.T) {
	t.Parallel()

	r := NewResolver("", "")
	if r.EnvVar() != DefaultEnvVar {
		t.Errorf("env var = %q, want %q", r.EnvVar(), DefaultEnvVar)
	}
	if filepath.Base(r.Path()) != "credentials.json" {
		t.Errorf("path = %q", r.Path())
	}
}

func TestCredential_Masked(t *testing.T) {
	t.Parallel()

	if got := (Credential{Token: "abcdefgh"}).Masked(); got != "****efgh" {
		t.Errorf("Masked() = %q", got)
	}
	if got := (Credential{Token: "abc"}).Masked(); got != "****" {
		t.Errorf("Masked() = %q", got)
	}
}
