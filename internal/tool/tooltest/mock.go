// Package tooltest provides test helpers and mocks for the tool package.
package tooltest

import (
	"sync"
	"time"

	"github.com/flemzord/clawslist-mcp/internal/credential"
	"github.com/flemzord/clawslist-mcp/internal/tool"
)

// StaticResolver is a tool.CredentialResolver returning a fixed credential.
// The zero value resolves nothing.
type StaticResolver struct {
	Credential credential.Credential
	Found      bool

	mu    sync.Mutex
	calls int
}

// Resolve implements tool.CredentialResolver.
func (r *StaticResolver) Resolve() (credential.Credential, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.Credential, r.Found
}

// Calls returns how many times Resolve was called.
func (r *StaticResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Token returns a resolver yielding token from the environment source.
func Token(token string) *StaticResolver {
	return &StaticResolver{
		Credential: credential.Credential{Token: token, Source: credential.SourceEnv},
		Found:      true,
	}
}

// Invocation is one observed tool invocation.
type Invocation struct {
	Tool    string
	Outcome tool.Outcome
}

// RecordingObserver is a tool.Observer that records every invocation.
type RecordingObserver struct {
	mu          sync.Mutex
	invocations []Invocation
}

// ObserveInvocation implements tool.Observer.
func (o *RecordingObserver) ObserveInvocation(name string, outcome tool.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invocations = append(o.invocations, Invocation{Tool: name, Outcome: outcome})
}

// Invocations returns a snapshot of recorded invocations.
func (o *RecordingObserver) Invocations() []Invocation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Invocation(nil), o.invocations...)
}
