package telemetry

import (
	"context"
	"slices"
	"testing"
)

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	if err != nil {
		t.Fatalf("SetupTracing() error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error: %v", err)
	}
}

func TestSetupTracing_RequiresServiceName(t *testing.T) {
	t.Parallel()

	_, err := SetupTracing(context.Background(), TracingConfig{Endpoint: "http://localhost:4318"})
	if err == nil {
		t.Fatal("expected error without service name")
	}
}

func TestPropagator_Fields(t *testing.T) {
	t.Parallel()

	fields := Propagator().Fields()
	for _, want := range []string{"traceparent", "baggage"} {
		if !slices.Contains(fields, want) {
			t.Errorf("Fields() = %v, missing %s", fields, want)
		}
	}
}
