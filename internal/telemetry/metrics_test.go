package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/flemzord/clawslist-mcp/internal/tool"
)

func TestMetrics_ObserveInvocation(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveInvocation("list_listings", tool.OutcomeSuccess, 10*time.Millisecond)
	m.ObserveInvocation("list_listings", tool.OutcomeSuccess, 20*time.Millisecond)
	m.ObserveInvocation("get_agent_info", tool.OutcomeUnauthenticated, time.Millisecond)

	if got := testutil.ToFloat64(m.invocations.WithLabelValues("list_listings", "success")); got != 2 {
		t.Errorf("list_listings success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.invocations.WithLabelValues("get_agent_info", "unauthenticated")); got != 1 {
		t.Errorf("get_agent_info unauthenticated = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.invocationDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestMetrics_ObserveRequest(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, http.StatusOK, time.Millisecond)
	m.ObserveRequest(http.MethodGet, 0, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("GET 200 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "0")); got != 1 {
		t.Errorf("GET 0 = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveInvocation("get_listing", tool.OutcomeFailure, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	want := `clawslist_mcp_tool_invocations_total{outcome="failure",tool="get_listing"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("exposition missing %q", want)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("runtime collector not registered")
	}
}
