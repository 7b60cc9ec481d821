package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCircuitBreakerTripsAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(testFetcher(WithMaxRetries(0)))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := cbf.Fetch(ctx, server.URL); err == nil {
			t.Fatalf("Fetch %d succeeded against failing server", i)
		}
	}

	_, err := cbf.Fetch(ctx, server.URL)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected open-breaker error, got %v", err)
	}

	states := cbf.BreakerState()
	host := extractHost(server.URL)
	if states[host] != "open" {
		t.Errorf("BreakerState()[%q] = %q, want \"open\"", host, states[host])
	}
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	cbf := NewCircuitBreakerFetcher(testFetcher())
	body, err := cbf.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", body)
	}

	host := extractHost(server.URL)
	if state := cbf.BreakerState()[host]; state != "closed" {
		t.Errorf("BreakerState()[%q] = %q, want \"closed\"", host, state)
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/path/data.json", "example.com"},
		{"https://example.com:8443/data.json", "example.com:8443"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := extractHost(tt.in); got != tt.want {
			t.Errorf("extractHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
