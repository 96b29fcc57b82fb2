package goSession

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/store"
)

// recordingNavigator captures every route the client drives.
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

func (n *recordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Error("encode response:", err)
	}
}

func successEnvelope(message string, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"message": message,
		"data":    data,
	}
}

func failureEnvelope(message string, fieldErrors map[string]interface{}) map[string]interface{} {
	env := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if fieldErrors != nil {
		env["errors"] = fieldErrors
	}
	return env
}

func tokenData(access, refresh string) map[string]interface{} {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"id": 7, "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
		},
		"tokens": map[string]interface{}{
			"access": access, "refresh": refresh,
		},
	}
}

// newTestClient wires a client against the given handler with an in-memory
// store and a recording navigator. Countdown ticks are shortened so resend
// tests stay fast.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *recordingNavigator) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.OTP.ResendCooldown = 40 * time.Millisecond
	cfg.OTP.CountdownTick = 10 * time.Millisecond

	nav := &recordingNavigator{}

	client, err := New().
		WithConfig(cfg).
		WithNavigator(nav).
		Build(context.Background())
	if err != nil {
		t.Fatal("build client:", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client, nav
}

func seedTokens(t *testing.T, c *Client, access, refresh string) {
	t.Helper()

	if err := c.storeTokens(context.Background(), store.Pair{Access: access, Refresh: refresh}, "test"); err != nil {
		t.Fatal("seed tokens:", err)
	}
}
