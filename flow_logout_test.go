package goSession

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestLogoutRevokesAndClears(t *testing.T) {
	ctx := context.Background()

	var revoked atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		revoked.Store(req.RefreshToken)
		writeJSON(t, w, http.StatusOK, successEnvelope("Logged out.", nil))
	})

	c, nav := newTestClient(t, mux)
	seedTokens(t, c, "acc-1", "ref-1")

	if err := c.Logout(ctx); err != nil {
		t.Fatal("logout:", err)
	}

	if got, _ := revoked.Load().(string); got != "ref-1" {
		t.Fatalf("revoked refresh token: %q", got)
	}
	if _, found := c.Tokens(ctx); found {
		t.Fatal("tokens survived logout")
	}
	if c.Session().Authenticated() {
		t.Fatal("session authenticated after logout")
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
	if c.Metrics().Value(MetricLogout) != 1 {
		t.Fatal("logout not counted")
	}
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()

	c, nav := newTestClient(t, nil)
	seedTokens(t, c, "acc-1", "ref-1")
	c.config.API.BaseURL = "http://127.0.0.1:1" // revocation cannot reach anything

	if err := c.Logout(ctx); err != nil {
		t.Fatal("logout returned error for failed revocation:", err)
	}

	if _, found := c.Tokens(ctx); found {
		t.Fatal("tokens survived logout with dead backend")
	}
	if c.Session().Authenticated() {
		t.Fatal("session authenticated after logout")
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
}

func TestLogoutWithRejectedSession(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, failureEnvelope("Token invalid.", nil))
	})

	c, _ := newTestClient(t, mux)
	seedTokens(t, c, "stale", "stale")

	if err := c.Logout(ctx); err != nil {
		t.Fatal("logout surfaced interceptor error:", err)
	}
	if _, found := c.Tokens(ctx); found {
		t.Fatal("tokens survived logout")
	}
}

func TestLogoutWithoutTokensSkipsRevocation(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	c, nav := newTestClient(t, mux)

	if err := c.Logout(context.Background()); err != nil {
		t.Fatal("logout:", err)
	}
	if hits.Load() != 0 {
		t.Fatal("revocation attempted without stored tokens")
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
}
