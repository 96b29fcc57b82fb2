package goSession

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRequestDecodesFailureEnvelopeAsResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, failureEnvelope("Invalid credentials.", map[string]interface{}{
			"non_field_errors": []string{"Invalid credentials."},
		}))
	})

	c, _ := newTestClient(t, mux)

	env, err := c.Request(context.Background(), http.MethodPost, endpointLogin, LoginRequest{Email: "x@y.dev", Password: "p"}, false)
	if err != nil {
		t.Fatal("failure envelope surfaced as error:", err)
	}
	if env.Success {
		t.Fatal("success flag wrong")
	}
	if env.Message != "Invalid credentials." {
		t.Fatalf("message: %q", env.Message)
	}
	if got := env.Errors.First(NonFieldErrors); got != "Invalid credentials." {
		t.Fatalf("field errors: %v", env.Errors)
	}
}

func TestRequestTransportFailure(t *testing.T) {
	c, _ := newTestClient(t, nil)
	c.config.API.BaseURL = "http://127.0.0.1:1" // nothing listens here

	_, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, false)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}
	if c.Metrics().Value(MetricTransportFailure) == 0 {
		t.Fatal("transport failure not counted")
	}
}

func TestRequestMalformedEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	})

	c, _ := newTestClient(t, mux)

	_, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, false)
	if !errors.Is(err, ErrEnvelopeMalformed) {
		t.Fatalf("want ErrEnvelopeMalformed, got %v", err)
	}
}

func TestRequestSingleAttempt(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusInternalServerError, failureEnvelope("Server error.", nil))
	})

	c, _ := newTestClient(t, mux)

	if _, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, false); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hit %d times, want 1", got)
	}
}

func TestRequestAttachesBearerAndRequestID(t *testing.T) {
	var auth, reqID atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		reqID.Store(r.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, successEnvelope("", map[string]interface{}{
			"user": map[string]interface{}{"id": 1, "email": "x@y.dev"},
		}))
	})

	c, _ := newTestClient(t, mux)
	seedTokens(t, c, "access-1", "refresh-1")

	if _, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, true); err != nil {
		t.Fatal(err)
	}

	if got, _ := auth.Load().(string); got != "Bearer access-1" {
		t.Fatalf("authorization header: %q", got)
	}
	if got, _ := reqID.Load().(string); got == "" {
		t.Fatal("request id header missing")
	}
}

func TestRequestUnauthorizedInterception(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, failureEnvelope("Token invalid.", nil))
	})

	c, nav := newTestClient(t, mux)
	seedTokens(t, c, "stale", "stale")

	_, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, true)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}

	if _, found := c.Tokens(context.Background()); found {
		t.Fatal("tokens survived interception")
	}
	if c.Session().Authenticated() {
		t.Fatal("session still authenticated")
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
}

func TestRequestUnauthorizedIgnoredWithoutAuth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, failureEnvelope("Invalid credentials.", nil))
	})

	c, nav := newTestClient(t, mux)
	seedTokens(t, c, "live", "live")

	env, err := c.Request(context.Background(), http.MethodPost, endpointLogin, LoginRequest{Email: "x@y.dev", Password: "p"}, false)
	if err != nil {
		t.Fatal("unauthenticated request intercepted:", err)
	}
	if env.Success {
		t.Fatal("success flag wrong")
	}

	if _, found := c.Tokens(context.Background()); !found {
		t.Fatal("tokens cleared by a non-authenticated request")
	}
	if len(nav.Routes()) != 0 {
		t.Fatalf("unexpected navigation: %v", nav.Routes())
	}
}

func TestConcurrentUnauthorizedTearsDownOnce(t *testing.T) {
	const workers = 16

	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(t, w, http.StatusUnauthorized, failureEnvelope("Token invalid.", nil))
	})

	c, nav := newTestClient(t, mux)
	seedTokens(t, c, "stale", "stale")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Request(context.Background(), http.MethodGet, endpointProfile, nil, true)
		}(i)
	}

	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	if got := c.Metrics().Value(MetricSessionInvalidated); got != 1 {
		t.Fatalf("session invalidated %d times, want 1", got)
	}
	if got := len(nav.Routes()); got != 1 {
		t.Fatalf("navigated %d times, want 1: %v", got, nav.Routes())
	}
	if got := c.Metrics().Value(MetricUnauthorizedIntercepted); got != workers {
		t.Fatalf("intercepted %d, want %d", got, workers)
	}
}

func TestRequestAfterClose(t *testing.T) {
	c, _ := newTestClient(t, nil)
	_ = c.Close()

	if _, err := c.Request(context.Background(), http.MethodGet, endpointProfile, nil, false); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("want ErrClientClosed, got %v", err)
	}
}
