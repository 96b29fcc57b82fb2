package goSession

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestRequestPasswordReset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/forgotpassword/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, successEnvelope("If the account exists, a code was sent.", nil))
	})

	c, _ := newTestClient(t, mux)

	result, err := c.RequestPasswordReset(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK {
		t.Fatalf("result: %+v", result)
	}
	if c.Metrics().Value(MetricPasswordResetRequested) != 1 {
		t.Fatal("reset request not counted")
	}
}

func TestRequestPasswordResetValidatesEmail(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	c, _ := newTestClient(t, mux)

	result, err := c.RequestPasswordReset(context.Background(), "not-an-email")
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Fatal("invalid email accepted")
	}
	if result.FieldErrors.First("email") == "" {
		t.Fatalf("field errors: %v", result.FieldErrors)
	}
	if hits.Load() != 0 {
		t.Fatal("invalid email reached the network")
	}
}

func TestBeginPasswordResetGuardsMissingContext(t *testing.T) {
	cases := []struct {
		name  string
		email string
		otp   string
	}{
		{"missing otp", "ada@example.com", ""},
		{"missing email", "", "123456"},
		{"missing both", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

			c, nav := newTestClient(t, mux)

			flow, err := c.BeginPasswordReset(tc.email, tc.otp)
			if !errors.Is(err, ErrResetContextMissing) {
				t.Fatalf("want ErrResetContextMissing, got %v", err)
			}
			if flow != nil {
				t.Fatal("flow created without full context")
			}
			if nav.Last() != c.config.Routes.ForgotPassword {
				t.Fatalf("navigated to %q", nav.Last())
			}
			if hits.Load() != 0 {
				t.Fatal("guard made a network call")
			}
		})
	}
}

func TestPasswordResetSubmit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/resetpassword/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email           string `json:"email"`
			OTPCode         string `json:"otp_code"`
			Password        string `json:"password"`
			PasswordConfirm string `json:"password_confirm"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error("decode payload:", err)
		}
		if req.Email != "ada@example.com" || req.OTPCode != "123456" {
			t.Errorf("carried context: %+v", req)
		}
		writeJSON(t, w, http.StatusOK, successEnvelope("Password reset.", nil))
	})

	c, nav := newTestClient(t, mux)

	flow, err := c.BeginPasswordReset("ada@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	defer flow.Teardown()

	result, err := flow.Submit(context.Background(), "new-password-1", "new-password-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Phase != PhaseComplete {
		t.Fatalf("phase: %v", result.Phase)
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
	if c.Metrics().Value(MetricPasswordResetSuccess) != 1 {
		t.Fatal("reset success not counted")
	}
}

func TestPasswordResetValidationBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	c, _ := newTestClient(t, mux)

	flow, err := c.BeginPasswordReset("ada@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	defer flow.Teardown()

	result, err := flow.Submit(context.Background(), "new-password-1", "other")
	if err != nil {
		t.Fatal(err)
	}
	if result.Phase != PhaseFailed {
		t.Fatalf("phase: %v", result.Phase)
	}
	if result.FieldErrors.First("password_confirm") != "Passwords do not match." {
		t.Fatalf("field errors: %v", result.FieldErrors)
	}
	if hits.Load() != 0 {
		t.Fatal("invalid payload reached the network")
	}
}

func TestPasswordResetRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/resetpassword/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, failureEnvelope("Invalid or expired OTP code.", nil))
	})

	c, nav := newTestClient(t, mux)

	flow, err := c.BeginPasswordReset("ada@example.com", "999999")
	if err != nil {
		t.Fatal(err)
	}
	defer flow.Teardown()

	result, err := flow.Submit(context.Background(), "new-password-1", "new-password-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Phase != PhaseFailed {
		t.Fatalf("phase: %v", result.Phase)
	}
	if result.Message != "Invalid or expired OTP code." {
		t.Fatalf("message: %q", result.Message)
	}
	if len(nav.Routes()) != 0 {
		t.Fatalf("unexpected navigation: %v", nav.Routes())
	}
}
