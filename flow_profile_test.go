package goSession

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
)

func profileHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(t, w, http.StatusUnauthorized, failureEnvelope("Authentication credentials were not provided.", nil))
			return
		}

		user := map[string]interface{}{
			"id": 7, "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
		}

		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, successEnvelope("", map[string]interface{}{"user": user}))
		case http.MethodPut:
			var update ProfileUpdate
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				t.Error("decode update:", err)
			}
			user["first_name"] = update.FirstName
			user["last_name"] = update.LastName
			user["email"] = update.Email
			writeJSON(t, w, http.StatusOK, successEnvelope("Profile updated.", map[string]interface{}{"user": user}))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestProfileFetch(t *testing.T) {
	c, _ := newTestClient(t, profileHandler(t))
	seedTokens(t, c, "acc-1", "ref-1")

	result, err := c.Profile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.User.Email != "ada@example.com" {
		t.Fatalf("result: %+v", result)
	}
}

func TestProfileFetchWithoutSession(t *testing.T) {
	c, nav := newTestClient(t, profileHandler(t))

	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if nav.Last() != c.config.Routes.SignIn {
		t.Fatalf("navigated to %q", nav.Last())
	}
}

func TestProfileUpdate(t *testing.T) {
	c, _ := newTestClient(t, profileHandler(t))
	seedTokens(t, c, "acc-1", "ref-1")

	result, err := c.UpdateProfile(context.Background(), ProfileUpdate{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "ada@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.User.FirstName != "Augusta" {
		t.Fatalf("result: %+v", result)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	c, _ := newTestClient(t, mux)

	result, err := c.UpdateProfile(context.Background(), ProfileUpdate{Email: "not-an-email"})
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Fatal("invalid update accepted")
	}
	if result.FieldErrors.First("first_name") == "" || result.FieldErrors.First("email") == "" {
		t.Fatalf("field errors: %v", result.FieldErrors)
	}
	if hits.Load() != 0 {
		t.Fatal("invalid update reached the network")
	}
}

func TestChangePassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/password/change/", func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error("decode payload:", err)
		}
		if req.OldPassword != "old-secret" {
			t.Errorf("old password: %q", req.OldPassword)
		}
		writeJSON(t, w, http.StatusOK, successEnvelope("Password changed.", nil))
	})

	c, _ := newTestClient(t, mux)
	seedTokens(t, c, "acc-1", "ref-1")

	result, err := c.ChangePassword(context.Background(), ChangePasswordRequest{
		OldPassword:        "old-secret",
		NewPassword:        "new-secret-1",
		NewPasswordConfirm: "new-secret-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK {
		t.Fatalf("result: %+v", result)
	}

	// A password change does not end the session.
	if _, found := c.Tokens(context.Background()); !found {
		t.Fatal("tokens cleared by password change")
	}
	if c.Metrics().Value(MetricPasswordChangeSuccess) != 1 {
		t.Fatal("password change not counted")
	}
}

func TestChangePasswordRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/password/change/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, failureEnvelope("Password change failed.", map[string]interface{}{
			"old_password": "Old password is incorrect.",
		}))
	})

	c, _ := newTestClient(t, mux)
	seedTokens(t, c, "acc-1", "ref-1")

	result, err := c.ChangePassword(context.Background(), ChangePasswordRequest{
		OldPassword:        "wrong",
		NewPassword:        "new-secret-1",
		NewPasswordConfirm: "new-secret-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.OK {
		t.Fatal("rejection reported OK")
	}
	if result.FieldErrors.First("old_password") != "Old password is incorrect." {
		t.Fatalf("field errors: %v", result.FieldErrors)
	}
}
