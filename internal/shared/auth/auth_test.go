package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duxcare/portal/internal/shared/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
	}
}

func TestIssueAndValidateSession(t *testing.T) {
	cfg := testAuthConfig()

	token, err := IssueSession(cfg, RolePatient, "P001")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	var got Session
	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFrom(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got.Role != RolePatient || got.PatientID != "P001" {
		t.Errorf("Unexpected session: %+v", got)
	}
	if got.ID == "" {
		t.Error("Expected a session ID")
	}
}

func TestMiddlewareRejections(t *testing.T) {
	cfg := testAuthConfig()
	expired, err := IssueSession(config.AuthConfig{JWTSecret: cfg.JWTSecret, SessionTTL: -time.Hour}, RoleNurse, "")
	if err != nil {
		t.Fatal(err)
	}
	wrongKey, err := IssueSession(config.AuthConfig{JWTSecret: "other-secret", SessionTTL: time.Hour}, RoleNurse, "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}

	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	cfg := testAuthConfig()
	nurseToken, err := IssueSession(cfg, RoleNurse, "")
	if err != nil {
		t.Fatal(err)
	}
	patientToken, err := IssueSession(cfg, RolePatient, "P001")
	if err != nil {
		t.Fatal(err)
	}

	handler := Middleware(cfg)(RequireRole(RoleNurse)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+nurseToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected nurse to pass, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected patient to be forbidden, got %d", rec.Code)
	}
}
