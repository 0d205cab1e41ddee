package patient

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestGeneratePassword(t *testing.T) {
	var p Patient

	password, err := p.GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}

	if len(password) != 12 {
		t.Errorf("Expected 12 characters, got %d", len(password))
	}
	for _, c := range password {
		if !strings.ContainsRune(passwordCharset, c) {
			t.Errorf("Password contains character outside charset: %q", c)
		}
	}
	if p.Password != password {
		t.Error("Expected password to be assigned to the patient record")
	}
}

func TestGenerateMagicToken(t *testing.T) {
	var p Patient
	before := time.Now()

	token, err := p.GenerateMagicToken()
	if err != nil {
		t.Fatalf("GenerateMagicToken failed: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("Expected URL-safe base64 token, got %q: %v", token, err)
	}
	if len(raw) != 32 {
		t.Errorf("Expected 32 bytes of entropy, got %d", len(raw))
	}

	if p.MagicToken != token {
		t.Error("Expected token to be assigned to the patient record")
	}
	if p.TokenExpires == nil {
		t.Fatal("Expected token expiry to be set")
	}
	ttl := p.TokenExpires.Sub(before)
	if ttl < 7*24*time.Hour-time.Minute || ttl > 7*24*time.Hour+time.Minute {
		t.Errorf("Expected roughly 7 day expiry, got %v", ttl)
	}
}

func TestTokenValid(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		patient Patient
		now     time.Time
		want    bool
	}{
		{"before expiry", Patient{MagicToken: "tok", TokenExpires: &expiry}, expiry.Add(-time.Second), true},
		{"at expiry", Patient{MagicToken: "tok", TokenExpires: &expiry}, expiry, false},
		{"after expiry", Patient{MagicToken: "tok", TokenExpires: &expiry}, expiry.Add(time.Second), false},
		{"no token", Patient{TokenExpires: &expiry}, expiry.Add(-time.Second), false},
		{"no expiry", Patient{MagicToken: "tok"}, expiry.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patient.TokenValid(tt.now); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
