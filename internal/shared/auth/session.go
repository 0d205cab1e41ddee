// Package auth issues and validates portal sessions. Two roles exist:
// nurses operate the dashboard, patients talk to their own agent.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/duxcare/portal/internal/shared/config"
)

// Role identifies the session holder type.
type Role string

const (
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

// Session is the authenticated caller attached to a request context.
type Session struct {
	ID        string `json:"session_id"`
	Role      Role   `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
}

// Claims extends JWT claims with portal-specific data.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
}

// IssueSession creates a signed session token. PatientID is empty for
// nurse sessions.
func IssueSession(cfg config.AuthConfig, role Role, patientID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    "careportal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
		},
		Role:      string(role),
		PatientID: patientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
