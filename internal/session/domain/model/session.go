package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Role is the authorization role carried by the upstream user record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuide Role = "jasa"
	RoleUser  Role = "user"
)

// Dashboard paths the front-end navigates to after authentication.
const (
	PathLogin         = "/login"
	PathAdminHome     = "/admin"
	PathGuideHome     = "/index-jasa"
	PathUserHome      = "/dashboard-user"
	PathDashboard     = "/dashboard"
	PathSuspended     = "/suspended"
	PathLoginRegister = "/login?registered=true"
)

var (
	ErrNoStoredToken   = errors.New("no stored token")
	ErrCorruptedRecord = errors.New("stored session record is corrupted")
)

// ParseRole normalizes a role string coming from the upstream API.
// Unknown roles fall back to the regular user role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleGuide, "guide":
		return RoleGuide
	default:
		return RoleUser
	}
}

// HomePath returns the dashboard path for the role. This is the single
// role-redirect policy consumed by login, the role gates and the payment
// confirmation flow.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return PathAdminHome
	case RoleGuide:
		return PathGuideHome
	default:
		return PathUserHome
	}
}

// Session is the in-memory representation of the currently authenticated
// user. It exists if and only if a TokenRecord is present and was accepted
// by the upstream API on the last check.
type Session struct {
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Token       string    `json:"-"`
	TokenExpiry time.Time `json:"token_expiry,omitempty"`
}

// TokenRecord is the persisted form of a session: written on successful
// login/refresh, read on session restore, deleted on logout or suspension.
type TokenRecord struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  string `json:"user"`
}

// EncodeUser serializes a session for the TokenRecord user field.
func EncodeUser(s *Session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeUser deserializes the TokenRecord user field back into a session.
// The token itself lives in its own field and is re-attached by the caller.
func DecodeUser(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrCorruptedRecord
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, ErrCorruptedRecord
	}
	return &s, nil
}
