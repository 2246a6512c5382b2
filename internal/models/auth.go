package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/sma-absensi-api/internal/menu"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session token and user info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	TeacherID   *string  `json:"teacher_id,omitempty"`
	Permissions []string `json:"permissions"`
}

// SessionClaims is the signed payload of the session cookie. Permissions are captured at login.
type SessionClaims struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	RoleID      string   `json:"role_id"`
	Role        string   `json:"role"`
	TeacherID   string   `json:"teacher_id,omitempty"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// IsSuperAdmin reports whether the session bypasses permission checks.
func (c *SessionClaims) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleSuperAdmin
}

// Info converts claims into the public user description.
func (c *SessionClaims) Info() UserInfo {
	info := UserInfo{
		ID:          c.UserID,
		Email:       c.Email,
		FullName:    c.FullName,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
	if c.TeacherID != "" {
		teacherID := c.TeacherID
		info.TeacherID = &teacherID
	}
	if info.Permissions == nil {
		info.Permissions = []string{}
	}
	return info
}

// ChangePasswordRequest replaces the password of the signed-in user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
}

// MeResponse describes the session owner and the menu filtered by their permissions.
type MeResponse struct {
	User UserInfo    `json:"user"`
	Menu []menu.Item `json:"menu"`
}
