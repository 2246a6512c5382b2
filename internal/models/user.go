package models

import "time"

// RoleSuperAdmin is the role name that bypasses menu permissions.
const RoleSuperAdmin = "superadmin"

// User represents an application account stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	RoleID       string     `db:"role_id" json:"role_id"`
	RoleName     string     `db:"role_name" json:"role_name"`
	TeacherID    *string    `db:"teacher_id" json:"teacher_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	RoleID    string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateUserRequest is the payload for registering an account.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	FullName  string  `json:"full_name" validate:"required"`
	RoleID    string  `json:"role_id" validate:"required"`
	TeacherID *string `json:"teacher_id"`
	Active    *bool   `json:"active"`
}

// UpdateUserRequest changes mutable account fields. An empty password keeps the current one.
type UpdateUserRequest struct {
	FullName  string  `json:"full_name" validate:"required"`
	RoleID    string  `json:"role_id" validate:"required"`
	TeacherID *string `json:"teacher_id"`
	Active    bool    `json:"active"`
	Password  string  `json:"password" validate:"omitempty,min=6"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
