package models

import (
	"time"

	"github.com/lib/pq"
)

// Role groups a set of menu permission paths.
type Role struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description *string        `db:"description" json:"description,omitempty"`
	Permissions pq.StringArray `db:"permissions" json:"permissions"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// RoleRequest is the payload for creating or replacing a role.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,max=64"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

// TogglePermissionRequest flips a menu node, cascading to its leaves.
type TogglePermissionRequest struct {
	Key     string `json:"key" validate:"required"`
	Enabled bool   `json:"enabled"`
}
