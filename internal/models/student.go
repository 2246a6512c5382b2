package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID        string    `db:"id" json:"id"`
	NIS       string    `db:"nis" json:"nis"`
	FullName  string    `db:"full_name" json:"full_name"`
	Gender    string    `db:"gender" json:"gender"`
	ClassID   *string   `db:"class_id" json:"class_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail adds the class name for listings.
type StudentDetail struct {
	Student
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	ClassID   string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	NIS      string  `json:"nis" validate:"required"`
	FullName string  `json:"full_name" validate:"required"`
	Gender   string  `json:"gender" validate:"required,oneof=L P"`
	ClassID  *string `json:"class_id"`
	Active   *bool   `json:"active"`
}
