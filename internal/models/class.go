package models

import "time"

// Class represents a homeroom group of students.
type Class struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Grade             string    `db:"grade" json:"grade"`
	MajorID           *string   `db:"major_id" json:"major_id,omitempty"`
	HomeroomTeacherID *string   `db:"homeroom_teacher_id" json:"homeroom_teacher_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with major and homeroom teacher names.
type ClassDetail struct {
	Class
	MajorName           *string `db:"major_name" json:"major_name,omitempty"`
	HomeroomTeacherName *string `db:"homeroom_teacher_name" json:"homeroom_teacher_name,omitempty"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Grade     string
	MajorID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Name              string  `json:"name" validate:"required"`
	Grade             string  `json:"grade" validate:"required,oneof=X XI XII"`
	MajorID           *string `json:"major_id"`
	HomeroomTeacherID *string `json:"homeroom_teacher_id"`
}
