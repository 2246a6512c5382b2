package models

import "time"

// Semester bounds the recap calendar. Dates are YYYY-MM-DD and may be unset while drafting.
type Semester struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	StartDate    *string   `db:"start_date" json:"start_date,omitempty"`
	EndDate      *string   `db:"end_date" json:"end_date,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SemesterRequest is the payload for creating or updating a semester.
type SemesterRequest struct {
	Name         string  `json:"name" validate:"required"`
	AcademicYear string  `json:"academic_year" validate:"required"`
	StartDate    *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
