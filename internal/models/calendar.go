package models

import "time"

// Calendar event categories.
const (
	EventHoliday  = "HOLIDAY"
	EventExam     = "EXAM"
	EventActivity = "ACTIVITY"
)

// CalendarEvent is an entry on the academic calendar.
type CalendarEvent struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	StartDate   string    `db:"start_date" json:"start_date"`
	EndDate     string    `db:"end_date" json:"end_date"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CalendarFilter lists events overlapping an inclusive date range.
type CalendarFilter struct {
	From     string
	To       string
	Category string
}

// CalendarEventRequest is the payload for creating or updating an event.
type CalendarEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Category    string  `json:"category" validate:"required,oneof=HOLIDAY EXAM ACTIVITY"`
}
