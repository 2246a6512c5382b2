package models

import (
	"time"

	"github.com/lib/pq"
)

// TeacherAttendance is one teacher's check-in for a date. A nil CheckIn means no check-in.
type TeacherAttendance struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Date      string    `db:"date" json:"date"`
	CheckIn   *string   `db:"check_in" json:"check_in,omitempty"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherAttendanceFilter narrows attendance listings to an inclusive date range.
type TeacherAttendanceFilter struct {
	From      string
	To        string
	TeacherID string
}

// UpsertTeacherAttendanceRequest lets an administrator record or correct a check-in.
type UpsertTeacherAttendanceRequest struct {
	TeacherID string  `json:"teacher_id" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	CheckIn   *string `json:"check_in" validate:"omitempty,datetime=15:04"`
	Remarks   *string `json:"remarks"`
}

// StudentAttendance is the roster taken for one schedule slot on one date.
type StudentAttendance struct {
	ID         string         `db:"id" json:"id"`
	ScheduleID string         `db:"schedule_id" json:"schedule_id"`
	Date       string         `db:"date" json:"date"`
	Sick       pq.StringArray `db:"sick" json:"sick"`
	Leave      pq.StringArray `db:"leave" json:"leave"`
	Absent     pq.StringArray `db:"absent" json:"absent"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
	RecordedBy *string        `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// UpsertStudentAttendanceRequest records the rosters of a session. Unlisted students were present.
type UpsertStudentAttendanceRequest struct {
	ScheduleID string   `json:"schedule_id" validate:"required"`
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Sick       []string `json:"sick"`
	Leave      []string `json:"leave"`
	Absent     []string `json:"absent"`
	Notes      *string  `json:"notes"`
}
