package models

import "time"

// Schedule assigns a teacher and subject to a class on a weekday period.
type Schedule struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	WeekdayID  int64     `db:"weekday_id" json:"weekday_id"`
	PeriodID   int64     `db:"period_id" json:"period_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail extends Schedule with display names.
type ScheduleDetail struct {
	Schedule
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	WeekdayName string `db:"weekday_name" json:"weekday_name"`
	PeriodName  string `db:"period_name" json:"period_name"`
	StartTime   string `db:"start_time" json:"start_time"`
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	SemesterID string
	TeacherID  string
	ClassID    string
	WeekdayID  int64
}

// ScheduleRequest is the payload for creating or updating a schedule entry.
type ScheduleRequest struct {
	SemesterID string `json:"semester_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	ClassID    string `json:"class_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	WeekdayID  int64  `json:"weekday_id" validate:"required,gt=0"`
	PeriodID   int64  `json:"period_id" validate:"required,gt=0"`
}
