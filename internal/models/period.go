package models

// Period is a daily lesson slot. Times are HH:MM in the school time zone.
type Period struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// PeriodRequest is the payload for creating or updating a period.
type PeriodRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}
