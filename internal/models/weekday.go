package models

// Weekday is a configurable school day.
type Weekday struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Enabled bool   `db:"enabled" json:"enabled"`
}

// UpdateWeekdayRequest toggles a weekday on or off.
type UpdateWeekdayRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
