package recap

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage representation of calendar dates.
const DateLayout = "2006-01-02"

// Recap computation errors.
var (
	ErrMissingActiveSemester   = errors.New("no active semester")
	ErrIncompleteSemesterDates = errors.New("active semester has no start or end date")
	ErrInvalidDateFormat       = errors.New("invalid date format")
	ErrUnrecognizedWeekday     = errors.New("unrecognized weekday")
)

// ParseDate parses a YYYY-MM-DD string into a civil date held at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	return d, nil
}

// CivilDate drops the clock and zone of t, keeping the calendar date it has in its own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ExpandCalendar returns every date from start to end inclusive in ascending order.
func ExpandCalendar(start, end string) ([]time.Time, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	return ExpandRange(from, to), nil
}

// ExpandRange is ExpandCalendar for already parsed dates.
func ExpandRange(start, end time.Time) []time.Time {
	from, to := CivilDate(start), CivilDate(end)
	if from.After(to) {
		return []time.Time{}
	}
	days := int(to.Sub(from).Hours()/24) + 1
	out := make([]time.Time, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
