package recap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Classification is the outcome of one scheduled day.
type Classification string

const (
	Present Classification = "PRESENT"
	Late    Classification = "LATE"
	Absent  Classification = "ABSENT"
	Sick    Classification = "SICK"
	Leave   Classification = "LEAVE"
)

// DayClassification is the detail log entry for one person and date.
type DayClassification struct {
	Date           string         `json:"date"`
	Classification Classification `json:"classification"`
	CheckIn        *string        `json:"check_in"`
}

// AttendanceRecord is a stored check-in for one person on one date.
type AttendanceRecord struct {
	PersonID string
	Date     string
	CheckIn  *string
}

// AttendanceLookup indexes check-ins by person and date.
type AttendanceLookup map[string]map[string]*string

// BuildAttendanceLookup indexes records, rejecting malformed dates. A later record for the
// same person and date replaces an earlier one.
func BuildAttendanceLookup(records []AttendanceRecord) (AttendanceLookup, error) {
	lookup := make(AttendanceLookup)
	for _, rec := range records {
		d, err := ParseDate(rec.Date)
		if err != nil {
			return nil, err
		}
		byDate, ok := lookup[rec.PersonID]
		if !ok {
			byDate = make(map[string]*string)
			lookup[rec.PersonID] = byDate
		}
		var checkIn *string
		if rec.CheckIn != nil && strings.TrimSpace(*rec.CheckIn) != "" {
			v := NormalizeClock(*rec.CheckIn)
			checkIn = &v
		}
		byDate[FormatDate(d)] = checkIn
	}
	return lookup, nil
}

// CheckIn returns the recorded check-in time, nil when absent.
func (l AttendanceLookup) CheckIn(person, date string) *string {
	return l[person][date]
}

// NormalizeClock renders "7:5", "07:05" or "07:05:59" as zero-padded "HH:MM". Values that
// do not look like a clock are returned trimmed and unchanged.
func NormalizeClock(raw string) string {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return raw
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return raw
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return raw
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ReconcileTeacher classifies every date of calendar on which person has at least one
// scheduled period. periodStarts maps period id to its start time.
func ReconcileTeacher(person string, calendar []time.Time, index ScheduleIndex, periodStarts map[int64]string, attendance AttendanceLookup) []DayClassification {
	days, ok := index[person]
	if !ok {
		return nil
	}
	out := make([]DayClassification, 0)
	for _, day := range calendar {
		if len(days[day.Weekday()]) == 0 {
			continue
		}
		date := FormatDate(day)
		checkIn := attendance.CheckIn(person, date)
		if checkIn == nil {
			out = append(out, DayClassification{Date: date, Classification: Absent})
			continue
		}

		class := Present
		first, _ := index.FirstPeriod(person, day.Weekday())
		if start, ok := periodStarts[first]; ok && *checkIn > NormalizeClock(start) {
			class = Late
		}
		v := *checkIn
		out = append(out, DayClassification{Date: date, Classification: class, CheckIn: &v})
	}
	return out
}
