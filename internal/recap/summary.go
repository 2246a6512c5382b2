package recap

import "time"

// Today status markers.
const (
	TodayPresent    = "H"
	TodayNotPresent = "T"
	TodayNoSchedule = "-"
)

// RecapSummary aggregates one teacher's classifications.
type RecapSummary struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name,omitempty"`
	Total    int    `json:"total"`
	Present  int    `json:"present"`
	Late     int    `json:"late"`
	Absent   int    `json:"absent"`
	Today    string `json:"today"`
}

// Summarize tallies days and derives the status for today.
func Summarize(person string, days []DayClassification, today time.Time) RecapSummary {
	s := RecapSummary{PersonID: person, Total: len(days)}
	for _, d := range days {
		switch d.Classification {
		case Present:
			s.Present++
		case Late:
			s.Late++
		case Absent:
			s.Absent++
		}
	}
	s.Today = todayStatus(days, today)
	return s
}

func todayStatus(days []DayClassification, today time.Time) string {
	key := FormatDate(CivilDate(today))
	for _, d := range days {
		if d.Date != key {
			continue
		}
		if d.Classification == Present {
			return TodayPresent
		}
		return TodayNotPresent
	}
	return TodayNoSchedule
}

// TeacherRecap is the result of a full teacher recap pass.
type TeacherRecap struct {
	EffectiveDays int                            `json:"effective_days"`
	Summaries     []RecapSummary                 `json:"summaries"`
	Details       map[string][]DayClassification `json:"details"`
}

// TeacherInput is the snapshot a teacher recap is computed from.
type TeacherInput struct {
	Start        time.Time
	End          time.Time
	Weekdays     []WeekdayConfig
	Schedule     []ScheduleEntry
	PeriodStarts map[int64]string
	Attendance   []AttendanceRecord
	Today        time.Time
}

// ComputeTeacherRecap runs the whole pipeline over a snapshot. Only persons with at least one
// schedule entry appear in the output.
func ComputeTeacherRecap(in TeacherInput) (*TeacherRecap, error) {
	active, err := ActiveWeekdays(in.Weekdays)
	if err != nil {
		return nil, err
	}
	calendar := ExpandRange(in.Start, in.End)
	lookup, err := BuildAttendanceLookup(in.Attendance)
	if err != nil {
		return nil, err
	}
	index := BuildScheduleIndex(in.Schedule)

	result := &TeacherRecap{
		EffectiveDays: EffectiveDays(calendar, active, in.Start),
		Summaries:     make([]RecapSummary, 0, len(index)),
		Details:       make(map[string][]DayClassification, len(index)),
	}
	for _, person := range index.Persons() {
		days := ReconcileTeacher(person, calendar, index, in.PeriodStarts, lookup)
		result.Details[person] = days
		result.Summaries = append(result.Summaries, Summarize(person, days, in.Today))
	}
	return result, nil
}
