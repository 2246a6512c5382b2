package recap

import (
	"sort"
	"time"
)

// Session is the roster taken for one schedule slot on one date. Students not listed in
// any of the three rosters were present.
type Session struct {
	ScheduleID string
	Date       string
	Sick       []string
	Leave      []string
	Absent     []string
}

// StudentSummary aggregates one student's classifications.
type StudentSummary struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name,omitempty"`
	Total    int    `json:"total"`
	Present  int    `json:"present"`
	Sick     int    `json:"sick"`
	Leave    int    `json:"leave"`
	Absent   int    `json:"absent"`
	Today    string `json:"today"`
}

type rosterDay struct {
	sick   map[string]struct{}
	leave  map[string]struct{}
	absent map[string]struct{}
}

// SessionIndex groups session rosters by date.
type SessionIndex map[string]*rosterDay

// BuildSessionIndex merges all sessions held on the same date.
func BuildSessionIndex(sessions []Session) (SessionIndex, error) {
	index := make(SessionIndex)
	for _, s := range sessions {
		d, err := ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		key := FormatDate(d)
		day, ok := index[key]
		if !ok {
			day = &rosterDay{
				sick:   make(map[string]struct{}),
				leave:  make(map[string]struct{}),
				absent: make(map[string]struct{}),
			}
			index[key] = day
		}
		addAll(day.sick, s.Sick)
		addAll(day.leave, s.Leave)
		addAll(day.absent, s.Absent)
	}
	return index, nil
}

func addAll(set map[string]struct{}, ids []string) {
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// Dates returns the session dates in ascending order.
func (idx SessionIndex) Dates() []string {
	out := make([]string, 0, len(idx))
	for d := range idx {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ReconcileStudent classifies every session date for a student. Sick takes precedence over
// leave, and leave over absent.
func ReconcileStudent(student string, index SessionIndex) []DayClassification {
	dates := index.Dates()
	out := make([]DayClassification, 0, len(dates))
	for _, date := range dates {
		day := index[date]
		class := Present
		if _, ok := day.sick[student]; ok {
			class = Sick
		} else if _, ok := day.leave[student]; ok {
			class = Leave
		} else if _, ok := day.absent[student]; ok {
			class = Absent
		}
		out = append(out, DayClassification{Date: date, Classification: class})
	}
	return out
}

// SummarizeStudent tallies a student's days into four categories.
func SummarizeStudent(student string, days []DayClassification, today time.Time) StudentSummary {
	s := StudentSummary{PersonID: student, Total: len(days)}
	for _, d := range days {
		switch d.Classification {
		case Present:
			s.Present++
		case Sick:
			s.Sick++
		case Leave:
			s.Leave++
		case Absent:
			s.Absent++
		}
	}
	s.Today = todayStatus(days, today)
	return s
}

// StudentRecap is the result of a class recap pass.
type StudentRecap struct {
	SessionDays int                            `json:"session_days"`
	Summaries   []StudentSummary               `json:"summaries"`
	Details     map[string][]DayClassification `json:"details"`
}

// ComputeStudentRecap classifies every student in roster against the class sessions.
func ComputeStudentRecap(roster []string, sessions []Session, today time.Time) (*StudentRecap, error) {
	index, err := BuildSessionIndex(sessions)
	if err != nil {
		return nil, err
	}
	result := &StudentRecap{
		SessionDays: len(index),
		Summaries:   make([]StudentSummary, 0, len(roster)),
		Details:     make(map[string][]DayClassification, len(roster)),
	}
	for _, student := range roster {
		if _, seen := result.Details[student]; seen {
			continue
		}
		days := ReconcileStudent(student, index)
		result.Details[student] = days
		result.Summaries = append(result.Summaries, SummarizeStudent(student, days, today))
	}
	return result, nil
}
