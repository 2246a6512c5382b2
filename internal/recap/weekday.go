package recap

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"minggu":    time.Sunday,
	"ahad":      time.Sunday,
	"monday":    time.Monday,
	"senin":     time.Monday,
	"tuesday":   time.Tuesday,
	"selasa":    time.Tuesday,
	"wednesday": time.Wednesday,
	"rabu":      time.Wednesday,
	"thursday":  time.Thursday,
	"kamis":     time.Thursday,
	"friday":    time.Friday,
	"jumat":     time.Friday,
	"jum'at":    time.Friday,
	"saturday":  time.Saturday,
	"sabtu":     time.Saturday,
}

// ParseWeekday maps an English or Indonesian weekday name to its time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedWeekday, name)
	}
	return wd, nil
}

// WeekdayConfig marks whether a named weekday is an instructional day.
type WeekdayConfig struct {
	ID      int64
	Name    string
	Enabled bool
}

// WeekdaySet is a bit set of weekdays.
type WeekdaySet uint8

// Add returns the set with wd included.
func (s WeekdaySet) Add(wd time.Weekday) WeekdaySet {
	return s | 1<<uint(wd)
}

// Has reports whether wd is in the set.
func (s WeekdaySet) Has(wd time.Weekday) bool {
	return s&(1<<uint(wd)) != 0
}

// Len counts members.
func (s WeekdaySet) Len() int {
	n := 0
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if s.Has(wd) {
			n++
		}
	}
	return n
}

// Weekdays lists members from Sunday to Saturday.
func (s WeekdaySet) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if s.Has(wd) {
			out = append(out, wd)
		}
	}
	return out
}

// ActiveWeekdays returns the enabled weekdays. Every config name must be recognised,
// disabled ones included.
func ActiveWeekdays(configs []WeekdayConfig) (WeekdaySet, error) {
	var set WeekdaySet
	for _, cfg := range configs {
		wd, err := ParseWeekday(cfg.Name)
		if err != nil {
			return 0, err
		}
		if cfg.Enabled {
			set = set.Add(wd)
		}
	}
	return set, nil
}

// WeekdayTable resolves stored weekday ids to weekdays.
func WeekdayTable(configs []WeekdayConfig) (map[int64]time.Weekday, error) {
	table := make(map[int64]time.Weekday, len(configs))
	for _, cfg := range configs {
		wd, err := ParseWeekday(cfg.Name)
		if err != nil {
			return nil, err
		}
		table[cfg.ID] = wd
	}
	return table, nil
}

// EffectiveDays counts calendar dates falling on an active weekday. Whole weeks are
// counted arithmetically; only the trailing partial week is walked.
func EffectiveDays(calendar []time.Time, active WeekdaySet, start time.Time) int {
	if len(calendar) == 0 {
		return 0
	}
	fullWeeks := len(calendar) / 7
	effective := fullWeeks * active.Len()

	day := CivilDate(start).AddDate(0, 0, fullWeeks*7)
	for i := 0; i < len(calendar)%7; i++ {
		if active.Has(day.Weekday()) {
			effective++
		}
		day = day.AddDate(0, 0, 1)
	}
	return effective
}
