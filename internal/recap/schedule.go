package recap

import (
	"sort"
	"time"
)

// ScheduleEntry assigns a person to a period on a weekday.
type ScheduleEntry struct {
	PersonID string
	Weekday  time.Weekday
	PeriodID int64
}

// ScheduleIndex maps person → weekday → ascending period ids.
type ScheduleIndex map[string]map[time.Weekday][]int64

// BuildScheduleIndex groups schedule entries by person and weekday. Entries without a person
// are ignored.
func BuildScheduleIndex(entries []ScheduleEntry) ScheduleIndex {
	index := make(ScheduleIndex)
	for _, e := range entries {
		if e.PersonID == "" {
			continue
		}
		days, ok := index[e.PersonID]
		if !ok {
			days = make(map[time.Weekday][]int64)
			index[e.PersonID] = days
		}
		days[e.Weekday] = insertPeriod(days[e.Weekday], e.PeriodID)
	}
	return index
}

func insertPeriod(ids []int64, id int64) []int64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// Persons returns the scheduled person ids sorted.
func (idx ScheduleIndex) Persons() []string {
	out := make([]string, 0, len(idx))
	for id := range idx {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// FirstPeriod returns the lowest period id scheduled for person on wd.
func (idx ScheduleIndex) FirstPeriod(person string, wd time.Weekday) (int64, bool) {
	ids := idx[person][wd]
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}
