package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

func strPtr(v string) *string { return &v }

type fakeSemesterRepo struct {
	items     map[string]*models.Semester
	activeErr error
	schedules map[string]int
	setActive []string
}

func (f *fakeSemesterRepo) List(ctx context.Context) ([]models.Semester, error) {
	out := make([]models.Semester, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSemesterRepo) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSemesterRepo) FindActive(ctx context.Context) (*models.Semester, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	for _, s := range f.items {
		if s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSemesterRepo) Create(ctx context.Context, semester *models.Semester) error {
	if f.items == nil {
		f.items = make(map[string]*models.Semester)
	}
	cp := *semester
	f.items[semester.ID] = &cp
	return nil
}

func (f *fakeSemesterRepo) Update(ctx context.Context, semester *models.Semester) error {
	cp := *semester
	f.items[semester.ID] = &cp
	return nil
}

func (f *fakeSemesterRepo) SetActive(ctx context.Context, id string) error {
	for key, s := range f.items {
		s.IsActive = key == id
	}
	f.setActive = append(f.setActive, id)
	return nil
}

func (f *fakeSemesterRepo) CountSchedules(ctx context.Context, id string) (int, error) {
	return f.schedules[id], nil
}

func (f *fakeSemesterRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeWeekdayRepo struct {
	items []models.Weekday
}

func (f *fakeWeekdayRepo) List(ctx context.Context) ([]models.Weekday, error) {
	return append([]models.Weekday(nil), f.items...), nil
}

func (f *fakeWeekdayRepo) FindByID(ctx context.Context, id int64) (*models.Weekday, error) {
	for _, w := range f.items {
		if w.ID == id {
			cp := w
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeWeekdayRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Enabled = enabled
			return nil
		}
	}
	return sql.ErrNoRows
}

func schoolWeek() *fakeWeekdayRepo {
	return &fakeWeekdayRepo{items: []models.Weekday{
		{ID: 1, Name: "Senin", Enabled: true},
		{ID: 2, Name: "Selasa", Enabled: true},
		{ID: 3, Name: "Rabu", Enabled: true},
		{ID: 4, Name: "Kamis", Enabled: true},
		{ID: 5, Name: "Jumat", Enabled: true},
		{ID: 6, Name: "Sabtu", Enabled: false},
		{ID: 7, Name: "Minggu", Enabled: false},
	}}
}

type fakePeriodRepo struct {
	items     []models.Period
	schedules map[int64]int
}

func (f *fakePeriodRepo) List(ctx context.Context) ([]models.Period, error) {
	return append([]models.Period(nil), f.items...), nil
}

func (f *fakePeriodRepo) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	for _, p := range f.items {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePeriodRepo) Create(ctx context.Context, period *models.Period) error {
	period.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *period)
	return nil
}

func (f *fakePeriodRepo) Update(ctx context.Context, period *models.Period) error {
	for i := range f.items {
		if f.items[i].ID == period.ID {
			f.items[i] = *period
		}
	}
	return nil
}

func (f *fakePeriodRepo) CountSchedules(ctx context.Context, id int64) (int, error) {
	return f.schedules[id], nil
}

func (f *fakePeriodRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type fakeScheduleRepo struct {
	items []models.Schedule
}

func (f *fakeScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, error) {
	var out []models.ScheduleDetail
	for _, s := range f.items {
		if filter.SemesterID != "" && s.SemesterID != filter.SemesterID {
			continue
		}
		out = append(out, models.ScheduleDetail{Schedule: s})
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListSlots(ctx context.Context, semesterID string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.items {
		if s.SemesterID == semesterID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	for _, s := range f.items {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) FindConflicts(ctx context.Context, semesterID string, weekdayID, periodID int64) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.items {
		if s.SemesterID == semesterID && s.WeekdayID == weekdayID && s.PeriodID == periodID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	f.items = append(f.items, *schedule)
	return nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	for i := range f.items {
		if f.items[i].ID == schedule.ID {
			f.items[i] = *schedule
		}
	}
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeTeacherAttendanceRepo struct {
	rows       []models.TeacherAttendance
	lastFilter models.TeacherAttendanceFilter
}

func (f *fakeTeacherAttendanceRepo) List(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error) {
	f.lastFilter = filter
	var out []models.TeacherAttendance
	for _, r := range f.rows {
		if filter.TeacherID != "" && r.TeacherID != filter.TeacherID {
			continue
		}
		if (filter.From != "" && r.Date < filter.From) || (filter.To != "" && r.Date > filter.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeTeacherAttendanceRepo) CheckIn(ctx context.Context, teacherID, date, clock string) (*models.TeacherAttendance, bool, error) {
	for i := range f.rows {
		r := &f.rows[i]
		if r.TeacherID != teacherID || r.Date != date {
			continue
		}
		if r.CheckIn != nil {
			cp := *r
			return &cp, false, nil
		}
		r.CheckIn = strPtr(clock)
		cp := *r
		return &cp, true, nil
	}
	row := models.TeacherAttendance{ID: "ta-" + teacherID + "-" + date, TeacherID: teacherID, Date: date, CheckIn: strPtr(clock)}
	f.rows = append(f.rows, row)
	return &row, true, nil
}

func (f *fakeTeacherAttendanceRepo) Upsert(ctx context.Context, record *models.TeacherAttendance) (*models.TeacherAttendance, error) {
	for i := range f.rows {
		if f.rows[i].TeacherID == record.TeacherID && f.rows[i].Date == record.Date {
			f.rows[i].CheckIn = record.CheckIn
			f.rows[i].Remarks = record.Remarks
			cp := f.rows[i]
			return &cp, nil
		}
	}
	f.rows = append(f.rows, *record)
	return record, nil
}

type fakeTeacherRepo struct {
	items       map[string]*models.Teacher
	nipIndex    map[string]string
	deactivated []string
}

func newFakeTeacherRepo(teachers ...models.Teacher) *fakeTeacherRepo {
	f := &fakeTeacherRepo{items: make(map[string]*models.Teacher), nipIndex: make(map[string]string)}
	for i := range teachers {
		t := teachers[i]
		f.items[t.ID] = &t
		if t.NIP != nil {
			f.nipIndex[*t.NIP] = t.ID
		}
	}
	return f
}

func (f *fakeTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	out := make([]models.Teacher, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, len(out), nil
}

func (f *fakeTeacherRepo) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if t, ok := f.items[id]; ok {
			out[id] = t.FullName
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeacherRepo) ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error) {
	owner, ok := f.nipIndex[nip]
	return ok && owner != excludeID, nil
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	cp := *teacher
	f.items[teacher.ID] = &cp
	if teacher.NIP != nil {
		f.nipIndex[*teacher.NIP] = teacher.ID
	}
	return nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	cp := *teacher
	f.items[teacher.ID] = &cp
	return nil
}

func (f *fakeTeacherRepo) Deactivate(ctx context.Context, id string) error {
	f.items[id].Active = false
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeClassRepo struct {
	items map[string]*models.ClassDetail
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

type fakeRosterRepo struct {
	byClass map[string][]models.Student
}

func (f *fakeRosterRepo) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return f.byClass[classID], nil
}

type fakeSessionRepo struct {
	byClass map[string][]models.StudentAttendance
	saved   []models.StudentAttendance
}

func (f *fakeSessionRepo) ListByClass(ctx context.Context, classID, from, to string) ([]models.StudentAttendance, error) {
	var out []models.StudentAttendance
	for _, row := range f.byClass[classID] {
		if row.Date >= from && row.Date <= to {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Find(ctx context.Context, scheduleID, date string) (*models.StudentAttendance, error) {
	for _, row := range f.saved {
		if row.ScheduleID == scheduleID && row.Date == date {
			cp := row
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSessionRepo) Upsert(ctx context.Context, record *models.StudentAttendance) (*models.StudentAttendance, error) {
	f.saved = append(f.saved, *record)
	return record, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	m.deleted = append(m.deleted, pattern)
	return nil
}

func (m *memoryCacheRepo) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for key := range m.data {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
