package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type recapFixture struct {
	semesters  *fakeSemesterRepo
	attendance *fakeTeacherAttendanceRepo
	cacheRepo  *memoryCacheRepo
	svc        *RecapService
}

func newRecapFixture(t *testing.T, cacheEnabled bool) *recapFixture {
	t.Helper()
	semesters := &fakeSemesterRepo{items: map[string]*models.Semester{
		"sem-1": {ID: "sem-1", Name: "Ganjil 2024", StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-01-07"), IsActive: true},
	}}
	periods := &fakePeriodRepo{items: []models.Period{
		{ID: 1, Name: "Jam 1", StartTime: "07:00", EndTime: "07:45"},
		{ID: 2, Name: "Jam 2", StartTime: "07:45:00", EndTime: "08:30"},
	}}
	schedules := &fakeScheduleRepo{items: []models.Schedule{
		{ID: "sch-1", SemesterID: "sem-1", TeacherID: "t1", ClassID: "c1", WeekdayID: 1, PeriodID: 1},
		{ID: "sch-2", SemesterID: "sem-1", TeacherID: "t1", ClassID: "c1", WeekdayID: 3, PeriodID: 2},
		{ID: "sch-3", SemesterID: "sem-1", TeacherID: "t2", ClassID: "c1", WeekdayID: 2, PeriodID: 1},
		{ID: "sch-9", SemesterID: "sem-0", TeacherID: "t3", ClassID: "c1", WeekdayID: 1, PeriodID: 1},
	}}
	attendance := &fakeTeacherAttendanceRepo{rows: []models.TeacherAttendance{
		{TeacherID: "t1", Date: "2024-01-01", CheckIn: strPtr("06:55")},
		{TeacherID: "t1", Date: "2024-01-03", CheckIn: strPtr("07:50")},
	}}
	teachers := newFakeTeacherRepo(
		models.Teacher{ID: "t1", FullName: "Bu Sari", Active: true},
		models.Teacher{ID: "t2", FullName: "Pak Budi", Active: true},
	)
	classes := &fakeClassRepo{items: map[string]*models.ClassDetail{"c1": {Class: models.Class{ID: "c1", Name: "X IPA 1"}}}}
	roster := &fakeRosterRepo{byClass: map[string][]models.Student{"c1": {
		{ID: "s1", FullName: "Andi"}, {ID: "s2", FullName: "Bima"}, {ID: "s3", FullName: "Citra"},
	}}}
	sessions := &fakeSessionRepo{byClass: map[string][]models.StudentAttendance{"c1": {
		{ScheduleID: "sch-1", Date: "2024-01-01", Sick: pq.StringArray{"s1"}},
		{ScheduleID: "sch-3", Date: "2024-01-02", Leave: pq.StringArray{"s1"}, Absent: pq.StringArray{"s2"}},
		{ScheduleID: "sch-1", Date: "2024-02-05", Absent: pq.StringArray{"s3"}},
	}}}

	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheEnabled)
	svc := NewRecapService(RecapSources{
		Semesters:         semesters,
		Weekdays:          schoolWeek(),
		Periods:           periods,
		Schedules:         schedules,
		TeacherAttendance: attendance,
		Teachers:          teachers,
		Classes:           classes,
		Students:          roster,
		Sessions:          sessions,
	}, cache, NewMetricsService(), zap.NewNop(), RecapConfig{
		Location: time.FixedZone("WIB", 7*3600),
		Now:      func() time.Time { return time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC) },
	})
	return &recapFixture{semesters: semesters, attendance: attendance, cacheRepo: cacheRepo, svc: svc}
}

func summaryOf(t *testing.T, summaries []recap.RecapSummary, person string) recap.RecapSummary {
	t.Helper()
	for _, s := range summaries {
		if s.PersonID == person {
			return s
		}
	}
	t.Fatalf("no summary for %s", person)
	return recap.RecapSummary{}
}

func TestRecapServiceTodayUsesSchoolTimezone(t *testing.T) {
	fx := newRecapFixture(t, false)
	assert.Equal(t, "2024-01-03", recap.FormatDate(fx.svc.Today()))
}

func TestRecapServiceTeacherRecap(t *testing.T) {
	fx := newRecapFixture(t, false)

	res, hit, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "sem-1", res.Semester.ID)
	assert.Equal(t, "2024-01-03", res.Today)
	assert.Equal(t, 5, res.EffectiveDays)
	require.Len(t, res.Summaries, 2)

	t1 := summaryOf(t, res.Summaries, "t1")
	assert.Equal(t, "Bu Sari", t1.Name)
	assert.Equal(t, 2, t1.Total)
	assert.Equal(t, 1, t1.Present)
	assert.Equal(t, 1, t1.Late)
	assert.Equal(t, recap.TodayNotPresent, t1.Today)

	t2 := summaryOf(t, res.Summaries, "t2")
	assert.Equal(t, 1, t2.Absent)
	assert.Equal(t, recap.TodayNoSchedule, t2.Today)

	require.Len(t, res.Details["t1"], 2)
	assert.Equal(t, recap.Late, res.Details["t1"][1].Classification)
	assert.Equal(t, "2024-01-01", fx.attendance.lastFilter.From)
	assert.Equal(t, "2024-01-07", fx.attendance.lastFilter.To)
}

func TestRecapServiceTeacherFilter(t *testing.T) {
	fx := newRecapFixture(t, true)

	res, _, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{TeacherID: "t2"})
	require.NoError(t, err)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, "t2", res.Summaries[0].PersonID)
	assert.Equal(t, "t2", fx.attendance.lastFilter.TeacherID)
	assert.Equal(t, []string{"recap:teacher:sem-1:2024-01-03:t2"}, fx.cacheRepo.keys())
}

func TestRecapServiceTeacherRecapCache(t *testing.T) {
	fx := newRecapFixture(t, true)

	first, hit, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	require.NoError(t, err)
	assert.False(t, hit)

	fx.attendance.rows = nil
	second, hit, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Summaries, second.Summaries)

	fx.svc.cache.InvalidateRecaps(context.Background())
	third, hit, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, summaryOf(t, third.Summaries, "t1").Present)
}

func TestRecapServiceSemesterErrors(t *testing.T) {
	fx := newRecapFixture(t, false)

	fx.semesters.items["sem-1"].IsActive = false
	_, _, err := fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	assert.Equal(t, appErrors.ErrMissingActiveSemester.Code, appErrors.FromError(err).Code)

	fx.semesters.items["sem-1"].IsActive = true
	fx.semesters.items["sem-1"].EndDate = nil
	_, _, err = fx.svc.TeacherRecap(context.Background(), dto.RecapQuery{})
	assert.Equal(t, appErrors.ErrIncompleteSemesterDates.Code, appErrors.FromError(err).Code)

	fx.semesters.items["sem-1"].EndDate = strPtr("2024/01/07")
	_, _, err = fx.svc.StudentRecap(context.Background(), "c1")
	assert.Equal(t, appErrors.ErrInvalidDateFormat.Code, appErrors.FromError(err).Code)
}

func TestRecapServiceStudentRecap(t *testing.T) {
	fx := newRecapFixture(t, false)

	res, hit, err := fx.svc.StudentRecap(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "c1", res.ClassID)
	assert.Equal(t, 2, res.SessionDays)
	require.Len(t, res.Summaries, 3)

	byID := make(map[string]recap.StudentSummary)
	for _, s := range res.Summaries {
		byID[s.PersonID] = s
	}
	assert.Equal(t, recap.StudentSummary{PersonID: "s1", Name: "Andi", Total: 2, Sick: 1, Leave: 1, Today: recap.TodayNoSchedule}, byID["s1"])
	assert.Equal(t, recap.StudentSummary{PersonID: "s2", Name: "Bima", Total: 2, Present: 1, Absent: 1, Today: recap.TodayNoSchedule}, byID["s2"])
	assert.Equal(t, 2, byID["s3"].Present)

	_, _, err = fx.svc.StudentRecap(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
