package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type attendanceFixture struct {
	teacherRows *fakeTeacherAttendanceRepo
	sessions    *fakeSessionRepo
	cacheRepo   *memoryCacheRepo
	metrics     *MetricsService
	svc         *AttendanceService
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	teachers := newFakeTeacherRepo(
		models.Teacher{ID: "t1", FullName: "Bu Sari", Active: true},
		models.Teacher{ID: "t9", FullName: "Pak Lama", Active: false},
	)
	schedules := &fakeScheduleRepo{items: []models.Schedule{
		{ID: "sch-1", SemesterID: "sem-1", TeacherID: "t1", ClassID: "c1", WeekdayID: 1, PeriodID: 1},
	}}
	roster := &fakeRosterRepo{byClass: map[string][]models.Student{"c1": {{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}}}
	fx := &attendanceFixture{
		teacherRows: &fakeTeacherAttendanceRepo{},
		sessions:    &fakeSessionRepo{},
		cacheRepo:   newMemoryCacheRepo(),
		metrics:     NewMetricsService(),
	}
	cache := NewCacheService(fx.cacheRepo, fx.metrics, time.Minute, zap.NewNop(), true)
	fx.svc = NewAttendanceService(AttendanceDeps{
		Teachers:          teachers,
		Schedules:         schedules,
		Weekdays:          schoolWeek(),
		Students:          roster,
		TeacherAttendance: fx.teacherRows,
		StudentAttendance: fx.sessions,
	}, cache, fx.metrics, validator.New(), zap.NewNop(), time.FixedZone("WIB", 7*3600))
	return fx
}

func TestAttendanceServiceCheckInFirstWins(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.svc.now = func() time.Time { return time.Date(2024, 1, 1, 23, 58, 0, 0, time.UTC) }

	record, created, err := fx.svc.CheckIn(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2024-01-02", record.Date)
	require.NotNil(t, record.CheckIn)
	assert.Equal(t, "06:58", *record.CheckIn)
	assert.Equal(t, []string{recapCachePattern}, fx.cacheRepo.deleted)

	fx.svc.now = func() time.Time { return time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC) }
	again, created, err := fx.svc.CheckIn(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "06:58", *again.CheckIn)
	assert.Len(t, fx.cacheRepo.deleted, 1)
}

func TestAttendanceServiceCheckInRejections(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, _, err := fx.svc.CheckIn(context.Background(), "")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, _, err = fx.svc.CheckIn(context.Background(), "t9")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, _, err = fx.svc.CheckIn(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceAdminUpsert(t *testing.T) {
	fx := newAttendanceFixture(t)

	record, err := fx.svc.UpsertTeacherAttendance(context.Background(), models.UpsertTeacherAttendanceRequest{
		TeacherID: "t1", Date: "2024-01-03", CheckIn: strPtr("7:05"), Remarks: strPtr(" dinas luar "),
	})
	require.NoError(t, err)
	assert.Equal(t, "07:05", *record.CheckIn)
	assert.Equal(t, "dinas luar", *record.Remarks)

	_, err = fx.svc.UpsertTeacherAttendance(context.Background(), models.UpsertTeacherAttendanceRequest{TeacherID: "t1", Date: "03-01-2024"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceListValidatesRange(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.svc.ListTeacherAttendance(context.Background(), models.TeacherAttendanceFilter{From: "2024-02-01", To: "2024-01-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = fx.svc.ListTeacherAttendance(context.Background(), models.TeacherAttendanceFilter{From: "yesterday"})
	assert.Equal(t, appErrors.ErrInvalidDateFormat.Code, appErrors.FromError(err).Code)

	rows, err := fx.svc.ListTeacherAttendance(context.Background(), models.TeacherAttendanceFilter{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAttendanceServiceUpsertSession(t *testing.T) {
	fx := newAttendanceFixture(t)

	stored, err := fx.svc.UpsertSession(context.Background(), models.UpsertStudentAttendanceRequest{
		ScheduleID: "sch-1",
		Date:       "2024-01-01",
		Sick:       []string{"s1", "s1", " "},
		Absent:     []string{"s2"},
	}, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, []string(stored.Sick))
	assert.Empty(t, stored.Leave)
	assert.Equal(t, []string{"s2"}, []string(stored.Absent))
	assert.Equal(t, "u-1", *stored.RecordedBy)
	assert.Equal(t, []string{recapCachePattern}, fx.cacheRepo.deleted)

	found, err := fx.svc.GetSession(context.Background(), "sch-1", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "sch-1", found.ScheduleID)
}

func TestAttendanceServiceUpsertSessionRejections(t *testing.T) {
	fx := newAttendanceFixture(t)
	cases := map[string]models.UpsertStudentAttendanceRequest{
		"two rosters":   {ScheduleID: "sch-1", Date: "2024-01-01", Sick: []string{"s1"}, Leave: []string{"s1"}},
		"not in class":  {ScheduleID: "sch-1", Date: "2024-01-01", Absent: []string{"s7"}},
		"wrong weekday": {ScheduleID: "sch-1", Date: "2024-01-02"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fx.svc.UpsertSession(context.Background(), req, "")
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}

	_, err := fx.svc.UpsertSession(context.Background(), models.UpsertStudentAttendanceRequest{ScheduleID: "nope", Date: "2024-01-01"}, "")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, fx.sessions.saved)
}
