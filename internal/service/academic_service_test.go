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

func enabledCache(repo *memoryCacheRepo) *CacheService {
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
}

func TestSemesterServiceLifecycle(t *testing.T) {
	repo := &fakeSemesterRepo{items: map[string]*models.Semester{
		"old": {ID: "old", Name: "Genap 2023", IsActive: true},
	}, schedules: map[string]int{"old": 4}}
	cacheRepo := newMemoryCacheRepo()
	svc := NewSemesterService(repo, enabledCache(cacheRepo), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.SemesterRequest{
		Name: "Ganjil", AcademicYear: "2024/2025", StartDate: strPtr("2024-12-01"), EndDate: strPtr("2024-07-01"),
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), models.SemesterRequest{
		Name: "Ganjil", AcademicYear: "2024/2025", StartDate: strPtr("2024-07-15"),
	})
	require.NoError(t, err)
	assert.Nil(t, created.EndDate)
	assert.False(t, created.IsActive)

	active, err := svc.Activate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	assert.False(t, repo.items["old"].IsActive)
	assert.Equal(t, []string{recapCachePattern}, cacheRepo.deleted)

	err = svc.Delete(context.Background(), created.ID)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), "old")
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	current, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
}

func TestWeekdayServiceToggle(t *testing.T) {
	repo := schoolWeek()
	repo.items = append(repo.items, models.Weekday{ID: 8, Name: "Holiday"})
	cacheRepo := newMemoryCacheRepo()
	svc := NewWeekdayService(repo, enabledCache(cacheRepo), validator.New(), zap.NewNop())

	enabled := true
	day, err := svc.SetEnabled(context.Background(), 6, models.UpdateWeekdayRequest{Enabled: &enabled})
	require.NoError(t, err)
	assert.True(t, day.Enabled)
	assert.True(t, repo.items[5].Enabled)
	assert.Len(t, cacheRepo.deleted, 1)

	_, err = svc.SetEnabled(context.Background(), 8, models.UpdateWeekdayRequest{Enabled: &enabled})
	assert.Equal(t, appErrors.ErrUnrecognizedWeekday.Code, appErrors.FromError(err).Code)

	_, err = svc.SetEnabled(context.Background(), 6, models.UpdateWeekdayRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetEnabled(context.Background(), 99, models.UpdateWeekdayRequest{Enabled: &enabled})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceValidatesOrder(t *testing.T) {
	repo := &fakePeriodRepo{schedules: map[int64]int{1: 2}}
	svc := NewPeriodService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.PeriodRequest{Name: "Jam 1", StartTime: "08:00", EndTime: "07:15"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.PeriodRequest{Name: "Jam 1", StartTime: "25:00", EndTime: "26:00"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	period, err := svc.Create(context.Background(), models.PeriodRequest{Name: " Jam 1 ", StartTime: "07:00", EndTime: "07:45"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), period.ID)
	assert.Equal(t, "Jam 1", period.Name)

	err = svc.Delete(context.Background(), 1)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceValidation(t *testing.T) {
	svc := NewCalendarService(nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.CalendarEventRequest{
		Title: "UTS", StartDate: "2024-03-10", EndDate: "2024-03-01", Category: models.EventExam,
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.CalendarEventRequest{
		Title: "Libur", StartDate: "2024-03-10", EndDate: "2024-03-11", Category: "PARTY",
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.List(context.Background(), models.CalendarFilter{From: "2024-03-10", To: "2024-03-01"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
