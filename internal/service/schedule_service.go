package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindConflicts(ctx context.Context, semesterID string, weekdayID, periodID int64) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
}

type scheduleSemesterLookup interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type scheduleWeekdayLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Weekday, error)
}

type schedulePeriodLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Period, error)
}

type scheduleTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type scheduleClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

type scheduleSubjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// ScheduleLookups resolves the references of a schedule entry.
type ScheduleLookups struct {
	Semesters scheduleSemesterLookup
	Weekdays  scheduleWeekdayLookup
	Periods   schedulePeriodLookup
	Teachers  scheduleTeacherLookup
	Classes   scheduleClassLookup
	Subjects  scheduleSubjectLookup
}

// ScheduleService manages weekly schedule entries.
type ScheduleService struct {
	repo      scheduleRepository
	lookups   ScheduleLookups
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, lookups ScheduleLookups, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{repo: repo, lookups: lookups, cache: cache, validator: validate, logger: logger}
}

// List returns schedules matching the filter.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, error) {
	schedules, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "list schedules")
	}
	return schedules, nil
}

// Get returns a schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule not found", "load schedule")
	}
	return schedule, nil
}

// Create inserts a new schedule after conflict detection.
func (s *ScheduleService) Create(ctx context.Context, req models.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}
	schedule := fromScheduleRequest(req)
	schedule.ID = uuid.NewString()
	if err := s.checkReferences(ctx, schedule); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, schedule, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, internalError(err, "create schedule")
	}
	s.cache.InvalidateRecaps(ctx)
	return &schedule, nil
}

// Update modifies a schedule after conflict detection.
func (s *ScheduleService) Update(ctx context.Context, id string, req models.ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := fromScheduleRequest(req)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.checkReferences(ctx, updated); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, updated, existing.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, internalError(err, "update schedule")
	}
	s.cache.InvalidateRecaps(ctx)
	return &updated, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete schedule")
	}
	s.cache.InvalidateRecaps(ctx)
	return nil
}

func (s *ScheduleService) checkReferences(ctx context.Context, schedule models.Schedule) error {
	if _, err := s.lookups.Semesters.FindByID(ctx, schedule.SemesterID); err != nil {
		return lookupError(err, "semester not found", "load semester")
	}
	if _, err := s.lookups.Weekdays.FindByID(ctx, schedule.WeekdayID); err != nil {
		return lookupError(err, "weekday not found", "load weekday")
	}
	if _, err := s.lookups.Periods.FindByID(ctx, schedule.PeriodID); err != nil {
		return lookupError(err, "period not found", "load period")
	}
	if _, err := s.lookups.Teachers.FindByID(ctx, schedule.TeacherID); err != nil {
		return lookupError(err, "teacher not found", "load teacher")
	}
	if _, err := s.lookups.Classes.FindByID(ctx, schedule.ClassID); err != nil {
		return lookupError(err, "class not found", "load class")
	}
	if _, err := s.lookups.Subjects.FindByID(ctx, schedule.SubjectID); err != nil {
		return lookupError(err, "subject not found", "load subject")
	}
	return nil
}

func (s *ScheduleService) ensureNoConflict(ctx context.Context, schedule models.Schedule, ignoreID string) error {
	existing, err := s.repo.FindConflicts(ctx, schedule.SemesterID, schedule.WeekdayID, schedule.PeriodID)
	if err != nil {
		return internalError(err, "check schedule conflicts")
	}
	for _, item := range existing {
		if item.ID == ignoreID {
			continue
		}
		if item.ClassID == schedule.ClassID {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("schedule conflict: class already scheduled for this slot (%s)", item.ID))
		}
		if item.TeacherID == schedule.TeacherID {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("schedule conflict: teacher already scheduled for this slot (%s)", item.ID))
		}
	}
	return nil
}

func fromScheduleRequest(req models.ScheduleRequest) models.Schedule {
	return models.Schedule{
		SemesterID: req.SemesterID,
		TeacherID:  req.TeacherID,
		ClassID:    req.ClassID,
		SubjectID:  req.SubjectID,
		WeekdayID:  req.WeekdayID,
		PeriodID:   req.PeriodID,
	}
}
