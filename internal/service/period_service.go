package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context) ([]models.Period, error)
	FindByID(ctx context.Context, id int64) (*models.Period, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	CountSchedules(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// PeriodService manages daily lesson slots.
type PeriodService struct {
	repo      periodRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(repo periodRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PeriodService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns periods ordered by start time.
func (s *PeriodService) List(ctx context.Context) ([]models.Period, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "list periods")
	}
	return periods, nil
}

// Get returns one period.
func (s *PeriodService) Get(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "period not found", "load period")
	}
	return period, nil
}

// Create stores a new period.
func (s *PeriodService) Create(ctx context.Context, req models.PeriodRequest) (*models.Period, error) {
	period, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, internalError(err, "create period")
	}
	return period, nil
}

// Update changes a period. Start times feed lateness so cached recaps are dropped.
func (s *PeriodService) Update(ctx context.Context, id int64, req models.PeriodRequest) (*models.Period, error) {
	period, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	period.ID = id
	if err := s.repo.Update(ctx, period); err != nil {
		return nil, internalError(err, "update period")
	}
	s.cache.InvalidateRecaps(ctx)
	return period, nil
}

// Delete removes a period that no schedule uses.
func (s *PeriodService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountSchedules(ctx, id)
	if err != nil {
		return internalError(err, "count period schedules")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "period is used by schedules")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete period")
	}
	return nil
}

func (s *PeriodService) build(req models.PeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid period payload")
	}
	start := recap.NormalizeClock(req.StartTime)
	end := recap.NormalizeClock(req.EndTime)
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return &models.Period{Name: strings.TrimSpace(req.Name), StartTime: start, EndTime: end}, nil
}
