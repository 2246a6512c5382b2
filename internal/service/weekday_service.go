package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type weekdayRepository interface {
	List(ctx context.Context) ([]models.Weekday, error)
	FindByID(ctx context.Context, id int64) (*models.Weekday, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
}

// WeekdayService toggles which weekdays count as school days.
type WeekdayService struct {
	repo      weekdayRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWeekdayService constructs a WeekdayService.
func NewWeekdayService(repo weekdayRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *WeekdayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WeekdayService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the weekday configuration.
func (s *WeekdayService) List(ctx context.Context) ([]models.Weekday, error) {
	weekdays, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "list weekdays")
	}
	return weekdays, nil
}

// SetEnabled switches a weekday on or off. The stored name must be a recognised weekday.
func (s *WeekdayService) SetEnabled(ctx context.Context, id int64, req models.UpdateWeekdayRequest) (*models.Weekday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid weekday payload")
	}
	weekday, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "weekday not found", "load weekday")
	}
	if _, err := recap.ParseWeekday(weekday.Name); err != nil {
		return nil, appErrors.FromError(err)
	}
	if err := s.repo.SetEnabled(ctx, id, *req.Enabled); err != nil {
		return nil, lookupError(err, "weekday not found", "update weekday")
	}
	weekday.Enabled = *req.Enabled
	s.cache.InvalidateRecaps(ctx)
	s.logger.Info("weekday toggled", zap.String("weekday", weekday.Name), zap.Bool("enabled", weekday.Enabled))
	return weekday, nil
}
