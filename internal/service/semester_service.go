package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	"github.com/noah-isme/sma-absensi-api/internal/recap"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type semesterRepository interface {
	List(ctx context.Context) ([]models.Semester, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	FindActive(ctx context.Context) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	SetActive(ctx context.Context, id string) error
	CountSchedules(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// SemesterService manages semesters and the single active one.
type SemesterService struct {
	repo      semesterRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService constructs a SemesterService.
func NewSemesterService(repo semesterRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SemesterService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every semester, newest first.
func (s *SemesterService) List(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "list semesters")
	}
	return semesters, nil
}

// Get returns one semester.
func (s *SemesterService) Get(ctx context.Context, id string) (*models.Semester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "semester not found", "load semester")
	}
	return semester, nil
}

// Active returns the active semester.
func (s *SemesterService) Active(ctx context.Context) (*models.Semester, error) {
	semester, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, lookupError(err, "no active semester", "load active semester")
	}
	return semester, nil
}

// Create stores a new, inactive semester.
func (s *SemesterService) Create(ctx context.Context, req models.SemesterRequest) (*models.Semester, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	semester := &models.Semester{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		StartDate:    normalizeOptional(req.StartDate),
		EndDate:      normalizeOptional(req.EndDate),
	}
	if err := s.repo.Create(ctx, semester); err != nil {
		return nil, internalError(err, "create semester")
	}
	return semester, nil
}

// Update changes a semester. Changing the active semester's dates invalidates cached recaps.
func (s *SemesterService) Update(ctx context.Context, id string, req models.SemesterRequest) (*models.Semester, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	semester, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	semester.Name = strings.TrimSpace(req.Name)
	semester.AcademicYear = strings.TrimSpace(req.AcademicYear)
	semester.StartDate = normalizeOptional(req.StartDate)
	semester.EndDate = normalizeOptional(req.EndDate)
	if err := s.repo.Update(ctx, semester); err != nil {
		return nil, internalError(err, "update semester")
	}
	if semester.IsActive {
		s.cache.InvalidateRecaps(ctx)
	}
	return semester, nil
}

// Activate makes the semester the only active one.
func (s *SemesterService) Activate(ctx context.Context, id string) (*models.Semester, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id); err != nil {
		return nil, internalError(err, "activate semester")
	}
	s.cache.InvalidateRecaps(ctx)
	s.logger.Info("semester activated", zap.String("semester_id", id))
	return s.Get(ctx, id)
}

// Delete removes an inactive semester without schedules.
func (s *SemesterService) Delete(ctx context.Context, id string) error {
	semester, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if semester.IsActive {
		return appErrors.Clone(appErrors.ErrConflict, "active semester cannot be deleted")
	}
	count, err := s.repo.CountSchedules(ctx, id)
	if err != nil {
		return internalError(err, "count semester schedules")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "semester still has schedules")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete semester")
	}
	return nil
}

func (s *SemesterService) validate(req models.SemesterRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid semester payload")
	}
	start, end := normalizeOptional(req.StartDate), normalizeOptional(req.EndDate)
	if start == nil || end == nil {
		return nil
	}
	from, err := recap.ParseDate(*start)
	if err != nil {
		return appErrors.FromError(err)
	}
	to, err := recap.ParseDate(*end)
	if err != nil {
		return appErrors.FromError(err)
	}
	if to.Before(from) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return nil
}
