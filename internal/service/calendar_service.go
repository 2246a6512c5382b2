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

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error)
	FindByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

// CalendarService manages academic calendar events.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// List returns events overlapping the requested range.
func (s *CalendarService) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	if err := checkRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	filter.Category = strings.ToUpper(strings.TrimSpace(filter.Category))
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "list calendar events")
	}
	return events, nil
}

// Get returns one event.
func (s *CalendarService) Get(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "calendar event not found", "load calendar event")
	}
	return event, nil
}

// Create adds an event.
func (s *CalendarService) Create(ctx context.Context, req models.CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	event := &models.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: normalizeOptional(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, internalError(err, "create calendar event")
	}
	return event, nil
}

// Update modifies an event.
func (s *CalendarService) Update(ctx context.Context, id string, req models.CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Title = strings.TrimSpace(req.Title)
	event.Description = normalizeOptional(req.Description)
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Category = req.Category
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, internalError(err, "update calendar event")
	}
	return event, nil
}

// Delete removes an event.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete calendar event")
	}
	return nil
}

func (s *CalendarService) validate(req models.CalendarEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid calendar event payload")
	}
	if req.EndDate < req.StartDate {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return nil
}

func checkRange(from, to string) error {
	for _, raw := range []string{from, to} {
		if raw == "" {
			continue
		}
		if _, err := recap.ParseDate(raw); err != nil {
			return appErrors.FromError(err)
		}
	}
	if from != "" && to != "" && from > to {
		return appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}
	return nil
}
