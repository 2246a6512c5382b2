package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	CountDependents(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
}

type classMajorLookup interface {
	FindByID(ctx context.Context, id string) (*models.Major, error)
}

type classTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// ClassService manages classes and their homeroom teacher.
type ClassService struct {
	repo      classRepository
	majors    classMajorLookup
	teachers  classTeacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, majors classMajorLookup, teachers classTeacherLookup, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, majors: majors, teachers: teachers, validator: validate, logger: logger}
}

// List returns classes with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list classes")
	}
	return classes, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a class by ID.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "class not found", "get class")
	}
	return class, nil
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, req models.ClassRequest) (*models.ClassDetail, error) {
	class, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	class.ID = uuid.NewString()
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, internalError(err, "create class")
	}
	return s.Get(ctx, class.ID)
}

// Update modifies a class.
func (s *ClassService) Update(ctx context.Context, id string, req models.ClassRequest) (*models.ClassDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	class, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	class.ID = id
	class.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, internalError(err, "update class")
	}
	return s.Get(ctx, id)
}

// Delete removes a class without students or schedules.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return internalError(err, "count class dependents")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "class still has students or schedules")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete class")
	}
	return nil
}

func (s *ClassService) build(ctx context.Context, req models.ClassRequest, excludeID string) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class payload")
	}
	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return nil, internalError(err, "check class name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class name already exists")
	}

	majorID := normalizeOptional(req.MajorID)
	if majorID != nil {
		if _, err := s.majors.FindByID(ctx, *majorID); err != nil {
			return nil, lookupError(err, "major not found", "load major")
		}
	}
	homeroomID := normalizeOptional(req.HomeroomTeacherID)
	if homeroomID != nil {
		if _, err := s.teachers.FindByID(ctx, *homeroomID); err != nil {
			return nil, lookupError(err, "teacher not found", "load teacher")
		}
	}
	return &models.Class{Name: name, Grade: req.Grade, MajorID: majorID, HomeroomTeacherID: homeroomID}, nil
}
