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

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByNIP(ctx context.Context, nip string, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Deactivate(ctx context.Context, id string) error
}

// TeacherService orchestrates teacher CRUD operations.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers with pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list teachers")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a teacher by ID.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher not found", "get teacher")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	nip := normalizeOptional(req.NIP)
	if err := s.ensureUniqueNIP(ctx, nip, ""); err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	teacher := &models.Teacher{
		ID:       uuid.NewString(),
		NIP:      nip,
		Email:    lowerOptional(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    normalizeOptional(req.Phone),
		Active:   active,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, internalError(err, "create teacher")
	}
	return teacher, nil
}

// Update modifies an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	nip := normalizeOptional(req.NIP)
	if err := s.ensureUniqueNIP(ctx, nip, id); err != nil {
		return nil, err
	}
	teacher.NIP = nip
	teacher.Email = lowerOptional(req.Email)
	teacher.FullName = strings.TrimSpace(req.FullName)
	teacher.Phone = normalizeOptional(req.Phone)
	if req.Active != nil {
		teacher.Active = *req.Active
	}
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, internalError(err, "update teacher")
	}
	return teacher, nil
}

// Delete deactivates a teacher so past attendance stays attributable.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "deactivate teacher")
	}
	return nil
}

func (s *TeacherService) ensureUniqueNIP(ctx context.Context, nip *string, excludeID string) error {
	if nip == nil {
		return nil
	}
	exists, err := s.repo.ExistsByNIP(ctx, *nip, excludeID)
	if err != nil {
		return internalError(err, "check nip uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "nip already exists")
	}
	return nil
}

func lowerOptional(value *string) *string {
	v := normalizeOptional(value)
	if v == nil {
		return nil
	}
	lowered := strings.ToLower(*v)
	return &lowered
}
