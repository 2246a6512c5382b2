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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByNIS(ctx context.Context, nis, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

type studentClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

// StudentService manages student records and their class placement.
type StudentService struct {
	repo      studentRepository
	classes   studentClassLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, classes studentClassLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "get student")
	}
	return student, nil
}

// Create registers a student.
func (s *StudentService) Create(ctx context.Context, req models.StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	nis := strings.TrimSpace(req.NIS)
	if err := s.ensureUniqueNIS(ctx, nis, ""); err != nil {
		return nil, err
	}
	classID, err := s.checkClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	student := &models.Student{
		ID:       uuid.NewString(),
		NIS:      nis,
		FullName: strings.TrimSpace(req.FullName),
		Gender:   req.Gender,
		ClassID:  classID,
		Active:   active,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, internalError(err, "create student")
	}
	if classID != nil {
		s.cache.InvalidateRecaps(ctx)
	}
	return s.Get(ctx, student.ID)
}

// Update modifies a student. Moving a student between classes invalidates cached recaps.
func (s *StudentService) Update(ctx context.Context, id string, req models.StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	nis := strings.TrimSpace(req.NIS)
	if err := s.ensureUniqueNIS(ctx, nis, id); err != nil {
		return nil, err
	}
	classID, err := s.checkClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	student := existing.Student
	student.NIS = nis
	student.FullName = strings.TrimSpace(req.FullName)
	student.Gender = req.Gender
	student.ClassID = classID
	if req.Active != nil {
		student.Active = *req.Active
	}
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, internalError(err, "update student")
	}
	s.cache.InvalidateRecaps(ctx)
	return s.Get(ctx, id)
}

// Delete deactivates a student, removing them from class rosters.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "deactivate student")
	}
	s.cache.InvalidateRecaps(ctx)
	return nil
}

func (s *StudentService) ensureUniqueNIS(ctx context.Context, nis, excludeID string) error {
	exists, err := s.repo.ExistsByNIS(ctx, nis, excludeID)
	if err != nil {
		return internalError(err, "check nis uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "nis already exists")
	}
	return nil
}

func (s *StudentService) checkClass(ctx context.Context, raw *string) (*string, error) {
	classID := normalizeOptional(raw)
	if classID == nil {
		return nil, nil
	}
	if _, err := s.classes.FindByID(ctx, *classID); err != nil {
		return nil, lookupError(err, "class not found", "load class")
	}
	return classID, nil
}
