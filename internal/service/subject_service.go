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

type codeNameGuard interface {
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	CountReferences(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type subjectRepository interface {
	codeNameGuard
	List(ctx context.Context, filter models.CodeNameFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
}

type majorRepository interface {
	codeNameGuard
	List(ctx context.Context, filter models.CodeNameFilter) ([]models.Major, int, error)
	FindByID(ctx context.Context, id string) (*models.Major, error)
	Create(ctx context.Context, major *models.Major) error
	Update(ctx context.Context, major *models.Major) error
}

// SubjectService manages subjects.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.CodeNameFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list subjects")
	}
	return subjects, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a subject by ID.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "subject not found", "get subject")
	}
	return subject, nil
}

// Create adds a subject with a unique code.
func (s *SubjectService) Create(ctx context.Context, req models.CodeNameRequest) (*models.Subject, error) {
	code, name, err := checkCodeName(ctx, s.validator, s.repo, req, "", "subject")
	if err != nil {
		return nil, err
	}
	subject := &models.Subject{ID: uuid.NewString(), Code: code, Name: name}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, internalError(err, "create subject")
	}
	return subject, nil
}

// Update modifies a subject.
func (s *SubjectService) Update(ctx context.Context, id string, req models.CodeNameRequest) (*models.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code, name, err := checkCodeName(ctx, s.validator, s.repo, req, id, "subject")
	if err != nil {
		return nil, err
	}
	subject.Code, subject.Name = code, name
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, internalError(err, "update subject")
	}
	return subject, nil
}

// Delete removes a subject no schedule uses.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return deleteUnreferenced(ctx, s.repo, id, "subject", "subject is used by schedules")
}

// MajorService manages study tracks.
type MajorService struct {
	repo      majorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMajorService constructs a MajorService.
func NewMajorService(repo majorRepository, validate *validator.Validate, logger *zap.Logger) *MajorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MajorService{repo: repo, validator: validate, logger: logger}
}

// List returns majors with pagination metadata.
func (s *MajorService) List(ctx context.Context, filter models.CodeNameFilter) ([]models.Major, *models.Pagination, error) {
	majors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list majors")
	}
	return majors, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a major by ID.
func (s *MajorService) Get(ctx context.Context, id string) (*models.Major, error) {
	major, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "major not found", "get major")
	}
	return major, nil
}

// Create adds a major with a unique code.
func (s *MajorService) Create(ctx context.Context, req models.CodeNameRequest) (*models.Major, error) {
	code, name, err := checkCodeName(ctx, s.validator, s.repo, req, "", "major")
	if err != nil {
		return nil, err
	}
	major := &models.Major{ID: uuid.NewString(), Code: code, Name: name}
	if err := s.repo.Create(ctx, major); err != nil {
		return nil, internalError(err, "create major")
	}
	return major, nil
}

// Update modifies a major.
func (s *MajorService) Update(ctx context.Context, id string, req models.CodeNameRequest) (*models.Major, error) {
	major, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code, name, err := checkCodeName(ctx, s.validator, s.repo, req, id, "major")
	if err != nil {
		return nil, err
	}
	major.Code, major.Name = code, name
	if err := s.repo.Update(ctx, major); err != nil {
		return nil, internalError(err, "update major")
	}
	return major, nil
}

// Delete removes a major no class uses.
func (s *MajorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return deleteUnreferenced(ctx, s.repo, id, "major", "major is used by classes")
}

func checkCodeName(ctx context.Context, validate *validator.Validate, repo codeNameGuard, req models.CodeNameRequest, excludeID, label string) (string, string, error) {
	if err := validate.Struct(req); err != nil {
		return "", "", validationError(err, "invalid "+label+" payload")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return "", "", internalError(err, "check "+label+" code")
	}
	if exists {
		return "", "", appErrors.Clone(appErrors.ErrConflict, label+" code already exists")
	}
	return code, strings.TrimSpace(req.Name), nil
}

func deleteUnreferenced(ctx context.Context, repo codeNameGuard, id, label, inUse string) error {
	count, err := repo.CountReferences(ctx, id)
	if err != nil {
		return internalError(err, "count "+label+" references")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, inUse)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete "+label)
	}
	return nil
}
