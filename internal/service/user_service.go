package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type userRoleLookup interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
}

type userTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// UserService handles account management workflows.
type UserService struct {
	repo      userRepository
	roles     userRoleLookup
	teachers  userTeacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, roles userRoleLookup, teachers userTeacherLookup, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, roles: roles, teachers: teachers, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "list users")
	}
	return users, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "load user")
	}
	return user, nil
}

// Create registers a new account with a bcrypt password hash.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid create user payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, internalError(err, "check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	}

	teacherID := normalizeOptional(req.TeacherID)
	if err := s.checkReferences(ctx, req.RoleID, teacherID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "hash password")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		RoleID:       req.RoleID,
		TeacherID:    teacherID,
		Active:       active,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, internalError(err, "create user")
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role_id", user.RoleID))
	return s.Get(ctx, user.ID)
}

// Update modifies the account. A non-empty password is re-hashed.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid update user payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found", "load user")
	}

	teacherID := normalizeOptional(req.TeacherID)
	if err := s.checkReferences(ctx, req.RoleID, teacherID); err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.RoleID = req.RoleID
	user.TeacherID = teacherID
	user.Active = req.Active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, internalError(err, "update user")
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, internalError(err, "hash password")
		}
		if err := s.repo.UpdatePassword(ctx, id, string(hash), time.Now().UTC()); err != nil {
			return nil, internalError(err, "update password")
		}
	}
	return s.Get(ctx, id)
}

// Delete deactivates an account. Users cannot deactivate themselves.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "user not found", "load user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete user")
	}
	s.logger.Info("user deactivated", zap.String("user_id", id), zap.String("actor_id", actorID))
	return nil
}

func (s *UserService) checkReferences(ctx context.Context, roleID string, teacherID *string) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return lookupError(err, "role not found", "load role")
	}
	if teacherID != nil {
		if _, err := s.teachers.FindByID(ctx, *teacherID); err != nil {
			return lookupError(err, "teacher not found", "load teacher")
		}
	}
	return nil
}
