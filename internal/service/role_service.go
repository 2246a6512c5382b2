package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/dto"
	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type roleRepository interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id string) (*models.Role, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	CountUsers(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
}

// RoleService manages roles and their menu permissions.
type RoleService struct {
	repo      roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(repo roleRepository, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoleService{repo: repo, validator: validate, logger: logger}
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "list roles")
	}
	return roles, nil
}

// Get returns one role.
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "role not found", "load role")
	}
	return role, nil
}

// Menu renders the menu tree with the tri-state of every node for the role.
func (s *RoleService) Menu(ctx context.Context, id string) (*dto.MenuResponse, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perms := []string(role.Permissions)
	if role.Name == models.RoleSuperAdmin {
		perms = menu.AllPaths()
	}
	return &dto.MenuResponse{RoleID: role.ID, Permissions: perms, Tree: menu.Annotate(perms)}, nil
}

// Create stores a new role. Unknown permission paths are rejected.
func (s *RoleService) Create(ctx context.Context, req models.RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role payload")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	perms, err := checkPermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: normalizeOptional(req.Description),
		Permissions: pq.StringArray(perms),
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, internalError(err, "create role")
	}
	s.logger.Info("role created", zap.String("role_id", role.ID), zap.Int("permissions", len(perms)))
	return role, nil
}

// Update replaces a role. The superadmin role cannot be renamed.
func (s *RoleService) Update(ctx context.Context, id string, req models.RoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role payload")
	}
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if role.Name == models.RoleSuperAdmin && name != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "superadmin role cannot be renamed")
	}
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}
	perms, err := checkPermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role.Name = name
	role.Description = normalizeOptional(req.Description)
	role.Permissions = pq.StringArray(perms)
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, internalError(err, "update role")
	}
	return role, nil
}

// TogglePermission checks or unchecks a menu node for the role, cascading to its leaves.
func (s *RoleService) TogglePermission(ctx context.Context, id string, req models.TogglePermissionRequest) (*dto.MenuResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid toggle payload")
	}
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perms, err := menu.Toggle(role.Permissions, req.Key, req.Enabled)
	if err != nil {
		return nil, validationError(err, "unknown menu key")
	}
	role.Permissions = pq.StringArray(perms)
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, internalError(err, "update role")
	}
	return &dto.MenuResponse{RoleID: role.ID, Permissions: perms, Tree: menu.Annotate(perms)}, nil
}

// Delete removes a role that no user holds.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if role.Name == models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "superadmin role cannot be deleted")
	}
	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return internalError(err, "count role users")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "role is still assigned to users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "delete role")
	}
	return nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internalError(err, "check role name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "role name already exists")
	}
	return nil
}

func checkPermissions(perms []string) ([]string, error) {
	if unknown := menu.Unknown(perms); len(unknown) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown permission paths: "+strings.Join(unknown, ", "))
	}
	return menu.Normalize(perms), nil
}
