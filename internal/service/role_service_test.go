package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type mockRoleRepo struct {
	items  map[string]*models.Role
	users  map[string]int
	nextID int
}

func (m *mockRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoleRepo) FindByID(ctx context.Context, id string) (*models.Role, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoleRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, r := range m.items {
		if r.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoleRepo) CountUsers(ctx context.Context, id string) (int, error) {
	return m.users[id], nil
}

func (m *mockRoleRepo) Create(ctx context.Context, role *models.Role) error {
	cp := *role
	m.items[role.ID] = &cp
	return nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *models.Role) error {
	cp := *role
	m.items[role.ID] = &cp
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func newRoleFixture() (*RoleService, *mockRoleRepo) {
	repo := &mockRoleRepo{
		items: map[string]*models.Role{
			"root": {ID: "root", Name: models.RoleSuperAdmin},
			"guru": {ID: "guru", Name: "guru", Permissions: []string{menu.PathTeacherCheckIn}},
		},
		users: map[string]int{"guru": 3},
	}
	return NewRoleService(repo, validator.New(), zap.NewNop()), repo
}

func TestRoleServiceCreateNormalizesPermissions(t *testing.T) {
	svc, _ := newRoleFixture()

	role, err := svc.Create(context.Background(), models.RoleRequest{
		Name:        " piket ",
		Permissions: []string{menu.PathTeacherRecap, menu.PathDashboard, menu.PathTeacherRecap},
	})
	require.NoError(t, err)
	assert.Equal(t, "piket", role.Name)
	assert.Equal(t, []string{menu.PathDashboard, menu.PathTeacherRecap}, []string(role.Permissions))

	_, err = svc.Create(context.Background(), models.RoleRequest{Name: "x", Permissions: []string{"/nope"}})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.RoleRequest{Name: "guru"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRoleServiceToggleAndMenu(t *testing.T) {
	svc, repo := newRoleFixture()

	res, err := svc.TogglePermission(context.Background(), "guru", models.TogglePermissionRequest{Key: "attendance.teachers", Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, []string{menu.PathTeacherCheckIn, menu.PathTeacherAttendance, menu.PathTeacherRecap}, res.Permissions)
	assert.Equal(t, []string{menu.PathTeacherCheckIn, menu.PathTeacherAttendance, menu.PathTeacherRecap}, []string(repo.items["guru"].Permissions))

	view, err := svc.Menu(context.Background(), "guru")
	require.NoError(t, err)
	assert.Equal(t, menu.Indeterminate, view.Tree[3].State)
	assert.Equal(t, menu.Checked, view.Tree[3].Children[0].State)

	root, err := svc.Menu(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, menu.AllPaths(), root.Permissions)

	_, err = svc.TogglePermission(context.Background(), "guru", models.TogglePermissionRequest{Key: "bogus", Enabled: true})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoleServiceProtectsSuperAdminAndAssignedRoles(t *testing.T) {
	svc, _ := newRoleFixture()

	err := svc.Delete(context.Background(), "root")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), "root", models.RoleRequest{Name: "admin"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), "guru")
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
