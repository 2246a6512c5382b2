package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-absensi-api/internal/menu"
	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail       *models.User
	findByEmailErr    error
	updatePasswordErr error
	lastLoginUpdated  bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil || m.userByEmail.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.userByEmail.PasswordHash = passwordHash
	return nil
}

type mockRoleLookup struct {
	roles map[string]*models.Role
}

func (m *mockRoleLookup) FindByID(ctx context.Context, id string) (*models.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return role, nil
}

func newTestAuthService(t *testing.T, active bool, roleName string, perms []string) (*AuthService, *mockAuthRepo) {
	t.Helper()
	password, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	teacherID := "t-1"
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID: "u-1", Email: "guru@sma.sch.id", FullName: "Bu Sari", PasswordHash: string(password),
		RoleID: "r-1", TeacherID: &teacherID, Active: active,
	}}
	roles := &mockRoleLookup{roles: map[string]*models.Role{
		"r-1": {ID: "r-1", Name: roleName, Permissions: pq.StringArray(perms)},
	}}
	svc := NewAuthService(repo, roles, validator.New(), zap.NewNop(), AuthConfig{SessionSecret: "secret", SessionTTL: time.Hour})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newTestAuthService(t, true, "guru", []string{menu.PathTeacherCheckIn, "/unknown"})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "guru@sma.sch.id", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, repo.lastLoginUpdated)
	assert.Equal(t, []string{menu.PathTeacherCheckIn}, res.User.Permissions)
	require.NotNil(t, res.User.TeacherID)
	assert.Equal(t, "t-1", *res.User.TeacherID)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "guru", claims.Role)
	assert.Equal(t, "t-1", claims.TeacherID)
}

func TestAuthServiceLoginSuperAdminGetsEveryPath(t *testing.T) {
	svc, _ := newTestAuthService(t, true, models.RoleSuperAdmin, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "guru@sma.sch.id", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, menu.AllPaths(), res.User.Permissions)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _ := newTestAuthService(t, false, "guru", nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "guru@sma.sch.id", Password: "password"})
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "guru@sma.sch.id", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	missing, _ := newTestAuthService(t, true, "guru", nil)
	missing.users.(*mockAuthRepo).findByEmailErr = sql.ErrNoRows
	_, err = missing.Login(context.Background(), models.LoginRequest{Email: "x@sma.sch.id", Password: "password"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, repo := newTestAuthService(t, true, "guru", nil)
	oldHash := repo.userByEmail.PasswordHash

	err := svc.ChangePassword(context.Background(), "u-1", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.ChangePassword(context.Background(), "u-1", models.ChangePasswordRequest{OldPassword: "password", NewPassword: "newpassword"}))
	assert.NotEqual(t, oldHash, repo.userByEmail.PasswordHash)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newTestAuthService(t, true, "guru", nil)
	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "guru@sma.sch.id", Password: "password"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(res.Token)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestAuthServiceMeFiltersMenu(t *testing.T) {
	svc, _ := newTestAuthService(t, true, "guru", nil)
	me := svc.Me(&models.SessionClaims{UserID: "u-1", Role: "guru", Permissions: []string{menu.PathTeacherRecap}})
	require.Len(t, me.Menu, 1)
	assert.Equal(t, "attendance", me.Menu[0].Key)

	admin := svc.Me(&models.SessionClaims{UserID: "u-2", Role: models.RoleSuperAdmin})
	assert.Len(t, admin.Menu, len(menu.Tree()))
}
