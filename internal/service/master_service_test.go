package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

func TestTeacherServiceCreateRejectsDuplicateNIP(t *testing.T) {
	repo := newFakeTeacherRepo(models.Teacher{ID: "t1", NIP: strPtr("1987"), FullName: "Bu Sari", Active: true})
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.TeacherRequest{NIP: strPtr(" 1987 "), FullName: "Pak Budi"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), models.TeacherRequest{
		NIP: strPtr("1990"), Email: strPtr("Budi@SMA.sch.id"), FullName: " Pak Budi ",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "budi@sma.sch.id", *created.Email)
	assert.Equal(t, "Pak Budi", created.FullName)

	updated, err := svc.Update(context.Background(), "t1", models.TeacherRequest{NIP: strPtr("1987"), FullName: "Bu Sari Dewi"})
	require.NoError(t, err)
	assert.Equal(t, "Bu Sari Dewi", updated.FullName)
}

func TestTeacherServiceDeleteDeactivates(t *testing.T) {
	repo := newFakeTeacherRepo(models.Teacher{ID: "t1", FullName: "Bu Sari", Active: true})
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Equal(t, []string{"t1"}, repo.deactivated)
	assert.False(t, repo.items["t1"].Active)

	err := svc.Delete(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type mockStudentRepo struct {
	items       map[string]*models.StudentDetail
	deactivated []string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *mockStudentRepo) ExistsByNIS(ctx context.Context, nis, excludeID string) (bool, error) {
	for id, s := range m.items {
		if s.NIS == nis && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.items[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.items[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func TestStudentServiceClassPlacement(t *testing.T) {
	repo := &mockStudentRepo{items: map[string]*models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", NIS: "1001", FullName: "Andi", Gender: "L", Active: true}},
	}}
	classes := &fakeClassRepo{items: map[string]*models.ClassDetail{"c1": {Class: models.Class{ID: "c1"}}}}
	cacheRepo := newMemoryCacheRepo()
	svc := NewStudentService(repo, classes, NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.StudentRequest{NIS: "1001", FullName: "Bima", Gender: "L"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.StudentRequest{NIS: "1002", FullName: "Bima", Gender: "X"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.StudentRequest{NIS: "1002", FullName: "Bima", Gender: "L", ClassID: strPtr("c9")})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), models.StudentRequest{NIS: "1002", FullName: "Bima", Gender: "L", ClassID: strPtr("c1")})
	require.NoError(t, err)
	assert.Equal(t, "c1", *created.ClassID)
	assert.True(t, created.Active)
	assert.Len(t, cacheRepo.deleted, 1)

	moved, err := svc.Update(context.Background(), "s1", models.StudentRequest{NIS: "1001", FullName: "Andi", Gender: "L", ClassID: strPtr("c1")})
	require.NoError(t, err)
	assert.Equal(t, "c1", *moved.ClassID)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deactivated)
}

type mockUserRepo struct {
	items     map[string]*models.User
	passwords map[string]string
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for id, u := range m.items {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.items[id].Active = false
	return nil
}

func TestUserServiceCreateAndUpdate(t *testing.T) {
	repo := &mockUserRepo{items: map[string]*models.User{
		"admin": {ID: "admin", Email: "admin@sma.sch.id", RoleID: "root", Active: true},
	}, passwords: map[string]string{}}
	roles := &mockRoleLookup{roles: map[string]*models.Role{"root": {ID: "root"}, "guru": {ID: "guru"}}}
	teachers := newFakeTeacherRepo(models.Teacher{ID: "t1"})
	svc := NewUserService(repo, roles, teachers, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateUserRequest{Email: "ADMIN@sma.sch.id", Password: "secret1", FullName: "X", RoleID: "guru"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.CreateUserRequest{Email: "guru@sma.sch.id", Password: "secret1", FullName: "X", RoleID: "nope"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), models.CreateUserRequest{
		Email: "Guru@sma.sch.id", Password: "secret1", FullName: "Bu Sari", RoleID: "guru", TeacherID: strPtr("t1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "guru@sma.sch.id", created.Email)
	assert.NotEqual(t, "secret1", created.PasswordHash)
	assert.True(t, created.Active)

	_, err = svc.Update(context.Background(), created.ID, models.UpdateUserRequest{FullName: "Bu Sari", RoleID: "guru", Active: true, Password: "changed1"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwords[created.ID])

	err = svc.Delete(context.Background(), "admin", "admin")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.NoError(t, svc.Delete(context.Background(), created.ID, "admin"))
	assert.False(t, repo.items[created.ID].Active)
}

type mockCodeNameRepo struct {
	subjects map[string]*models.Subject
	refs     map[string]int
	deleted  []string
}

func (m *mockCodeNameRepo) List(ctx context.Context, filter models.CodeNameFilter) ([]models.Subject, int, error) {
	return nil, 0, nil
}

func (m *mockCodeNameRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *mockCodeNameRepo) Create(ctx context.Context, subject *models.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockCodeNameRepo) Update(ctx context.Context, subject *models.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockCodeNameRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for id, s := range m.subjects {
		if s.Code == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCodeNameRepo) CountReferences(ctx context.Context, id string) (int, error) {
	return m.refs[id], nil
}

func (m *mockCodeNameRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestSubjectServiceCodes(t *testing.T) {
	repo := &mockCodeNameRepo{subjects: map[string]*models.Subject{"math": {ID: "math", Code: "MTK", Name: "Matematika"}}, refs: map[string]int{"math": 1}}
	svc := NewSubjectService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), models.CodeNameRequest{Code: "mtk", Name: "Matematika Wajib"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), models.CodeNameRequest{Code: " bio ", Name: "Biologi"})
	require.NoError(t, err)
	assert.Equal(t, "BIO", created.Code)

	err = svc.Delete(context.Background(), "math")
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, repo.deleted)
}
