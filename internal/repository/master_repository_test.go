package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absensi-api/internal/models"
	appErrors "github.com/noah-isme/sma-absensi-api/pkg/errors"
)

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nip", "email", "full_name", "phone", "active", "created_at", "updated_at"}).
		AddRow("t1", nil, "a@example.com", "Teacher A", nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nip, email, full_name, phone, active, created_at, updated_at FROM teachers WHERE 1=1 ORDER BY full_name ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListNames(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name FROM teachers WHERE id IN ($1, $2)")).
		WithArgs("t1", "t2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow("t1", "Bu Ani").AddRow("t2", "Pak Budi"))

	names, err := repo.ListNames(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"t1": "Bu Ani", "t2": "Pak Budi"}, names)

	empty, err := repo.ListNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateAndDeactivate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	email := "a@example.com"
	mock.ExpectExec("INSERT INTO teachers").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "a@example.com", "Teacher A", sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), &models.Teacher{Email: &email, FullName: "Teacher A", Active: true}))

	mock.ExpectExec("UPDATE teachers SET active = FALSE").
		WithArgs("id-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Deactivate(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s WHERE s.class_id = $1 AND s.active = TRUE ORDER BY s.full_name ASC")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nis", "full_name", "gender", "class_id", "active", "created_at", "updated_at"}).
			AddRow("s1", "001", "Ani", "P", "c1", true, now, now))

	roster, err := repo.ListByClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Ani", roster[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectAndMajorShareStore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, created_at, updated_at FROM subjects WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(code) LIKE $1) ORDER BY name ASC LIMIT 20 OFFSET 0")).
		WithArgs("%mat%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "created_at", "updated_at"}).AddRow("sub1", "MTK", "Matematika", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	subjects, total, err := NewSubjectRepository(db).List(context.Background(), models.CodeNameFilter{Search: "Mat"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "MTK", subjects[0].Code)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classes WHERE major_id = $1")).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	refs, err := NewMajorRepository(db).CountReferences(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 3, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest map[string]int
	err := repo.Get(context.Background(), "recap:x", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "recap:x", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "recap:*"))
	assert.NoError(t, repo.Ping(context.Background()))
}
