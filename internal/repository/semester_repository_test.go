package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemesterFindActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "academic_year", "start_date", "end_date", "is_active", "created_at", "updated_at"}).
		AddRow("s1", "Ganjil", "2024/2025", "2024-07-15", nil, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("to_char(start_date, 'YYYY-MM-DD') AS start_date")).WillReturnRows(rows)

	semester, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, semester.StartDate)
	assert.Equal(t, "2024-07-15", *semester.StartDate)
	assert.Nil(t, semester.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterSetActiveCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE semesters SET is_active = FALSE")).
		WithArgs(sqlmock.AnyArg(), "s2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE semesters SET is_active = TRUE")).
		WithArgs("s2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetActive(context.Background(), "s2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterSetActiveRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE semesters SET is_active = FALSE")).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.SetActive(context.Background(), "s2")
	assert.ErrorContains(t, err, "deactivate other semesters")
	assert.NoError(t, mock.ExpectationsWereMet())
}
