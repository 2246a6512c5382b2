package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absensi-api/internal/models"
)

const teacherAttendanceColumns = `id, teacher_id, to_char(date, 'YYYY-MM-DD') AS date, to_char(check_in, 'HH24:MI') AS check_in, remarks, created_at, updated_at`

// TeacherAttendanceRepository stores daily teacher check-ins.
type TeacherAttendanceRepository struct {
	db *sqlx.DB
}

// NewTeacherAttendanceRepository constructs the repository.
func NewTeacherAttendanceRepository(db *sqlx.DB) *TeacherAttendanceRepository {
	return &TeacherAttendanceRepository{db: db}
}

// List returns check-ins within the inclusive filter range ordered by date.
func (r *TeacherAttendanceRepository) List(ctx context.Context, filter models.TeacherAttendanceFilter) ([]models.TeacherAttendance, error) {
	where := []string{"1=1"}
	var args []interface{}
	if filter.From != "" {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.To)
	}
	if filter.TeacherID != "" {
		where = append(where, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	query := fmt.Sprintf("SELECT %s FROM teacher_attendance WHERE %s ORDER BY date ASC, teacher_id ASC", teacherAttendanceColumns, strings.Join(where, " AND "))

	var rows []models.TeacherAttendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher attendance: %w", err)
	}
	return rows, nil
}

// FindByTeacherAndDate loads one teacher's row for a date.
func (r *TeacherAttendanceRepository) FindByTeacherAndDate(ctx context.Context, teacherID, date string) (*models.TeacherAttendance, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_attendance WHERE teacher_id = $1 AND date = $2", teacherAttendanceColumns)
	var row models.TeacherAttendance
	if err := r.db.GetContext(ctx, &row, query, teacherID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher attendance: %w", err)
	}
	return &row, nil
}

// CheckIn records a check-in unless one already exists for the date. The returned flag is
// false when an earlier check-in was kept.
func (r *TeacherAttendanceRepository) CheckIn(ctx context.Context, teacherID, date, clock string) (*models.TeacherAttendance, bool, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO teacher_attendance (id, teacher_id, date, check_in, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (teacher_id, date)
DO UPDATE SET check_in = EXCLUDED.check_in, updated_at = EXCLUDED.updated_at
WHERE teacher_attendance.check_in IS NULL
RETURNING %s`, teacherAttendanceColumns)

	var row models.TeacherAttendance
	err := r.db.GetContext(ctx, &row, query, uuid.NewString(), teacherID, date, clock, now)
	if err == nil {
		return &row, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("check in teacher: %w", err)
	}
	existing, err := r.FindByTeacherAndDate(ctx, teacherID, date)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Upsert writes an administrator-supplied row, replacing check-in and remarks.
func (r *TeacherAttendanceRepository) Upsert(ctx context.Context, record *models.TeacherAttendance) (*models.TeacherAttendance, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO teacher_attendance (id, teacher_id, date, check_in, remarks, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (teacher_id, date)
DO UPDATE SET check_in = EXCLUDED.check_in, remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
RETURNING %s`, teacherAttendanceColumns)

	var stored models.TeacherAttendance
	if err := r.db.GetContext(ctx, &stored, query, record.ID, record.TeacherID, record.Date, record.CheckIn, record.Remarks, now); err != nil {
		return nil, fmt.Errorf("upsert teacher attendance: %w", err)
	}
	return &stored, nil
}
