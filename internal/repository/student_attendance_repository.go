package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absensi-api/internal/models"
)

const studentAttendanceColumns = `sa.id, sa.schedule_id, to_char(sa.date, 'YYYY-MM-DD') AS date, sa.sick, sa.leave, sa.absent, sa.notes, sa.recorded_by, sa.created_at, sa.updated_at`

// StudentAttendanceRepository stores per-session student rosters.
type StudentAttendanceRepository struct {
	db *sqlx.DB
}

// NewStudentAttendanceRepository constructs the repository.
func NewStudentAttendanceRepository(db *sqlx.DB) *StudentAttendanceRepository {
	return &StudentAttendanceRepository{db: db}
}

// Find loads the session roster for a schedule on a date.
func (r *StudentAttendanceRepository) Find(ctx context.Context, scheduleID, date string) (*models.StudentAttendance, error) {
	query := fmt.Sprintf("SELECT %s FROM student_attendance sa WHERE sa.schedule_id = $1 AND sa.date = $2", studentAttendanceColumns)
	var row models.StudentAttendance
	if err := r.db.GetContext(ctx, &row, query, scheduleID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student attendance: %w", err)
	}
	return &row, nil
}

// ListByClass returns every session roster of a class within an inclusive date range.
func (r *StudentAttendanceRepository) ListByClass(ctx context.Context, classID, from, to string) ([]models.StudentAttendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_attendance sa
JOIN schedules s ON s.id = sa.schedule_id
WHERE s.class_id = $1 AND sa.date >= $2 AND sa.date <= $3
ORDER BY sa.date ASC, sa.schedule_id ASC`, studentAttendanceColumns)
	var rows []models.StudentAttendance
	if err := r.db.SelectContext(ctx, &rows, query, classID, from, to); err != nil {
		return nil, fmt.Errorf("list class student attendance: %w", err)
	}
	return rows, nil
}

// Upsert writes the rosters for a (schedule, date) session.
func (r *StudentAttendanceRepository) Upsert(ctx context.Context, record *models.StudentAttendance) (*models.StudentAttendance, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	const query = `INSERT INTO student_attendance AS sa (id, schedule_id, date, sick, leave, absent, notes, recorded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (schedule_id, date)
DO UPDATE SET sick = EXCLUDED.sick, leave = EXCLUDED.leave, absent = EXCLUDED.absent, notes = EXCLUDED.notes, recorded_by = EXCLUDED.recorded_by, updated_at = EXCLUDED.updated_at
RETURNING ` + studentAttendanceColumns

	var stored models.StudentAttendance
	if err := r.db.GetContext(ctx, &stored, query, record.ID, record.ScheduleID, record.Date, record.Sick, record.Leave, record.Absent, record.Notes, record.RecordedBy, now); err != nil {
		return nil, fmt.Errorf("upsert student attendance: %w", err)
	}
	return &stored, nil
}
