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

const scheduleColumns = `s.id, s.semester_id, s.teacher_id, s.class_id, s.subject_id, s.weekday_id, s.period_id, s.created_at, s.updated_at`

const scheduleDetailFrom = `FROM schedules s
JOIN teachers t ON t.id = s.teacher_id
JOIN classes c ON c.id = s.class_id
JOIN subjects sub ON sub.id = s.subject_id
JOIN weekdays w ON w.id = s.weekday_id
JOIN periods p ON p.id = s.period_id`

// ScheduleRepository provides persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with display names ordered by weekday and period start.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, error) {
	where := []string{"1=1"}
	var args []interface{}
	if filter.SemesterID != "" {
		where = append(where, fmt.Sprintf("s.semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.TeacherID != "" {
		where = append(where, fmt.Sprintf("s.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		where = append(where, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.WeekdayID > 0 {
		where = append(where, fmt.Sprintf("s.weekday_id = $%d", len(args)+1))
		args = append(args, filter.WeekdayID)
	}

	query := fmt.Sprintf(`SELECT %s, t.full_name AS teacher_name, c.name AS class_name, sub.name AS subject_name,
        w.name AS weekday_name, p.name AS period_name, to_char(p.start_time, 'HH24:MI') AS start_time
        %s WHERE %s ORDER BY s.weekday_id ASC, p.start_time ASC, c.name ASC`, scheduleColumns, scheduleDetailFrom, strings.Join(where, " AND "))

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// ListSlots returns the bare schedule rows of a semester for recap computation.
func (r *ScheduleRepository) ListSlots(ctx context.Context, semesterID string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules s WHERE s.semester_id = $1", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semesterID); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules s WHERE s.id = $1", scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return &schedule, nil
}

// FindConflicts returns schedules occupying the same semester, weekday and period.
func (r *ScheduleRepository) FindConflicts(ctx context.Context, semesterID string, weekdayID, periodID int64) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules s WHERE s.semester_id = $1 AND s.weekday_id = $2 AND s.period_id = $3", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semesterID, weekdayID, periodID); err != nil {
		return nil, fmt.Errorf("find schedule conflicts: %w", err)
	}
	return schedules, nil
}

// Create inserts a schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	const query = `INSERT INTO schedules (id, semester_id, teacher_id, class_id, subject_id, weekday_id, period_id, created_at, updated_at) VALUES (:id, :semester_id, :teacher_id, :class_id, :subject_id, :weekday_id, :period_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies a schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET semester_id = :semester_id, teacher_id = :teacher_id, class_id = :class_id, subject_id = :subject_id, weekday_id = :weekday_id, period_id = :period_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
