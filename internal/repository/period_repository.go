package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absensi-api/internal/models"
)

const periodColumns = `id, name, to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time`

// PeriodRepository persists daily lesson periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs a period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns periods ordered by start time.
func (r *PeriodRepository) List(ctx context.Context) ([]models.Period, error) {
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, "SELECT "+periodColumns+" FROM periods ORDER BY start_time ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID loads a period.
func (r *PeriodRepository) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	var period models.Period
	if err := r.db.GetContext(ctx, &period, "SELECT "+periodColumns+" FROM periods WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find period: %w", err)
	}
	return &period, nil
}

// Create inserts a period and assigns its generated id.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	const query = `INSERT INTO periods (name, start_time, end_time) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, period.Name, period.StartTime, period.EndTime).Scan(&period.ID); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// Update modifies a period.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	const query = `UPDATE periods SET name = $2, start_time = $3, end_time = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, period.ID, period.Name, period.StartTime, period.EndTime); err != nil {
		return fmt.Errorf("update period: %w", err)
	}
	return nil
}

// CountSchedules returns how many schedules use the period.
func (r *PeriodRepository) CountSchedules(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedules WHERE period_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count period schedules: %w", err)
	}
	return count, nil
}

// Delete removes a period.
func (r *PeriodRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM periods WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	return nil
}
