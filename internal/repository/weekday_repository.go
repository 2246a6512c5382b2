package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absensi-api/internal/models"
)

// WeekdayRepository reads and toggles weekday configuration.
type WeekdayRepository struct {
	db *sqlx.DB
}

// NewWeekdayRepository constructs a weekday repository.
func NewWeekdayRepository(db *sqlx.DB) *WeekdayRepository {
	return &WeekdayRepository{db: db}
}

// List returns all configured weekdays by id.
func (r *WeekdayRepository) List(ctx context.Context) ([]models.Weekday, error) {
	var days []models.Weekday
	if err := r.db.SelectContext(ctx, &days, `SELECT id, name, enabled FROM weekdays ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list weekdays: %w", err)
	}
	return days, nil
}

// FindByID loads one weekday.
func (r *WeekdayRepository) FindByID(ctx context.Context, id int64) (*models.Weekday, error) {
	var day models.Weekday
	if err := r.db.GetContext(ctx, &day, `SELECT id, name, enabled FROM weekdays WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find weekday: %w", err)
	}
	return &day, nil
}

// SetEnabled toggles a weekday.
func (r *WeekdayRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE weekdays SET enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return fmt.Errorf("update weekday: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
