package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, from_time, to_time, punch_in_margin_minutes, punch_out_margin_minutes,
			   half_day_threshold_hours, scheduled_hours, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var s shift.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.FromTime, &s.ToTime, &s.PunchInMarginMinutes, &s.PunchOutMarginMinutes,
		&s.HalfDayThresholdHours, &s.ScheduledHours, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}
