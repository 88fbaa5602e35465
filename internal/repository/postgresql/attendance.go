package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, date, shift_id, punch_in, punch_out, hours_worked,
	   status, pay_type, overtime_status, created_at, updated_at`

func scanAttendanceRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ShiftID, &rec.PunchIn, &rec.PunchOut, &rec.HoursWorked,
		&rec.Status, &rec.PayType, &rec.OvertimeStatus, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, shift_id, punch_in, punch_out, hours_worked, status, pay_type, overtime_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attendanceColumns

	created, err := scanAttendanceRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.ShiftID, record.PunchIn, record.PunchOut,
		record.HoursWorked, record.Status, record.PayType, record.OvertimeStatus,
	))
	if err != nil {
		// Partial unique index on (employee_id) WHERE punch_out IS NULL.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_open_record" {
			return attendance.Record{}, attendance.ErrOpenRecordExists
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET punch_out = $2, hours_worked = $3, status = $4, pay_type = $5, overtime_status = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID, record.PunchOut, record.HoursWorked, record.Status, record.PayType, record.OvertimeStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

func (r *attendanceRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND punch_out IS NULL
		FOR UPDATE
	`

	rec, err := scanAttendanceRecord(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNoOpenRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to get open attendance record: %w", err)
	}

	return rec, nil
}

func (r *attendanceRepository) ListByEmployeePeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *attendanceRepository) ListStaleOpen(ctx context.Context, punchedInBefore time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE punch_out IS NULL AND punch_in < $1
		ORDER BY punch_in
	`

	rows, err := q.Query(ctx, query, punchedInBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}
