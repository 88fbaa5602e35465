package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type AttendanceJobs struct {
	txm            database.TxManager
	attendanceRepo attendance.Repository
	shiftRepo      shift.Repository
	clk            clock.Clock
	staleAfter     time.Duration
}

func NewAttendanceJobs(
	txm database.TxManager,
	attendanceRepo attendance.Repository,
	shiftRepo shift.Repository,
	clk clock.Clock,
	staleAfter time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		txm:            txm,
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		clk:            clk,
		staleAfter:     staleAfter,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_punches", 1*time.Hour, j.AutoCloseStalePunches)
}

// AutoCloseStalePunches closes open attendance records whose shift ended
// more than staleAfter ago, as if the employee had punched out exactly at
// shift end. The forgotten punch-out therefore never inflates hours.
func (j *AttendanceJobs) AutoCloseStalePunches(ctx context.Context) error {
	now := j.clk.Now()

	staleRecords, err := j.attendanceRepo.ListStaleOpen(ctx, now.Add(-j.staleAfter))
	if err != nil {
		return fmt.Errorf("failed to list stale open records: %w", err)
	}
	if len(staleRecords) == 0 {
		return nil
	}

	closedCount := 0
	for _, rec := range staleRecords {
		closed, err := j.closeAtShiftEnd(ctx, rec, now)
		if err != nil {
			slog.Error("Cron: Failed to auto-close attendance record",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			continue
		}
		if closed {
			closedCount++
		}
	}

	if closedCount > 0 {
		slog.Info("Cron: Auto-closed stale attendance records", "count", closedCount)
	}
	return nil
}

func (j *AttendanceJobs) closeAtShiftEnd(ctx context.Context, rec attendance.Record, now time.Time) (bool, error) {
	sh, err := j.shiftRepo.GetByID(ctx, rec.ShiftID)
	if err != nil {
		return false, fmt.Errorf("failed to get shift: %w", err)
	}

	_, shiftEnd := sh.Window(rec.Date, time.UTC)
	if now.Before(shiftEnd.Add(j.staleAfter)) {
		// Shift ended recently enough that a late punch-out may still come.
		return false, nil
	}

	return true, j.txm.WithinTx(ctx, func(ctx context.Context) error {
		punchOut := shiftEnd.UTC()
		hours := decimal.NewFromFloat(punchOut.Sub(*rec.PunchIn).Minutes()).Div(decimal.NewFromInt(60)).Round(2)
		payType := attendance.ClassifyPayType(rec.Status, hours, sh.ScheduledHours, sh.HalfDayThresholdHours)

		rec.PunchOut = &punchOut
		rec.HoursWorked = &hours
		rec.PayType = payType
		if payType != nil && *payType == attendance.PayTypeOvertime {
			ot := attendance.OvertimeStatusPendingApproval
			rec.OvertimeStatus = &ot
		}
		if err := j.attendanceRepo.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
}
