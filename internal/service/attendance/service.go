package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	txm            database.TxManager
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	shiftRepo      shift.Repository
	clk            clock.Clock
}

func NewAttendanceService(
	txm database.TxManager,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	clk clock.Clock,
) attendance.Service {
	return &AttendanceServiceImpl{
		txm:            txm,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		clk:            clk,
	}
}

// resolveActual determines the authoritative punch instant and the
// timezone whose wall clock shift boundaries are evaluated in. Without an
// override the service clock rules and everything happens in UTC.
func (a *AttendanceServiceImpl) resolveActual(overrideTime, overrideTZ *string) (time.Time, *time.Location, error) {
	if overrideTime == nil {
		return a.clk.Now().UTC(), time.UTC, nil
	}

	loc, err := time.LoadLocation(*overrideTZ)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to load override timezone: %w", err)
	}
	local, err := time.ParseInLocation("2006-01-02 15:04:05", *overrideTime, loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to parse override local time: %w", err)
	}
	return local.UTC(), loc, nil
}

// workDay truncates an instant to the calendar day it falls on in loc,
// stored at UTC midnight.
func workDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// PunchIn implements attendance.Service.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.PunchInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchInResponse{}, err
	}

	actual, loc, err := a.resolveActual(req.OverrideLocalTime, req.OverrideTimezone)
	if err != nil {
		return attendance.PunchInResponse{}, err
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.PunchInResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.PunchInResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.ShiftID == nil {
		return attendance.PunchInResponse{}, attendance.ErrNoAssignedShift
	}

	sh, err := a.shiftRepo.GetByID(ctx, *emp.ShiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.PunchInResponse{}, attendance.ErrNoAssignedShift
		}
		return attendance.PunchInResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	var created attendance.Record
	err = a.txm.WithinTx(ctx, func(ctx context.Context) error {
		_, err := a.attendanceRepo.GetOpenByEmployee(ctx, emp.ID)
		if err == nil {
			return attendance.ErrOpenRecordExists
		}
		if !errors.Is(err, attendance.ErrNoOpenRecord) {
			return fmt.Errorf("failed to check for open record: %w", err)
		}

		date := workDay(actual, loc)
		localDate := actual.In(loc)
		shiftStart, _ := sh.Window(localDate, loc)

		// On time within the grace margin still counts from shift start.
		effective := actual
		status := attendance.StatusLate
		if !actual.After(shiftStart.Add(sh.PunchInMargin())) {
			effective = shiftStart.UTC()
			status = attendance.StatusPresent
		}

		created, err = a.attendanceRepo.Create(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date,
			ShiftID:    sh.ID,
			PunchIn:    &effective,
			Status:     status,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.PunchInResponse{}, err
	}

	return attendance.PunchInResponse{
		AttendanceID:     created.ID,
		AttendanceStatus: string(created.Status),
		Date:             created.Date.Format("2006-01-02"),
		PunchIn:          created.PunchIn.Format("2006-01-02 15:04:05"),
	}, nil
}

// PunchOut implements attendance.Service.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.PunchOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchOutResponse{}, err
	}

	actual, loc, err := a.resolveActual(req.OverrideLocalTime, req.OverrideTimezone)
	if err != nil {
		return attendance.PunchOutResponse{}, err
	}

	var closed attendance.Record
	err = a.txm.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := a.attendanceRepo.GetOpenByEmployee(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, attendance.ErrNoOpenRecord) {
				return attendance.ErrNoOpenRecord
			}
			return fmt.Errorf("failed to get open record: %w", err)
		}

		sh, err := a.shiftRepo.GetByID(ctx, rec.ShiftID)
		if err != nil {
			return fmt.Errorf("failed to get shift: %w", err)
		}

		// Shift end is anchored on the punch-in's work day, so overnight
		// shifts close on the following calendar day.
		punchDay := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, loc)
		_, shiftEnd := sh.Window(punchDay, loc)

		effective := actual
		if actual.After(shiftEnd) && !actual.After(shiftEnd.Add(sh.PunchOutMargin())) {
			effective = shiftEnd.UTC()
		}

		hours := decimal.NewFromFloat(effective.Sub(*rec.PunchIn).Minutes()).
			Div(decimal.NewFromInt(60)).Round(2)

		rec.PunchOut = &effective
		rec.HoursWorked = &hours
		rec.PayType = attendance.ClassifyPayType(rec.Status, hours, sh.ScheduledHours, sh.HalfDayThresholdHours)
		if rec.PayType != nil && *rec.PayType == attendance.PayTypeOvertime {
			pending := attendance.OvertimeStatusPendingApproval
			rec.OvertimeStatus = &pending
		}

		if err := a.attendanceRepo.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		closed = rec
		return nil
	})
	if err != nil {
		return attendance.PunchOutResponse{}, err
	}

	var payType *string
	if closed.PayType != nil {
		v := string(*closed.PayType)
		payType = &v
	}
	return attendance.PunchOutResponse{
		AttendanceID: closed.ID,
		HoursWorked:  *closed.HoursWorked,
		PayType:      payType,
		PunchOut:     closed.PunchOut.Format("2006-01-02 15:04:05"),
	}, nil
}

// ListByPeriod implements attendance.Service.
func (a *AttendanceServiceImpl) ListByPeriod(ctx context.Context, filter attendance.PeriodFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from, _ := time.Parse("2006-01-02", filter.FromDate)
	to, _ := time.Parse("2006-01-02", filter.ToDate)

	records, err := a.attendanceRepo.ListByEmployeePeriod(ctx, filter.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}
	return responses, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	var payType, overtimeStatus *string
	if rec.PayType != nil {
		v := string(*rec.PayType)
		payType = &v
	}
	if rec.OvertimeStatus != nil {
		v := string(*rec.OvertimeStatus)
		overtimeStatus = &v
	}

	return attendance.RecordResponse{
		ID:             rec.ID,
		EmployeeID:     rec.EmployeeID,
		Date:           rec.Date.Format("2006-01-02"),
		ShiftID:        rec.ShiftID,
		PunchIn:        timePtrToString(rec.PunchIn),
		PunchOut:       timePtrToString(rec.PunchOut),
		HoursWorked:    rec.HoursWorked,
		Status:         string(rec.Status),
		PayType:        payType,
		OvertimeStatus: overtimeStatus,
	}
}
