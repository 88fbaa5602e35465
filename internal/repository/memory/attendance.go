package memory

import (
	"context"
	"sort"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.Repository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	defer r.s.lock(ctx)()

	// Same guarantee as the partial unique index on open records.
	for _, existing := range r.s.attendance {
		if existing.EmployeeID == record.EmployeeID && existing.Open() {
			return attendance.Record{}, attendance.ErrOpenRecordExists
		}
	}

	record.ID = newID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.s.attendance[record.ID] = record
	r.s.attendanceOrder = append(r.s.attendanceOrder, record.ID)
	return record, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.attendance[record.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	record.UpdatedAt = time.Now().UTC()
	r.s.attendance[record.ID] = record
	return nil
}

func (r *attendanceRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (attendance.Record, error) {
	defer r.s.lock(ctx)()

	for _, id := range r.s.attendanceOrder {
		rec := r.s.attendance[id]
		if rec.EmployeeID == employeeID && rec.Open() {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrNoOpenRecord
}

func (r *attendanceRepository) ListByEmployeePeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	defer r.s.lock(ctx)()

	var records []attendance.Record
	for _, id := range r.s.attendanceOrder {
		rec := r.s.attendance[id]
		if rec.EmployeeID != employeeID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (r *attendanceRepository) ListStaleOpen(ctx context.Context, punchedInBefore time.Time) ([]attendance.Record, error) {
	defer r.s.lock(ctx)()

	var records []attendance.Record
	for _, id := range r.s.attendanceOrder {
		rec := r.s.attendance[id]
		if rec.Open() && rec.PunchIn != nil && rec.PunchIn.Before(punchedInBefore) {
			records = append(records, rec)
		}
	}
	return records, nil
}
