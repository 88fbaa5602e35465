package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/kelolahr/hr-backend-go/internal/domain/attendance"
	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/domain/payroll"
	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
)

type txKey struct{}

// Store is an in-memory backing for the repository interfaces, used by
// service tests. WithinTx serializes units of work under one mutex and
// rolls the whole store back when the unit fails, which mirrors the
// all-or-nothing behavior of the database transactions.
type Store struct {
	mu sync.Mutex

	employees        map[string]employee.Employee
	shifts           map[string]shift.Shift
	attendance       map[string]attendance.Record
	attendanceOrder  []string
	salaryStructures map[string][]payroll.EmployeeSalaryComponent
	runs             map[string]payroll.Run
	payslips         map[string]payroll.Payslip
	payslipOrder     []string
	payslipDetails   map[string]payroll.PayslipDetail
	detailOrder      []string
	loans            map[string]loan.Loan
	loanOrder        []string
	scheduleEntries  map[string]loan.ScheduleEntry
	repayments       map[string]loan.Repayment
	repaymentOrder   []string
}

func NewStore() *Store {
	return &Store{
		employees:        make(map[string]employee.Employee),
		shifts:           make(map[string]shift.Shift),
		attendance:       make(map[string]attendance.Record),
		salaryStructures: make(map[string][]payroll.EmployeeSalaryComponent),
		runs:             make(map[string]payroll.Run),
		payslips:         make(map[string]payroll.Payslip),
		payslipDetails:   make(map[string]payroll.PayslipDetail),
		loans:            make(map[string]loan.Loan),
		scheduleEntries:  make(map[string]loan.ScheduleEntry),
		repayments:       make(map[string]loan.Repayment),
	}
}

type snapshot struct {
	attendance      map[string]attendance.Record
	attendanceOrder []string
	runs            map[string]payroll.Run
	payslips        map[string]payroll.Payslip
	payslipOrder    []string
	payslipDetails  map[string]payroll.PayslipDetail
	detailOrder     []string
	loans           map[string]loan.Loan
	loanOrder       []string
	scheduleEntries map[string]loan.ScheduleEntry
	repayments      map[string]loan.Repayment
	repaymentOrder  []string
}

func (s *Store) takeSnapshot() snapshot {
	return snapshot{
		attendance:      maps.Clone(s.attendance),
		attendanceOrder: slices.Clone(s.attendanceOrder),
		runs:            maps.Clone(s.runs),
		payslips:        maps.Clone(s.payslips),
		payslipOrder:    slices.Clone(s.payslipOrder),
		payslipDetails:  maps.Clone(s.payslipDetails),
		detailOrder:     slices.Clone(s.detailOrder),
		loans:           maps.Clone(s.loans),
		loanOrder:       slices.Clone(s.loanOrder),
		scheduleEntries: maps.Clone(s.scheduleEntries),
		repayments:      maps.Clone(s.repayments),
		repaymentOrder:  slices.Clone(s.repaymentOrder),
	}
}

func (s *Store) restore(snap snapshot) {
	s.attendance = snap.attendance
	s.attendanceOrder = snap.attendanceOrder
	s.runs = snap.runs
	s.payslips = snap.payslips
	s.payslipOrder = snap.payslipOrder
	s.payslipDetails = snap.payslipDetails
	s.detailOrder = snap.detailOrder
	s.loans = snap.loans
	s.loanOrder = snap.loanOrder
	s.scheduleEntries = snap.scheduleEntries
	s.repayments = snap.repayments
	s.repaymentOrder = snap.repaymentOrder
}

// WithinTx implements database.TxManager. Nested calls join the outer
// unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.takeSnapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lock acquires the store mutex unless the context already holds the
// transaction, in which case WithinTx holds it for us.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func newID() string {
	return uuid.NewString()
}

// SeedEmployee inserts an employee directly, assigning an ID if empty.
func (s *Store) SeedEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	s.employees[e.ID] = e
	return e
}

// SeedShift inserts a shift directly, assigning an ID if empty.
func (s *Store) SeedShift(sh shift.Shift) shift.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = newID()
	}
	s.shifts[sh.ID] = sh
	return sh
}

// SeedSalaryStructure replaces an employee's salary structure.
func (s *Store) SeedSalaryStructure(employeeID string, components []payroll.EmployeeSalaryComponent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range components {
		if components[i].ID == "" {
			components[i].ID = newID()
		}
		components[i].EmployeeID = employeeID
	}
	s.salaryStructures[employeeID] = components
}
