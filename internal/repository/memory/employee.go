package memory

import (
	"context"
	"sort"

	"github.com/kelolahr/hr-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.Repository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.s.lock(ctx)()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListPayrollEligible(ctx context.Context) ([]employee.Employee, error) {
	defer r.s.lock(ctx)()

	var eligible []employee.Employee
	for _, e := range r.s.employees {
		if e.EmploymentStatus == employee.EmploymentStatusActive && !e.PayrollExempt {
			eligible = append(eligible, e)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].EmployeeCode < eligible[j].EmployeeCode
	})
	return eligible, nil
}
