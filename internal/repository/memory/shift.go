package memory

import (
	"context"

	"github.com/kelolahr/hr-backend-go/internal/domain/shift"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) shift.Repository {
	return &shiftRepository{s: s}
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	defer r.s.lock(ctx)()

	sh, ok := r.s.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}
