package attendance

import "context"

type Service interface {
	PunchIn(ctx context.Context, req PunchInRequest) (PunchInResponse, error)
	PunchOut(ctx context.Context, req PunchOutRequest) (PunchOutResponse, error)
	ListByPeriod(ctx context.Context, filter PeriodFilter) ([]RecordResponse, error)
}
