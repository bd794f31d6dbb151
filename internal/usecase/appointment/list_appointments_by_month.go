package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo appointment.Repository
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	wp, err := uc.repo.GetWorkplace(ctx, doctorID, workplaceID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(wp.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		doctorID,
		workplaceID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}
