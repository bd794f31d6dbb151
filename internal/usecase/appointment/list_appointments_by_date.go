package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	wp, err := uc.repo.GetWorkplace(ctx, doctorID, workplaceID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(wp.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

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

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:              ap.ID,
			Date:            ap.AppointmentDate.Format("2006-01-02"),
			Slot:            ap.Slot,
			AppointmentTime: ap.AppointmentTime,
			DurationMin:     ap.DurationMin,
			QueuePosition:   ap.QueuePosition,
			Status:          ap.Status,
			WorkplaceName:   ap.WorkplaceName,
			PatientName:     ap.Patient.Name,
			PatientPhone:    ap.Patient.Phone,
			Notes:           ap.Notes,
		}
		if ap.FamilyMember != nil {
			item.FamilyMemberName = ap.FamilyMember.Name
		}
		out = append(out, item)
	}
	return out
}
