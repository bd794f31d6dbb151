package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Só o médico conclui; paciente não tem esse caminho
type CompleteAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewCompleteAppointment(repo domain.Repository, rec audit.Recorder) *CompleteAppointment {
	return &CompleteAppointment{repo: repo, audit: rec}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if ap.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("not_allowed")
	}

	wp, err := uc.repo.GetWorkplace(ctx, ap.DoctorID, ap.WorkplaceID)
	if err != nil {
		return nil, httperr.ErrBusiness("workplace_not_found")
	}

	now := timezone.NowIn(wp.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: ap.DoctorID,
		ActorID:  &doctorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
