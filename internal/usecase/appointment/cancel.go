package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// Exatamente um dos dois atores preenchido
type CancelAppointmentInput struct {
	AppointmentID uint
	ByDoctorID    *uint
	ByPatientID   *uint
	Reason        string
}

// ======================================================
// USE CASE
// ======================================================

type CancelAppointment struct {
	repo   domain.Repository
	audit  audit.Recorder
	notify notify.Notifier
}

func NewCancelAppointment(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  rec,
		notify: ntf,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// dono ou médico da consulta, ninguém mais
	switch {
	case in.ByDoctorID != nil:
		if ap.DoctorID != *in.ByDoctorID {
			return nil, httperr.ErrBusiness("not_allowed")
		}
	case in.ByPatientID != nil:
		if ap.PatientID != *in.ByPatientID {
			return nil, httperr.ErrBusiness("not_allowed")
		}
	default:
		return nil, httperr.ErrBusiness("not_allowed")
	}

	wp, err := uc.repo.GetWorkplace(ctx, ap.DoctorID, ap.WorkplaceID)
	if err != nil {
		return nil, httperr.ErrBusiness("workplace_not_found")
	}

	now := timezone.NowIn(wp.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}
	ap.Notes = domain.AppendNote(ap.Notes, in.Reason)

	// Cancelamento não mexe na fila dos outros: buracos são aceitos
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: ap.DoctorID,
		ActorID:  in.ByDoctorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if in.ByDoctorID != nil {
		uc.notify.Dispatch(notify.Notification{
			EventType:  notify.EventAppointmentCancelled,
			PatientIDs: []uint{ap.PatientID},
			Title:      "Consulta cancelada",
			Body:       ap.AppointmentDate.Format("02/01/2006") + " " + ap.Slot,
		})
	}

	return ap, nil
}
