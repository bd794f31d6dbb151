package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type PushToEndInput struct {
	AppointmentID uint
	DoctorID      uint
	Reason        string
}

// ======================================================
// USE CASE
// ======================================================

// PushToEnd move uma consulta para o fim da fila do próprio dia.
// Re-trava o dia, recalcula o rabo da fila a partir do snapshot e a
// consulta continua booked.
type PushToEnd struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewPushToEnd(repo domain.Repository, rec audit.Recorder) *PushToEnd {
	return &PushToEnd{repo: repo, audit: rec}
}

func (uc *PushToEnd) Execute(
	ctx context.Context,
	in PushToEndInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if ap.DoctorID != in.DoctorID {
		return nil, httperr.ErrBusiness("not_allowed")
	}
	if err := domain.CanPushToEnd(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	wp, err := uc.repo.GetWorkplace(ctx, ap.DoctorID, ap.WorkplaceID)
	if err != nil {
		return nil, httperr.ErrBusiness("workplace_not_found")
	}
	loc := timezone.Location(wp.Timezone)

	d := ap.AppointmentDate
	dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	var moved *models.Appointment

	err = uc.repo.WithDoctorDayLock(ctx, ap.DoctorID, dayStart, dayEnd, func(day domain.DayLock) error {

		// a própria consulta fica de fora do cálculo do rabo
		var others []models.Appointment
		for _, row := range day.Appointments() {
			if row.ID != ap.ID {
				others = append(others, row)
			}
		}

		lastEnd, _ := domain.DayTail(others, dayStart)
		_, lastQueue := domain.DayTail(domain.ForWorkplace(others, ap.WorkplaceID), dayStart)
		if lastEnd.Equal(dayStart) {
			lastEnd = firstSessionStart(wp, dayStart, loc)
		}

		duration := time.Duration(ap.DurationMin) * time.Minute
		end := lastEnd.Add(duration)
		if end.After(dayEnd) {
			return httperr.ErrBusiness("day_full")
		}

		ap.AppointmentTime = lastEnd
		ap.Slot = domain.Slot{Start: lastEnd, End: end}.Label()
		ap.QueuePosition = lastQueue + 1
		ap.Notes = domain.AppendNote(ap.Notes, in.Reason)

		if err := day.Update(ap); err != nil {
			return err
		}

		moved = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: ap.DoctorID,
		ActorID:  &in.DoctorID,
		Action:   "appointment_pushed_to_end",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return moved, nil
}
