package appointment

import (
	"context"
	"fmt"
	"time"

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

type RescheduleAppointmentInput struct {
	AppointmentID uint
	DoctorID      uint

	NewDate string // YYYY-MM-DD
	NewSlot string // vazio → fim da fila do novo dia
	Reason  string
}

// ======================================================
// USE CASE
// ======================================================

// RescheduleAppointment fecha a linha original como rescheduled
// (terminal) e cria uma linha booked nova no dia de destino, com fila
// recalculada dentro do lock daquele dia. As duas escritas saem na
// mesma transação.
type RescheduleAppointment struct {
	repo   domain.Repository
	audit  audit.Recorder
	notify notify.Notifier
}

func NewRescheduleAppointment(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  rec,
		notify: ntf,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	orig, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if orig.DoctorID != in.DoctorID {
		return nil, httperr.ErrBusiness("not_allowed")
	}
	if err := domain.CanReschedule(domain.Status(orig.Status)); err != nil {
		return nil, err
	}

	wp, err := uc.repo.GetWorkplace(ctx, orig.DoctorID, orig.WorkplaceID)
	if err != nil {
		return nil, httperr.ErrBusiness("workplace_not_found")
	}

	loc := timezone.Location(wp.Timezone)
	now := timezone.NowIn(wp.Timezone)

	newDate, err := time.ParseInLocation("2006-01-02", in.NewDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	dayStart := time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if dayStart.Before(todayStart) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	duration := time.Duration(orig.DurationMin) * time.Minute
	if duration <= 0 {
		duration = domain.SlotDuration(wp)
	}

	var requested *domain.Slot
	if in.NewSlot != "" {
		slot, err := findGeneratedSlot(wp, in.NewSlot, dayStart, loc)
		if err != nil {
			return nil, err
		}
		if !slot.Start.After(now) {
			return nil, httperr.ErrBusiness("slot_in_past")
		}
		requested = &slot
	}

	var created *models.Appointment

	err = uc.repo.WithDoctorDayLock(ctx, orig.DoctorID, dayStart, dayEnd, func(day domain.DayLock) error {

		snapshot := day.Appointments()
		mine := domain.ForWorkplace(snapshot, orig.WorkplaceID)

		var start time.Time
		var slotLabel string
		var queuePos int

		if requested != nil {
			for _, ap := range mine {
				if ap.ID == orig.ID {
					continue
				}
				if domain.Status(ap.Status) != domain.StatusCancelled && ap.Slot == requested.Label() {
					return httperr.ErrBusiness("slot_taken")
				}
			}
			start = requested.Start
			slotLabel = requested.Label()
			_, lastQueue := domain.DayTail(mine, dayStart)
			queuePos = lastQueue + 1
		} else {
			lastEnd, _ := domain.DayTail(snapshot, dayStart)
			_, lastQueue := domain.DayTail(mine, dayStart)
			if lastEnd.Equal(dayStart) {
				lastEnd = firstSessionStart(wp, dayStart, loc)
			}
			start = lastEnd
			queuePos = lastQueue + 1
		}

		end := start.Add(duration)
		if end.After(dayEnd) {
			return httperr.ErrBusiness("day_full")
		}
		if slotLabel == "" {
			slotLabel = domain.Slot{Start: start, End: end}.Label()
		}

		next := models.Appointment{
			DoctorID:       orig.DoctorID,
			WorkplaceID:    orig.WorkplaceID,
			PatientID:      orig.PatientID,
			FamilyMemberID: orig.FamilyMemberID,

			AppointmentDate: dayStart,
			Slot:            slotLabel,
			AppointmentTime: start,
			DurationMin:     int(duration / time.Minute),
			QueuePosition:   queuePos,

			Status: string(domain.InitialStatus()),
			Notes: domain.AppendNote(
				in.Reason,
				fmt.Sprintf("remarcada da consulta #%d (%s)", orig.ID, orig.Slot),
			),

			// snapshot preservado da linha original
			DoctorName:           orig.DoctorName,
			DoctorSpecialization: orig.DoctorSpecialization,
			WorkplaceName:        orig.WorkplaceName,
			WorkplaceType:        orig.WorkplaceType,
			WorkplaceAddress:     orig.WorkplaceAddress,
		}

		if err := day.Create(&next); err != nil {
			return err
		}

		if err := domain.MarkRescheduled(orig, fmt.Sprintf(
			"remarcada para %s %s (consulta #%d)",
			dayStart.Format("2006-01-02"), slotLabel, next.ID,
		)); err != nil {
			return err
		}

		if err := day.Update(orig); err != nil {
			return err
		}

		created = &next
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: orig.DoctorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &orig.ID,
		Metadata: map[string]any{"new_appointment_id": created.ID},
	})

	uc.notify.Dispatch(notify.Notification{
		EventType:  notify.EventAppointmentRescheduled,
		PatientIDs: []uint{orig.PatientID},
		Title:      "Consulta remarcada",
		Body: fmt.Sprintf(
			"Nova data: %s %s", created.AppointmentDate.Format("02/01/2006"), created.Slot,
		),
	})

	return created, nil
}
