package appointment

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BulkTransitionInput struct {
	DoctorID    uint
	WorkplaceID *uint // nil → todos os consultórios
	Date        string

	// "cancelled" | "completed" | "rescheduled"
	Target string

	// Vazio → todas as consultas do recorte
	PatientIDs []uint

	// Obrigatório quando Target == "rescheduled"
	RescheduleDate string
	Reason         string
}

// ======================================================
// USE CASE
// ======================================================

// BulkTransition aplica a mesma transição a cada linha do recorte
// consultório+data, uma a uma: falha numa linha não desfaz as que já
// passaram, só não entra na contagem.
type BulkTransition struct {
	repo       domain.Repository
	audit      audit.Recorder
	notify     notify.Notifier
	reschedule *RescheduleAppointment
}

func NewBulkTransition(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
	reschedule *RescheduleAppointment,
) *BulkTransition {
	return &BulkTransition{
		repo:       repo,
		audit:      rec,
		notify:     ntf,
		reschedule: reschedule,
	}
}

func (uc *BulkTransition) Execute(
	ctx context.Context,
	in BulkTransitionInput,
) (int, error) {

	target := domain.Status(in.Target)
	switch target {
	case domain.StatusCancelled, domain.StatusCompleted, domain.StatusRescheduled:
	default:
		return 0, httperr.ErrBusiness("invalid_target_status")
	}
	if target == domain.StatusRescheduled && in.RescheduleDate == "" {
		return 0, httperr.ErrBusiness("invalid_date")
	}

	// o dia-calendário é o do consultório; sem recorte vale o padrão
	loc := timezone.Location("")
	if in.WorkplaceID != nil {
		wp, err := uc.repo.GetWorkplace(ctx, in.DoctorID, *in.WorkplaceID)
		if err != nil {
			return 0, httperr.ErrBusiness("workplace_not_found")
		}
		loc = timezone.Location(wp.Timezone)
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_date")
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := uc.repo.ListAppointmentsForDay(ctx, in.DoctorID, in.WorkplaceID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}

	wanted := make(map[uint]bool, len(in.PatientIDs))
	for _, id := range in.PatientIDs {
		wanted[id] = true
	}

	now := timezone.Now()
	succeeded := 0
	var affected []uint

	for i := range rows {
		ap := rows[i]

		if len(wanted) > 0 && !wanted[ap.PatientID] {
			continue
		}
		if domain.Status(ap.Status) != domain.StatusBooked {
			continue
		}

		var rowErr error
		switch target {
		case domain.StatusCancelled:
			if rowErr = domain.Cancel(&ap, now); rowErr == nil {
				ap.Notes = domain.AppendNote(ap.Notes, in.Reason)
				rowErr = uc.repo.UpdateAppointment(ctx, &ap)
			}

		case domain.StatusCompleted:
			if rowErr = domain.Complete(&ap, now); rowErr == nil {
				rowErr = uc.repo.UpdateAppointment(ctx, &ap)
			}

		case domain.StatusRescheduled:
			_, rowErr = uc.reschedule.Execute(ctx, RescheduleAppointmentInput{
				AppointmentID: ap.ID,
				DoctorID:      in.DoctorID,
				NewDate:       in.RescheduleDate,
				Reason:        in.Reason,
			})
		}

		if rowErr != nil {
			log.Printf("bulk %s: consulta %d ignorada: %v", in.Target, ap.ID, rowErr)
			continue
		}

		succeeded++
		if target == domain.StatusCancelled {
			affected = append(affected, ap.PatientID)
		}
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		ActorID:  &in.DoctorID,
		Action:   "appointments_bulk_" + in.Target,
		Entity:   "appointment",
		Metadata: map[string]any{"date": in.Date, "count": succeeded},
	})

	// UM evento para a rodada toda, não um por consulta
	if len(affected) > 0 {
		uc.notify.Dispatch(notify.Notification{
			EventType:  notify.EventAppointmentCancelled,
			PatientIDs: distinctPatients(affected),
			Title:      "Consulta cancelada",
			Body:       "Consultas de " + in.Date + " foram canceladas pelo médico.",
		})
	}

	return succeeded, nil
}

func distinctPatients(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
