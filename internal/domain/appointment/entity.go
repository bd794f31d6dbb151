package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// MarkRescheduled fecha a linha original; a nova linha booked é
// criada pela remarcação com referência cruzada nas notas.
func MarkRescheduled(ap *models.Appointment, note string) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusRescheduled)
	ap.Notes = AppendNote(ap.Notes, note)
	return nil
}

// AppendNote concatena preservando o texto anterior
func AppendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + " | " + note
}
