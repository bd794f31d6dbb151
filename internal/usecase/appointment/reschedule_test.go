package appointment

import (
	"context"
	"strings"
	"testing"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

func mustBook(t *testing.T, repo *fakeRepo, date, slot string, patientID uint) *models.Appointment {
	t.Helper()
	uc, _, _ := newBooking(repo)
	ap, err := uc.Execute(context.Background(), BookAppointmentInput{
		DoctorID:    1,
		WorkplaceID: 1,
		PatientID:   patientID,
		Date:        date,
		Slot:        slot,
	})
	if err != nil {
		t.Fatalf("marcação de apoio: %v", err)
	}
	return ap
}

func newReschedule(repo *fakeRepo) (*RescheduleAppointment, *recorderStub, *notifierStub) {
	rec := &recorderStub{}
	ntf := &notifierStub{}
	return NewRescheduleAppointment(repo, rec, ntf), rec, ntf
}

func TestRescheduleToNewDay(t *testing.T) {
	repo := newFakeRepo()
	uc, _, ntf := newReschedule(repo)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	next, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: orig.ID,
		DoctorID:      1,
		NewDate:       futureDate(t, 3),
		NewSlot:       "10:00AM - 10:30AM",
		Reason:        "pedido do paciente",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if next.ID == orig.ID {
		t.Fatal("remarcação reutilizou a linha original")
	}
	if next.Status != "booked" || next.Slot != "10:00AM - 10:30AM" {
		t.Errorf("nova linha: status=%q slot=%q", next.Status, next.Slot)
	}
	if next.PatientID != 10 || next.QueuePosition != 1 {
		t.Errorf("nova linha: patient=%d queue=%d", next.PatientID, next.QueuePosition)
	}
	if next.DoctorName != orig.DoctorName || next.WorkplaceName != orig.WorkplaceName {
		t.Error("snapshot de exibição não foi preservado")
	}

	// linha original fecha como rescheduled e aponta para a nova
	repo.mu.Lock()
	old := repo.appointments[orig.ID]
	repo.mu.Unlock()
	if domain.Status(old.Status) != domain.StatusRescheduled {
		t.Errorf("original: status = %q", old.Status)
	}
	if !strings.Contains(old.Notes, "remarcada para") {
		t.Errorf("original: notes = %q", old.Notes)
	}

	sent := ntf.byType(notify.EventAppointmentRescheduled)
	if len(sent) != 1 || sent[0].PatientIDs[0] != 10 {
		t.Errorf("notificação = %+v", sent)
	}
}

func TestRescheduleSlotTaken(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newReschedule(repo)
	target := futureDate(t, 3)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)
	mustBook(t, repo, target, "10:00AM - 10:30AM", 11)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: orig.ID,
		DoctorID:      1,
		NewDate:       target,
		NewSlot:       "10:00AM - 10:30AM",
	})
	if !httperr.IsBusiness(err, "slot_taken") {
		t.Fatalf("err = %v, esperava slot_taken", err)
	}

	// conflito não pode fechar a original
	repo.mu.Lock()
	old := repo.appointments[orig.ID]
	repo.mu.Unlock()
	if domain.Status(old.Status) != domain.StatusBooked {
		t.Errorf("original virou %q após conflito", old.Status)
	}
}

func TestRescheduleWithoutSlotGoesToEndOfQueue(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newReschedule(repo)
	target := futureDate(t, 3)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)
	mustBook(t, repo, target, "9:00AM - 9:30AM", 11)

	next, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: orig.ID,
		DoctorID:      1,
		NewDate:       target,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if next.AppointmentTime.Hour() != 9 || next.AppointmentTime.Minute() != 30 {
		t.Errorf("appointment_time = %v, esperava 09:30", next.AppointmentTime)
	}
	if next.QueuePosition != 2 {
		t.Errorf("queue_position = %d, esperava 2", next.QueuePosition)
	}
}

func TestRescheduleGuards(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newReschedule(repo)
	ctx := context.Background()
	target := futureDate(t, 3)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	t.Run("consulta inexistente", func(t *testing.T) {
		_, err := uc.Execute(ctx, RescheduleAppointmentInput{
			AppointmentID: 999, DoctorID: 1, NewDate: target,
		})
		if !httperr.IsBusiness(err, "appointment_not_found") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("outro medico", func(t *testing.T) {
		_, err := uc.Execute(ctx, RescheduleAppointmentInput{
			AppointmentID: orig.ID, DoctorID: 2, NewDate: target,
		})
		if !httperr.IsBusiness(err, "not_allowed") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("estado terminal", func(t *testing.T) {
		cancel := NewCancelAppointment(repo, &recorderStub{}, &notifierStub{})
		if _, err := cancel.Execute(ctx, CancelAppointmentInput{
			AppointmentID: orig.ID, ByDoctorID: uintPtr(1),
		}); err != nil {
			t.Fatalf("cancelamento de apoio: %v", err)
		}

		_, err := uc.Execute(ctx, RescheduleAppointmentInput{
			AppointmentID: orig.ID, DoctorID: 1, NewDate: target,
		})
		if !httperr.IsBusiness(err, "invalid_state") {
			t.Fatalf("err = %v, esperava invalid_state", err)
		}
	})
}
