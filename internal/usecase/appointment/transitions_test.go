package appointment

import (
	"context"
	"testing"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

func TestCancelByDoctor(t *testing.T) {
	repo := newFakeRepo()
	rec := &recorderStub{}
	ntf := &notifierStub{}
	uc := NewCancelAppointment(repo, rec, ntf)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	ap, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: orig.ID,
		ByDoctorID:    uintPtr(1),
		Reason:        "imprevisto",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if domain.Status(ap.Status) != domain.StatusCancelled || ap.CancelledAt == nil {
		t.Errorf("status=%q cancelled_at=%v", ap.Status, ap.CancelledAt)
	}
	if ap.Notes != "imprevisto" {
		t.Errorf("notes = %q", ap.Notes)
	}

	// cancelamento pelo médico avisa o paciente
	if sent := ntf.byType(notify.EventAppointmentCancelled); len(sent) != 1 {
		t.Errorf("notificações = %d", len(sent))
	}

	// terminal: segunda tentativa é rejeitada
	_, err = uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: orig.ID,
		ByDoctorID:    uintPtr(1),
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("segundo cancelamento: err = %v", err)
	}
}

func TestCancelByPatient(t *testing.T) {
	repo := newFakeRepo()
	ntf := &notifierStub{}
	uc := NewCancelAppointment(repo, &recorderStub{}, ntf)

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	// paciente errado não cancela consulta alheia
	_, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: orig.ID,
		ByPatientID:   uintPtr(11),
	})
	if !httperr.IsBusiness(err, "not_allowed") {
		t.Fatalf("err = %v, esperava not_allowed", err)
	}

	ap, err := uc.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: orig.ID,
		ByPatientID:   uintPtr(10),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if domain.Status(ap.Status) != domain.StatusCancelled {
		t.Errorf("status = %q", ap.Status)
	}

	// o próprio paciente cancelou: não há o que avisar
	if sent := ntf.byType(notify.EventAppointmentCancelled); len(sent) != 0 {
		t.Errorf("notificações = %d", len(sent))
	}
}

func TestCompleteAppointment(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCompleteAppointment(repo, &recorderStub{})
	ctx := context.Background()

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	if _, err := uc.Execute(ctx, 2, orig.ID); !httperr.IsBusiness(err, "not_allowed") {
		t.Fatalf("outro médico: err = %v", err)
	}

	ap, err := uc.Execute(ctx, 1, orig.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if domain.Status(ap.Status) != domain.StatusCompleted || ap.CompletedAt == nil {
		t.Errorf("status=%q completed_at=%v", ap.Status, ap.CompletedAt)
	}

	if _, err := uc.Execute(ctx, 1, orig.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("segunda conclusão: err = %v", err)
	}
}

func TestPushToEnd(t *testing.T) {
	repo := newFakeRepo()
	uc := NewPushToEnd(repo, &recorderStub{})
	date := futureDate(t, 2)

	first := mustBook(t, repo, date, "9:00AM - 9:30AM", 10)
	mustBook(t, repo, date, "9:30AM - 10:00AM", 11)

	moved, err := uc.Execute(context.Background(), PushToEndInput{
		AppointmentID: first.ID,
		DoctorID:      1,
		Reason:        "paciente atrasado",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// vai para depois da última consulta do dia, continua booked
	if moved.AppointmentTime.Hour() != 10 || moved.AppointmentTime.Minute() != 0 {
		t.Errorf("appointment_time = %v, esperava 10:00", moved.AppointmentTime)
	}
	if moved.Slot != "10:00AM - 10:30AM" {
		t.Errorf("slot = %q", moved.Slot)
	}
	if domain.Status(moved.Status) != domain.StatusBooked {
		t.Errorf("status = %q", moved.Status)
	}

	// posições nunca são reaproveitadas
	if moved.QueuePosition != 3 {
		t.Errorf("queue_position = %d, esperava 3", moved.QueuePosition)
	}
}

func TestPushToEndGuards(t *testing.T) {
	repo := newFakeRepo()
	uc := NewPushToEnd(repo, &recorderStub{})
	ctx := context.Background()

	orig := mustBook(t, repo, futureDate(t, 2), "9:00AM - 9:30AM", 10)

	if _, err := uc.Execute(ctx, PushToEndInput{AppointmentID: 999, DoctorID: 1}); !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("err = %v", err)
	}
	if _, err := uc.Execute(ctx, PushToEndInput{AppointmentID: orig.ID, DoctorID: 2}); !httperr.IsBusiness(err, "not_allowed") {
		t.Fatalf("err = %v", err)
	}

	cancel := NewCancelAppointment(repo, &recorderStub{}, &notifierStub{})
	if _, err := cancel.Execute(ctx, CancelAppointmentInput{AppointmentID: orig.ID, ByDoctorID: uintPtr(1)}); err != nil {
		t.Fatalf("cancelamento de apoio: %v", err)
	}
	if _, err := uc.Execute(ctx, PushToEndInput{AppointmentID: orig.ID, DoctorID: 1}); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("err = %v, esperava invalid_state", err)
	}
}
