package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func newBulk(repo *fakeRepo) (*BulkTransition, *recorderStub, *notifierStub) {
	rec := &recorderStub{}
	ntf := &notifierStub{}
	reschedule := NewRescheduleAppointment(repo, rec, ntf)
	return NewBulkTransition(repo, rec, ntf, reschedule), rec, ntf
}

func TestBulkCancelDay(t *testing.T) {
	repo := newFakeRepo()
	uc, rec, ntf := newBulk(repo)
	date := futureDate(t, 2)

	mustBook(t, repo, date, "9:00AM - 9:30AM", 10)
	mustBook(t, repo, date, "9:30AM - 10:00AM", 11)
	already := mustBook(t, repo, date, "10:00AM - 10:30AM", 10)

	cancel := NewCancelAppointment(repo, &recorderStub{}, &notifierStub{})
	if _, err := cancel.Execute(context.Background(), CancelAppointmentInput{
		AppointmentID: already.ID, ByDoctorID: uintPtr(1),
	}); err != nil {
		t.Fatalf("cancelamento de apoio: %v", err)
	}

	count, err := uc.Execute(context.Background(), BulkTransitionInput{
		DoctorID:    1,
		WorkplaceID: uintPtr(1),
		Date:        date,
		Target:      "cancelled",
		Reason:      "agenda fechada",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// a já cancelada fica de fora da contagem
	if count != 2 {
		t.Fatalf("count = %d, esperava 2", count)
	}

	repo.mu.Lock()
	for id, ap := range repo.appointments {
		if domain.Status(ap.Status) != domain.StatusCancelled {
			t.Errorf("consulta %d: status = %q", id, ap.Status)
		}
	}
	repo.mu.Unlock()

	// UM evento em lote, pacientes sem repetição
	sent := ntf.byType(notify.EventAppointmentCancelled)
	if len(sent) != 1 || len(sent[0].PatientIDs) != 2 {
		t.Fatalf("lote = %+v", sent)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	last := rec.events[len(rec.events)-1]
	if last.Action != "appointments_bulk_cancelled" {
		t.Errorf("auditoria = %+v", last)
	}
}

func TestBulkCancelFilteredByPatient(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newBulk(repo)
	date := futureDate(t, 2)

	target := mustBook(t, repo, date, "9:00AM - 9:30AM", 10)
	other := mustBook(t, repo, date, "9:30AM - 10:00AM", 11)

	count, err := uc.Execute(context.Background(), BulkTransitionInput{
		DoctorID:   1,
		Date:       date,
		Target:     "cancelled",
		PatientIDs: []uint{10},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, esperava 1", count)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if st := repo.appointments[target.ID].Status; domain.Status(st) != domain.StatusCancelled {
		t.Errorf("consulta do paciente 10: %q", st)
	}
	if st := repo.appointments[other.ID].Status; domain.Status(st) != domain.StatusBooked {
		t.Errorf("consulta do paciente 11 virou %q", st)
	}
}

func TestBulkComplete(t *testing.T) {
	repo := newFakeRepo()
	uc, _, ntf := newBulk(repo)
	date := futureDate(t, 2)

	mustBook(t, repo, date, "9:00AM - 9:30AM", 10)
	mustBook(t, repo, date, "9:30AM - 10:00AM", 11)

	count, err := uc.Execute(context.Background(), BulkTransitionInput{
		DoctorID: 1,
		Date:     date,
		Target:   "completed",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}

	// conclusão em lote não notifica ninguém
	if len(ntf.sent) != 0 {
		t.Errorf("notificações = %+v", ntf.sent)
	}
}

func TestBulkReschedule(t *testing.T) {
	repo := newFakeRepo()
	uc, _, ntf := newBulk(repo)
	date := futureDate(t, 2)
	target := futureDate(t, 3)

	a := mustBook(t, repo, date, "9:00AM - 9:30AM", 10)
	b := mustBook(t, repo, date, "9:30AM - 10:00AM", 11)

	count, err := uc.Execute(context.Background(), BulkTransitionInput{
		DoctorID:       1,
		Date:           date,
		Target:         "rescheduled",
		RescheduleDate: target,
		Reason:         "mudança de agenda",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}

	repo.mu.Lock()
	var newDay int
	for _, ap := range repo.appointments {
		if domain.Status(ap.Status) == domain.StatusBooked {
			newDay++
		}
	}
	origA := repo.appointments[a.ID]
	origB := repo.appointments[b.ID]
	repo.mu.Unlock()

	if domain.Status(origA.Status) != domain.StatusRescheduled ||
		domain.Status(origB.Status) != domain.StatusRescheduled {
		t.Errorf("originais: %q / %q", origA.Status, origB.Status)
	}
	if newDay != 2 {
		t.Errorf("linhas novas no dia de destino = %d", newDay)
	}

	// remarcação notifica paciente a paciente, não em lote
	if sent := ntf.byType(notify.EventAppointmentRescheduled); len(sent) != 2 {
		t.Errorf("notificações de remarcação = %d", len(sent))
	}
}

func TestBulkCancelUsesWorkplaceTimezone(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newBulk(repo)

	// consulta às 09:00 de Tóquio: no fuso padrão ainda é o dia anterior,
	// então o recorte precisa ancorar o dia no fuso do consultório
	loc := timezone.Location("Asia/Tokyo")
	day := time.Date(2027, 6, 15, 0, 0, 0, 0, loc)
	id := seedAppointment(repo, 3, 10, day, 9, 0, domain.StatusBooked)

	count, err := uc.Execute(context.Background(), BulkTransitionInput{
		DoctorID:    1,
		WorkplaceID: uintPtr(3),
		Date:        "2027-06-15",
		Target:      "cancelled",
		Reason:      "agenda fechada",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, esperava 1", count)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if st := repo.appointments[id].Status; domain.Status(st) != domain.StatusCancelled {
		t.Errorf("status = %q", st)
	}
}

func TestBulkValidation(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newBulk(repo)
	date := futureDate(t, 2)

	t.Run("alvo desconhecido", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), BulkTransitionInput{
			DoctorID: 1, Date: date, Target: "booked",
		})
		if !httperr.IsBusiness(err, "invalid_target_status") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("remarcacao sem data de destino", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), BulkTransitionInput{
			DoctorID: 1, Date: date, Target: "rescheduled",
		})
		if !httperr.IsBusiness(err, "invalid_date") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("dia vazio nao falha", func(t *testing.T) {
		count, err := uc.Execute(context.Background(), BulkTransitionInput{
			DoctorID: 1, Date: date, Target: "cancelled",
		})
		if err != nil || count != 0 {
			t.Fatalf("count = %d, err = %v", count, err)
		}
	})
}
