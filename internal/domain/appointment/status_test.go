package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	checks := []struct {
		name  string
		check func(Status) error
	}{
		{"cancel", CanCancel},
		{"complete", CanComplete},
		{"reschedule", CanReschedule},
		{"push to end", CanPushToEnd},
	}

	// só booked aceita qualquer transição; os outros três são terminais
	for _, c := range checks {
		if err := c.check(StatusBooked); err != nil {
			t.Errorf("%s from booked: unexpected error %v", c.name, err)
		}

		for _, from := range []Status{StatusCancelled, StatusCompleted, StatusRescheduled} {
			err := c.check(from)
			if err == nil {
				t.Errorf("%s from %s: expected error", c.name, from)
				continue
			}
			if !httperr.IsBusiness(err, "invalid_state") {
				t.Errorf("%s from %s: got %v, want invalid_state", c.name, from, err)
			}
		}
	}
}

func TestCancelSetsTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusBooked)}

	if err := Cancel(ap, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Errorf("status: got %s", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Errorf("cancelled_at not set")
	}

	// segunda tentativa é rejeitada
	if err := Cancel(ap, now); err == nil {
		t.Error("expected error on double cancel")
	}
}

func TestCompleteSetsTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusBooked)}

	if err := Complete(ap, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status: got %s", ap.Status)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Errorf("completed_at not set")
	}
}

func TestMarkRescheduledIsTerminal(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusBooked), Notes: "primeira"}

	if err := MarkRescheduled(ap, "remarcada para 2025-03-12"); err != nil {
		t.Fatalf("mark rescheduled: %v", err)
	}
	if ap.Status != string(StatusRescheduled) {
		t.Errorf("status: got %s", ap.Status)
	}
	if ap.Notes != "primeira | remarcada para 2025-03-12" {
		t.Errorf("notes: got %q", ap.Notes)
	}

	// a linha original nunca volta a ser remarcável
	if err := MarkRescheduled(ap, "de novo"); err == nil {
		t.Error("expected error on second reschedule")
	}
}

func TestAppendNote(t *testing.T) {
	cases := []struct {
		existing, note, want string
	}{
		{"", "", ""},
		{"a", "", "a"},
		{"", "b", "b"},
		{"a", "b", "a | b"},
	}
	for _, c := range cases {
		if got := AppendNote(c.existing, c.note); got != c.want {
			t.Errorf("AppendNote(%q, %q) = %q, want %q", c.existing, c.note, got, c.want)
		}
	}
}
