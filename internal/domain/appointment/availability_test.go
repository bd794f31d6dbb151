package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func morningGrid(t *testing.T) ([]Slot, time.Time, *time.Location) {
	t.Helper()
	day, loc := testDay(t)
	wp := &models.Workplace{
		MorningStart: "09:00",
		MorningEnd:   "12:00",
	}
	return GenerateSlots(wp, day, loc), day, loc
}

func TestSubtractBooked(t *testing.T) {
	slots, _, _ := morningGrid(t)

	out := SubtractBooked(slots, []string{"9:00AM - 9:30AM", "10:30AM - 11:00AM"})
	if len(out) != 4 {
		t.Fatalf("got %d slots, want 4", len(out))
	}
	for _, s := range out {
		if s.Label() == "9:00AM - 9:30AM" || s.Label() == "10:30AM - 11:00AM" {
			t.Errorf("booked slot %q survived", s.Label())
		}
	}

	// rótulo desconhecido não tira nada
	out = SubtractBooked(out, []string{"8:00PM - 8:30PM"})
	if len(out) != 4 {
		t.Fatalf("got %d slots after unknown label", len(out))
	}
}

func TestApplyBlocks(t *testing.T) {
	hm := func(s string) *string { return &s }

	t.Run("full day wipes the grid", func(t *testing.T) {
		slots, day, loc := morningGrid(t)
		out := DayAvailability{}

		got := ApplyBlocks(slots, []models.BlockedSlot{
			{IsFullDay: true, Reason: "congresso"},
		}, day, loc, &out)

		if len(got) != 0 {
			t.Fatalf("got %d slots", len(got))
		}
		if !out.FullDayBlocked || out.BlockReason != "congresso" {
			t.Errorf("block annotation missing: %+v", out)
		}
	})

	t.Run("partial window removes overlapping slots only", func(t *testing.T) {
		slots, day, loc := morningGrid(t)
		out := DayAvailability{}

		// 9:45–10:15 cruza os slots 9:30–10:00 e 10:00–10:30
		got := ApplyBlocks(slots, []models.BlockedSlot{
			{StartTime: hm("09:45"), EndTime: hm("10:15")},
		}, day, loc, &out)

		if len(got) != 4 {
			t.Fatalf("got %d slots, want 4", len(got))
		}
		for _, s := range got {
			if s.Label() == "9:30AM - 10:00AM" || s.Label() == "10:00AM - 10:30AM" {
				t.Errorf("blocked slot %q survived", s.Label())
			}
		}
		if len(out.BlockedWindows) != 1 || out.BlockedWindows[0] != "9:45AM - 10:15AM" {
			t.Errorf("blocked windows: %v", out.BlockedWindows)
		}
	})

	t.Run("window touching slot edges removes nothing", func(t *testing.T) {
		slots, day, loc := morningGrid(t)
		out := DayAvailability{}

		// exatamente entre dois slots: nenhum cruza
		got := ApplyBlocks(slots, []models.BlockedSlot{
			{StartTime: hm("10:00"), EndTime: hm("10:00")},
		}, day, loc, &out)

		if len(got) != len(slots) {
			t.Fatalf("got %d slots, want %d", len(got), len(slots))
		}
		if len(out.BlockedWindows) != 0 {
			t.Errorf("unexpected blocked windows: %v", out.BlockedWindows)
		}
	})
}

func TestDropStarted(t *testing.T) {
	slots, day, loc := morningGrid(t)

	now := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, loc)
	got := DropStarted(slots, now)

	// sobram 10:30, 11:00 e 11:30 (o de 10:00 já começou)
	if len(got) != 3 {
		t.Fatalf("got %d slots, want 3", len(got))
	}
	if got[0].Label() != "10:30AM - 11:00AM" {
		t.Errorf("first remaining slot: %q", got[0].Label())
	}
}
