package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AvailabilityInput struct {
	DoctorID    uint
	WorkplaceID uint
	Date        time.Time
}

// DayAvailability é o resultado pronto para renderização: slots
// restantes mais as anotações de bloqueio do dia
type DayAvailability struct {
	Date           string   `json:"date"`
	Slots          []string `json:"slots"`
	FullDayBlocked bool     `json:"full_day_blocked"`
	BlockReason    string   `json:"block_reason,omitempty"`
	BlockedWindows []string `json:"blocked_windows,omitempty"`
}

// ===============================
// Composição pura
// ===============================

// SubtractBooked remove os rótulos já consumidos por consultas vivas
func SubtractBooked(slots []Slot, bookedLabels []string) []Slot {
	if len(bookedLabels) == 0 {
		return slots
	}

	taken := make(map[string]bool, len(bookedLabels))
	for _, l := range bookedLabels {
		taken[l] = true
	}

	out := slots[:0]
	for _, s := range slots {
		if !taken[s.Label()] {
			out = append(out, s)
		}
	}
	return out
}

// ApplyBlocks aplica os bloqueios ativos do dia. Dia inteiro zera a
// lista e registra o motivo; bloqueio parcial remove o slot a não ser
// que ele termine antes do início ou comece depois do fim da janela.
func ApplyBlocks(slots []Slot, blocks []models.BlockedSlot, date time.Time, loc *time.Location, out *DayAvailability) []Slot {
	for _, b := range blocks {
		if b.IsFullDay {
			out.FullDayBlocked = true
			out.BlockReason = b.Reason
			return nil
		}

		if b.StartTime == nil || b.EndTime == nil {
			continue
		}

		blockStart, okStart := anchorHM(*b.StartTime, date, loc)
		blockEnd, okEnd := anchorHM(*b.EndTime, date, loc)
		if !okStart || !okEnd {
			continue
		}

		kept := slots[:0]
		removed := false
		for _, s := range slots {
			if !s.End.After(blockStart) || !s.Start.Before(blockEnd) {
				kept = append(kept, s)
				continue
			}
			removed = true
		}
		slots = kept

		if removed {
			out.BlockedWindows = append(out.BlockedWindows, fmt.Sprintf(
				"%s - %s", blockStart.Format(clockLayout), blockEnd.Format(clockLayout),
			))
		}
	}
	return slots
}

// DropStarted corta slots cujo início já passou (usado quando a data
// consultada é hoje)
func DropStarted(slots []Slot, now time.Time) []Slot {
	out := slots[:0]
	for _, s := range slots {
		if s.Start.After(now) {
			out = append(out, s)
		}
	}
	return out
}

func Labels(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Label())
	}
	return out
}
