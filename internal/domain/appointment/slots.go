package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const DefaultSlotMinutes = 30

// Layout de 12h usado nos rótulos ("9:00AM", "2:30PM")
const clockLayout = "3:04PM"

// Slot é um intervalo fixo dentro de uma sessão do consultório.
// O rótulo formatado é a identidade do horário no sistema inteiro:
// dois slots são o mesmo sse os rótulos batem para o mesmo
// médico+consultório+data.
type Slot struct {
	Start time.Time
	End   time.Time
}

func (s Slot) Label() string {
	return s.Start.Format(clockLayout) + " - " + s.End.Format(clockLayout)
}

// ===============================
// Geração
// ===============================

// SlotDuration resolve a granularidade configurada do consultório
func SlotDuration(w *models.Workplace) time.Duration {
	if w.SlotDurationMin <= 0 {
		return DefaultSlotMinutes * time.Minute
	}
	return time.Duration(w.SlotDurationMin) * time.Minute
}

// GenerateSlots varre as sessões configuradas (manhã e tarde, nessa
// ordem) avançando um cursor pela duração. O slot cujo fim coincide
// exatamente com o fim da sessão entra; o que estoura fica de fora.
func GenerateSlots(w *models.Workplace, date time.Time, loc *time.Location) []Slot {
	dur := SlotDuration(w)

	var slots []Slot
	slots = append(slots, sweepSession(w.MorningStart, w.MorningEnd, date, loc, dur)...)
	slots = append(slots, sweepSession(w.EveningStart, w.EveningEnd, date, loc, dur)...)
	return slots
}

func sweepSession(startHM, endHM string, date time.Time, loc *time.Location, dur time.Duration) []Slot {
	if startHM == "" || endHM == "" {
		return nil
	}

	sessionStart, okStart := anchorHM(startHM, date, loc)
	sessionEnd, okEnd := anchorHM(endHM, date, loc)
	if !okStart || !okEnd || !sessionEnd.After(sessionStart) {
		return nil
	}

	var slots []Slot
	for cur := sessionStart; cur.Add(dur).Before(sessionEnd) || cur.Add(dur).Equal(sessionEnd); cur = cur.Add(dur) {
		slots = append(slots, Slot{Start: cur, End: cur.Add(dur)})
	}
	return slots
}

// anchorHM ancora um "HH:mm" no dia informado
func anchorHM(hm string, date time.Time, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), true
}

// ===============================
// Parse do rótulo
// ===============================

// ParseSlotLabel recupera o intervalo absoluto de um rótulo
// "9:00AM - 9:30AM" ancorado na data informada
func ParseSlotLabel(label string, date time.Time, loc *time.Location) (Slot, error) {
	parts := strings.Split(label, " - ")
	if len(parts) != 2 {
		return Slot{}, httperr.ErrBusiness("invalid_slot")
	}

	start, err := time.Parse(clockLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_slot")
	}
	end, err := time.Parse(clockLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_slot")
	}

	anchor := func(t time.Time) time.Time {
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	s := Slot{Start: anchor(start), End: anchor(end)}
	if !s.End.After(s.Start) {
		return Slot{}, httperr.ErrBusiness("invalid_slot")
	}
	return s, nil
}
