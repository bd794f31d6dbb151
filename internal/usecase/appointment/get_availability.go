package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// GetAvailability é só leitura e pode rodar com qualquer
// concorrência: quem decide conflito de verdade é a marcação,
// dentro do lock do dia.
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (domain.DayAvailability, error) {

	out := domain.DayAvailability{
		Date:  in.Date.Format("2006-01-02"),
		Slots: []string{},
	}

	wp, err := uc.repo.GetWorkplace(ctx, in.DoctorID, in.WorkplaceID)
	if err != nil {
		return out, httperr.ErrBusiness("workplace_not_found")
	}

	loc := timezone.Location(wp.Timezone)

	dayStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	// 1️⃣ Todos os slots do dia
	slots := domain.GenerateSlots(wp, dayStart, loc)
	if len(slots) == 0 {
		return out, nil
	}

	// 2️⃣ Menos os já consumidos por consultas vivas
	booked, err := uc.repo.ListBookedSlotLabels(ctx, in.DoctorID, in.WorkplaceID, dayStart, dayEnd)
	if err != nil {
		return out, err
	}
	slots = domain.SubtractBooked(slots, booked)

	// 3️⃣ Menos os bloqueios ativos (dia inteiro ou parcial)
	blocks, err := uc.repo.ListActiveBlocks(ctx, in.DoctorID, in.WorkplaceID, dayStart, dayEnd)
	if err != nil {
		return out, err
	}
	slots = domain.ApplyBlocks(slots, blocks, dayStart, loc, &out)

	// 4️⃣ Hoje? Corta o que já começou
	now := timezone.NowIn(wp.Timezone)
	if dayStart.Year() == now.Year() && dayStart.YearDay() == now.YearDay() {
		slots = domain.DropStarted(slots, now)
	}

	out.Slots = domain.Labels(slots)
	return out, nil
}
