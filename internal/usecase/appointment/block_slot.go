package appointment

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBlockedSlotInput struct {
	DoctorID    uint
	WorkplaceID *uint // nil → todos os consultórios

	Date      string // YYYY-MM-DD
	StartTime string // HH:mm, vazio quando dia inteiro
	EndTime   string
	IsFullDay bool
	Reason    string

	CancelExisting bool
}

type CreateBlockedSlotOutput struct {
	Block          *models.BlockedSlot
	CancelledCount int
}

// ======================================================
// USE CASE
// ======================================================

// CreateBlockedSlot registra a indisponibilidade e, se pedido,
// cancela em cascata as consultas vivas dentro da janela. O aviso aos
// pacientes sai num único evento em lote e é melhor-esforço: falha de
// entrega nunca desfaz os cancelamentos.
type CreateBlockedSlot struct {
	repo   domain.Repository
	audit  audit.Recorder
	notify notify.Notifier
}

func NewCreateBlockedSlot(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *CreateBlockedSlot {
	return &CreateBlockedSlot{
		repo:   repo,
		audit:  rec,
		notify: ntf,
	}
}

func (uc *CreateBlockedSlot) Execute(
	ctx context.Context,
	in CreateBlockedSlotInput,
) (*CreateBlockedSlotOutput, error) {

	if _, err := uc.repo.GetDoctorByID(ctx, in.DoctorID); err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	loc := timezone.Location("")
	if in.WorkplaceID != nil {
		wp, err := uc.repo.GetWorkplace(ctx, in.DoctorID, *in.WorkplaceID)
		if err != nil {
			return nil, httperr.ErrBusiness("workplace_not_found")
		}
		loc = timezone.Location(wp.Timezone)
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	// --------------------------------------------------
	// 1️⃣ Janela do bloqueio
	// --------------------------------------------------
	var startHM, endHM *string
	var blockStart, blockEnd time.Time

	if !in.IsFullDay {
		if in.StartTime == "" || in.EndTime == "" {
			return nil, httperr.ErrBusiness("invalid_time_range")
		}

		s, errS := time.Parse("15:04", in.StartTime)
		e, errE := time.Parse("15:04", in.EndTime)
		if errS != nil || errE != nil || !e.After(s) {
			return nil, httperr.ErrBusiness("invalid_time_range")
		}

		startHM, endHM = &in.StartTime, &in.EndTime
		blockStart = time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), s.Hour(), s.Minute(), 0, 0, loc)
		blockEnd = time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), e.Hour(), e.Minute(), 0, 0, loc)
	}

	block := models.BlockedSlot{
		DoctorID:    in.DoctorID,
		WorkplaceID: in.WorkplaceID,
		BlockDate:   dayStart,
		StartTime:   startHM, // dia inteiro força nulos
		EndTime:     endHM,
		IsFullDay:   in.IsFullDay,
		Reason:      in.Reason,
		IsActive:    true,
	}

	if err := uc.repo.CreateBlockedSlot(ctx, &block); err != nil {
		return nil, err
	}

	out := &CreateBlockedSlotOutput{Block: &block}

	// --------------------------------------------------
	// 2️⃣ Cascata de cancelamentos
	// --------------------------------------------------
	if in.CancelExisting {
		cancelled, affected := uc.cascade(ctx, in, dayStart, dayEnd, blockStart, blockEnd, loc)
		out.CancelledCount = cancelled

		// UM evento em lote por rodada, não um por paciente
		if len(affected) > 0 {
			uc.notify.Dispatch(notify.Notification{
				EventType:  notify.EventSlotBlocked,
				PatientIDs: affected,
				Title:      "Consulta cancelada pelo médico",
				Body:       "Agenda de " + in.Date + " indisponível: " + in.Reason,
			})
		}
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		ActorID:  &in.DoctorID,
		Action:   "blocked_slot_created",
		Entity:   "blocked_slot",
		EntityID: &block.ID,
		Metadata: map[string]any{"cancelled": out.CancelledCount},
	})

	return out, nil
}

func (uc *CreateBlockedSlot) cascade(
	ctx context.Context,
	in CreateBlockedSlotInput,
	dayStart, dayEnd time.Time,
	blockStart, blockEnd time.Time,
	loc *time.Location,
) (int, []uint) {

	candidates, err := uc.repo.ListAppointmentsForDay(ctx, in.DoctorID, in.WorkplaceID, dayStart, dayEnd)
	if err != nil {
		log.Printf("blocked slot cascade: falha ao listar consultas: %v", err)
		return 0, nil
	}

	now := timezone.Now()
	cancelled := 0
	var affected []uint

	for i := range candidates {
		ap := candidates[i]

		switch domain.Status(ap.Status) {
		case domain.StatusCancelled, domain.StatusCompleted:
			continue
		}

		if !in.IsFullDay && !uc.startsInWindow(&ap, dayStart, blockStart, blockEnd, loc) {
			continue
		}

		ap.Status = string(domain.StatusCancelled)
		ap.CancelledAt = &now
		ap.Notes = domain.AppendNote(ap.Notes, "cancelada por bloqueio de agenda: "+in.Reason)

		if err := uc.repo.UpdateAppointment(ctx, &ap); err != nil {
			log.Printf("blocked slot cascade: falha ao cancelar consulta %d: %v", ap.ID, err)
			continue
		}

		cancelled++
		affected = append(affected, ap.PatientID)
	}

	return cancelled, distinctPatients(affected)
}

// startsInWindow decide pelo início do slot (parse do rótulo);
// rótulo ilegível fica de fora em vez de derrubar a cascata
func (uc *CreateBlockedSlot) startsInWindow(
	ap *models.Appointment,
	dayStart time.Time,
	blockStart, blockEnd time.Time,
	loc *time.Location,
) bool {

	slot, err := domain.ParseSlotLabel(ap.Slot, dayStart, loc)
	if err != nil {
		return false
	}
	return !slot.Start.Before(blockStart) && slot.Start.Before(blockEnd)
}

// ======================================================
// DEACTIVATE (soft delete)
// ======================================================

type DeactivateBlockedSlot struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewDeactivateBlockedSlot(repo domain.Repository, rec audit.Recorder) *DeactivateBlockedSlot {
	return &DeactivateBlockedSlot{repo: repo, audit: rec}
}

func (uc *DeactivateBlockedSlot) Execute(
	ctx context.Context,
	doctorID uint,
	blockID uint,
) (*models.BlockedSlot, error) {

	block, err := uc.repo.GetBlockedSlot(ctx, doctorID, blockID)
	if err != nil {
		return nil, httperr.ErrBusiness("blocked_slot_not_found")
	}

	// nunca hard delete: só desativa e o bloqueio deixa de valer
	block.IsActive = false
	if err := uc.repo.UpdateBlockedSlot(ctx, block); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: doctorID,
		ActorID:  &doctorID,
		Action:   "blocked_slot_deactivated",
		Entity:   "blocked_slot",
		EntityID: &block.ID,
	})

	return block, nil
}
