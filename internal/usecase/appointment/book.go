package appointment

import (
	"context"
	"fmt"
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

type BookAppointmentInput struct {
	DoctorID    uint
	WorkplaceID uint

	// PatientID > 0 usa o cadastro existente; senão get-or-create
	// pelos dados de contato
	PatientID    uint
	PatientName  string
	PatientPhone string
	PatientEmail string

	// nil → o titular comparece
	FamilyMemberID *uint

	Date string // YYYY-MM-DD

	// Slot explícito ("9:00AM - 9:30AM") → política estrita.
	// Vazio → encaixe livre: PreferredTime ("HH:mm") se couber,
	// senão fim da fila do dia.
	Slot          string
	PreferredTime string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// BookAppointment é o único caminho de escrita de consulta nova.
// Toda marcação passa pelo lock do dia do médico: slot explícito já
// ocupado é Conflict, nunca empurrado em silêncio para outro horário.
type BookAppointment struct {
	repo   domain.Repository
	audit  audit.Recorder
	notify notify.Notifier
}

func NewBookAppointment(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *BookAppointment {
	return &BookAppointment{
		repo:   repo,
		audit:  rec,
		notify: ntf,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Médico + consultório
	// --------------------------------------------------
	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	wp, err := uc.repo.GetWorkplace(ctx, in.DoctorID, in.WorkplaceID)
	if err != nil {
		return nil, httperr.ErrBusiness("workplace_not_found")
	}

	loc := timezone.Location(wp.Timezone)
	now := timezone.NowIn(wp.Timezone)

	// --------------------------------------------------
	// 2️⃣ Data no timezone do consultório
	// --------------------------------------------------
	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if dayStart.Before(todayStart) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	// --------------------------------------------------
	// 3️⃣ Paciente (e dependente, se houver)
	// --------------------------------------------------
	patient, err := uc.resolvePatient(ctx, in)
	if err != nil {
		return nil, err
	}

	if in.FamilyMemberID != nil {
		if _, err := uc.repo.GetFamilyMember(ctx, patient.ID, *in.FamilyMemberID); err != nil {
			return nil, httperr.ErrBusiness("family_member_not_found")
		}
	}

	duration := domain.SlotDuration(wp)

	// --------------------------------------------------
	// 4️⃣ Slot explícito valida contra a grade do dia
	// --------------------------------------------------
	var requested *domain.Slot
	if in.Slot != "" {
		slot, err := findGeneratedSlot(wp, in.Slot, dayStart, loc)
		if err != nil {
			return nil, err
		}
		if !slot.Start.After(now) {
			return nil, httperr.ErrBusiness("slot_in_past")
		}
		requested = &slot
	}

	var preferred time.Time
	if requested == nil && in.PreferredTime != "" {
		t, err := time.Parse("15:04", in.PreferredTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_time")
		}
		preferred = time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0, loc,
		)
		if !preferred.After(now) {
			return nil, httperr.ErrBusiness("invalid_time")
		}
	}

	// --------------------------------------------------
	// 5️⃣ Seção crítica: lock do dia do médico
	// --------------------------------------------------
	var created *models.Appointment

	err = uc.repo.WithDoctorDayLock(ctx, in.DoctorID, dayStart, dayEnd, func(day domain.DayLock) error {

		snapshot := day.Appointments()
		mine := domain.ForWorkplace(snapshot, in.WorkplaceID)

		var start time.Time
		var slotLabel string
		var queuePos int

		switch {
		case requested != nil:
			// política estrita: rótulo já ocupado → Conflict
			for _, ap := range mine {
				if domain.Status(ap.Status) != domain.StatusCancelled && ap.Slot == requested.Label() {
					return httperr.ErrBusiness("slot_taken")
				}
			}
			start = requested.Start
			slotLabel = requested.Label()
			_, lastQueue := domain.DayTail(mine, dayStart)
			queuePos = lastQueue + 1

		case !preferred.IsZero() && !domain.HasOverlap(snapshot, preferred, preferred.Add(duration)):
			// encaixe no horário pedido; a posição segue a ordem de
			// chegada, nunca o relógio — posição não se repete no dia
			start = preferred
			_, lastQueue := domain.DayTail(mine, dayStart)
			queuePos = lastQueue + 1

		default:
			// fim da fila do dia; dia vazio começa na primeira sessão
			lastEnd, _ := domain.DayTail(snapshot, dayStart)
			_, lastQueue := domain.DayTail(mine, dayStart)
			if lastEnd.Equal(dayStart) {
				lastEnd = firstSessionStart(wp, dayStart, loc)
			}
			start = lastEnd
			queuePos = lastQueue + 1
		}

		end := start.Add(duration)
		if end.After(dayEnd) {
			return httperr.ErrBusiness("day_full")
		}
		if slotLabel == "" {
			slotLabel = domain.Slot{Start: start, End: end}.Label()
		}

		ap := models.Appointment{
			DoctorID:       in.DoctorID,
			WorkplaceID:    in.WorkplaceID,
			PatientID:      patient.ID,
			FamilyMemberID: in.FamilyMemberID,

			AppointmentDate: dayStart,
			Slot:            slotLabel,
			AppointmentTime: start,
			DurationMin:     int(duration / time.Minute),
			QueuePosition:   queuePos,

			Status: string(domain.InitialStatus()),
			Notes:  in.Notes,

			// snapshot de exibição — nunca refeito por join depois
			DoctorName:           doctor.Name,
			DoctorSpecialization: doctor.Specialization,
			WorkplaceName:        wp.Name,
			WorkplaceType:        wp.Type,
			WorkplaceAddress:     wp.Address,
		}

		if err := day.Create(&ap); err != nil {
			return err
		}

		created = &ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria + aviso ao paciente
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	uc.notify.Dispatch(notify.Notification{
		EventType:  notify.EventAppointmentBooked,
		PatientIDs: []uint{patient.ID},
		Title:      "Consulta confirmada",
		Body: fmt.Sprintf(
			"Dr(a). %s, %s, %s",
			doctor.Name, created.AppointmentDate.Format("02/01/2006"), created.Slot,
		),
	})

	return created, nil
}

func (uc *BookAppointment) resolvePatient(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Patient, error) {

	if in.PatientID > 0 {
		p, err := uc.repo.GetPatientByID(ctx, in.PatientID)
		if err != nil {
			return nil, httperr.ErrBusiness("patient_not_found")
		}
		return p, nil
	}

	if in.PatientPhone == "" {
		return nil, httperr.ErrBusiness("patient_required")
	}

	return uc.repo.GetOrCreatePatient(ctx, in.PatientName, in.PatientPhone, in.PatientEmail)
}

// firstSessionStart devolve o início da grade do dia; sem sessão
// configurada o dia começa na meia-noite mesmo
func firstSessionStart(
	wp *models.Workplace,
	dayStart time.Time,
	loc *time.Location,
) time.Time {

	slots := domain.GenerateSlots(wp, dayStart, loc)
	if len(slots) == 0 {
		return dayStart
	}
	return slots[0].Start
}

// findGeneratedSlot aceita só rótulos que existem na grade do dia
func findGeneratedSlot(
	wp *models.Workplace,
	label string,
	dayStart time.Time,
	loc *time.Location,
) (domain.Slot, error) {

	if _, err := domain.ParseSlotLabel(label, dayStart, loc); err != nil {
		return domain.Slot{}, err
	}

	for _, s := range domain.GenerateSlots(wp, dayStart, loc) {
		if s.Label() == label {
			return s, nil
		}
	}

	return domain.Slot{}, httperr.ErrBusiness("invalid_slot")
}
