package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// DayLock é a seção crítica do dia do médico: todas as linhas do
// intervalo ficam travadas (FOR UPDATE) até o commit. Create/Update
// rodam dentro da mesma transação.
type DayLock interface {
	Appointments() []models.Appointment
	Create(ap *models.Appointment) error
	Update(ap *models.Appointment) error
}

type Repository interface {
	// -------- Perfis --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	GetWorkplace(
		ctx context.Context,
		doctorID uint,
		workplaceID uint,
	) (*models.Workplace, error)

	GetPatientByID(
		ctx context.Context,
		id uint,
	) (*models.Patient, error)

	GetOrCreatePatient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Patient, error)

	GetFamilyMember(
		ctx context.Context,
		patientID uint,
		familyMemberID uint,
	) (*models.FamilyMember, error)

	// -------- Appointment (leitura / transição simples) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	ListBookedSlotLabels(
		ctx context.Context,
		doctorID uint,
		workplaceID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]string, error)

	ListActiveBlocks(
		ctx context.Context,
		doctorID uint,
		workplaceID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.BlockedSlot, error)

	// -------- Listagens --------
	// workplaceID nil → todos os consultórios do médico
	ListAppointmentsForDay(
		ctx context.Context,
		doctorID uint,
		workplaceID *uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		doctorID uint,
		workplaceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Blocked slots --------
	CreateBlockedSlot(
		ctx context.Context,
		bs *models.BlockedSlot,
	) error

	GetBlockedSlot(
		ctx context.Context,
		doctorID uint,
		id uint,
	) (*models.BlockedSlot, error)

	ListBlockedSlotsForDoctor(
		ctx context.Context,
		doctorID uint,
	) ([]models.BlockedSlot, error)

	UpdateBlockedSlot(
		ctx context.Context,
		bs *models.BlockedSlot,
	) error

	// -------- Doctor-day lock --------
	// Serializa marcação/remarcação/fim-de-fila do médico no dia:
	// lock pessimista sobre TODAS as linhas dele em [dayStart, dayEnd)
	WithDoctorDayLock(
		ctx context.Context,
		doctorID uint,
		dayStart time.Time,
		dayEnd time.Time,
		fn func(day DayLock) error,
	) error
}

// ArchiveRepository é a camada fria. O arquivador é o único escritor
// que move linhas entre as duas tabelas.
type ArchiveRepository interface {
	// Conclui consultas booked/rescheduled com data anterior a todayStart
	CompletePastPending(
		ctx context.Context,
		todayStart time.Time,
		now time.Time,
	) (int64, error)

	// Linhas vivas com data anterior a todayStart, qualquer status
	ListPastDue(
		ctx context.Context,
		todayStart time.Time,
		limit int,
	) ([]models.Appointment, error)

	// Copia para a tabela fria e remove da viva, na mesma transação
	MoveToArchive(
		ctx context.Context,
		ap *models.Appointment,
		archivedAt time.Time,
	) (*models.ArchivedAppointment, error)
}
