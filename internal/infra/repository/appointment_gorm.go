package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Perfis
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *AppointmentGormRepository) GetWorkplace(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
) (*models.Workplace, error) {

	var wp models.Workplace
	if err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", workplaceID, doctorID).
		First(&wp).Error; err != nil {
		return nil, err
	}
	return &wp, nil
}

func (r *AppointmentGormRepository) GetPatientByID(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetOrCreatePatient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Patient, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&p).Error

	if err == nil {
		return &p, nil
	}

	p = models.Patient{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *AppointmentGormRepository) GetFamilyMember(
	ctx context.Context,
	patientID uint,
	familyMemberID uint,
) (*models.FamilyMember, error) {

	var fm models.FamilyMember
	if err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ?", familyMemberID, patientID).
		First(&fm).Error; err != nil {
		return nil, err
	}
	return &fm, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookedSlotLabels(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]string, error) {

	var labels []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND workplace_id = ? AND status <> ? AND appointment_time >= ? AND appointment_time < ?",
			doctorID, workplaceID, string(domain.StatusCancelled), dayStart, dayEnd,
		).
		Order("appointment_time ASC").
		Pluck("slot", &labels).Error; err != nil {
		return nil, err
	}

	return labels, nil
}

func (r *AppointmentGormRepository) ListActiveBlocks(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.BlockedSlot, error) {

	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND is_active = true AND block_date >= ? AND block_date < ? AND (workplace_id IS NULL OR workplace_id = ?)",
			doctorID, dayStart, dayEnd, workplaceID,
		).
		Order("id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	doctorID uint,
	workplaceID *uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("FamilyMember").
		Where(
			"doctor_id = ? AND appointment_time >= ? AND appointment_time < ?",
			doctorID, dayStart, dayEnd,
		)

	if workplaceID != nil {
		q = q.Where("workplace_id = ?", *workplaceID)
	}

	var apps []models.Appointment
	if err := q.Order("appointment_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	doctorID uint,
	workplaceID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("FamilyMember").
		Where(
			"doctor_id = ? AND workplace_id = ? AND appointment_time >= ? AND appointment_time < ?",
			doctorID, workplaceID, start, end,
		).
		Order("appointment_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateBlockedSlot(
	ctx context.Context,
	bs *models.BlockedSlot,
) error {
	return r.db.WithContext(ctx).Create(bs).Error
}

func (r *AppointmentGormRepository) GetBlockedSlot(
	ctx context.Context,
	doctorID uint,
	id uint,
) (*models.BlockedSlot, error) {

	var bs models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&bs).Error; err != nil {
		return nil, err
	}
	return &bs, nil
}

func (r *AppointmentGormRepository) ListBlockedSlotsForDoctor(
	ctx context.Context,
	doctorID uint,
) ([]models.BlockedSlot, error) {

	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("block_date DESC, id DESC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AppointmentGormRepository) UpdateBlockedSlot(
	ctx context.Context,
	bs *models.BlockedSlot,
) error {
	return r.db.WithContext(ctx).Save(bs).Error
}

// --------------------------------------------------
// Doctor-day lock
// --------------------------------------------------

type gormDayLock struct {
	tx     *gorm.DB
	locked []models.Appointment
}

func (d *gormDayLock) Appointments() []models.Appointment {
	return d.locked
}

func (d *gormDayLock) Create(ap *models.Appointment) error {
	return d.tx.Create(ap).Error
}

func (d *gormDayLock) Update(ap *models.Appointment) error {
	return d.tx.Save(ap).Error
}

// WithDoctorDayLock trava TODAS as consultas do médico no dia
// (FOR UPDATE) e executa fn na mesma transação. O lock é por
// médico+dia, não por consultório: marcações simultâneas em dois
// consultórios do mesmo médico serializam entre si.
func (r *AppointmentGormRepository) WithDoctorDayLock(
	ctx context.Context,
	doctorID uint,
	dayStart time.Time,
	dayEnd time.Time,
	fn func(day domain.DayLock) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var locked []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"doctor_id = ? AND appointment_time >= ? AND appointment_time < ?",
				doctorID, dayStart, dayEnd,
			).
			Order("appointment_time ASC").
			Find(&locked).Error; err != nil {
			return err
		}

		return fn(&gormDayLock{tx: tx, locked: locked})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
