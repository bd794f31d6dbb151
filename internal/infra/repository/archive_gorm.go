package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ArchiveGormRepository struct {
	db *gorm.DB
}

func NewArchiveGormRepository(db *gorm.DB) *ArchiveGormRepository {
	return &ArchiveGormRepository{db: db}
}

// CompletePastPending marca como concluída toda consulta
// booked/rescheduled cuja data já passou inteira. Idempotente:
// a segunda rodada não encontra mais nada nesses status.
func (r *ArchiveGormRepository) CompletePastPending(
	ctx context.Context,
	todayStart time.Time,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"appointment_date < ? AND status IN ?",
			todayStart,
			[]string{string(domain.StatusBooked), string(domain.StatusRescheduled)},
		).
		Updates(map[string]any{
			"status":       string(domain.StatusCompleted),
			"completed_at": now,
			"updated_at":   now,
		})

	return res.RowsAffected, res.Error
}

func (r *ArchiveGormRepository) ListPastDue(
	ctx context.Context,
	todayStart time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	q := r.db.WithContext(ctx).
		Where("appointment_date < ?", todayStart).
		Order("appointment_date ASC, id ASC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// MoveToArchive copia a linha para a tabela fria e apaga da viva na
// mesma transação. Rodar de novo sobre a mesma consulta é inócuo:
// a linha viva já não existe.
func (r *ArchiveGormRepository) MoveToArchive(
	ctx context.Context,
	ap *models.Appointment,
	archivedAt time.Time,
) (*models.ArchivedAppointment, error) {

	archived := models.ArchivedAppointment{
		AppointmentID:  ap.ID,
		DoctorID:       ap.DoctorID,
		WorkplaceID:    ap.WorkplaceID,
		PatientID:      ap.PatientID,
		FamilyMemberID: ap.FamilyMemberID,

		AppointmentDate: ap.AppointmentDate,
		Slot:            ap.Slot,
		AppointmentTime: ap.AppointmentTime,
		DurationMin:     ap.DurationMin,
		QueuePosition:   ap.QueuePosition,

		Status: ap.Status,
		Notes:  ap.Notes,

		DoctorName:           ap.DoctorName,
		DoctorSpecialization: ap.DoctorSpecialization,
		WorkplaceName:        ap.WorkplaceName,
		WorkplaceType:        ap.WorkplaceType,
		WorkplaceAddress:     ap.WorkplaceAddress,

		CancelledAt: ap.CancelledAt,
		CompletedAt: ap.CompletedAt,

		BookedAt:   ap.CreatedAt,
		ArchivedAt: archivedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			// cópia já existe de uma rodada que caiu entre o insert
			// e o delete: só falta remover a linha viva
			if isUniqueViolation(err) {
				return tx.Delete(&models.Appointment{}, ap.ID).Error
			}
			return err
		}
		return tx.Delete(&models.Appointment{}, ap.ID).Error
	})

	if err != nil {
		return nil, err
	}
	return &archived, nil
}

// Compile-time check
var _ domain.ArchiveRepository = (*ArchiveGormRepository)(nil)
