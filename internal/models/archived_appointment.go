package models

import "time"

// Cópia fiel do Appointment movida para a tabela fria quando a data
// já passou. Só o arquivador escreve aqui.
type ArchivedAppointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"uniqueIndex" json:"appointment_id"`

	DoctorID       uint  `json:"doctor_id"`
	WorkplaceID    uint  `json:"workplace_id"`
	PatientID      uint  `json:"patient_id"`
	FamilyMemberID *uint `json:"family_member_id"`

	AppointmentDate time.Time `gorm:"index" json:"appointment_date"`
	Slot            string    `gorm:"size:30" json:"slot"`
	AppointmentTime time.Time `json:"appointment_time"`
	DurationMin     int       `json:"duration_min"`
	QueuePosition   int       `json:"queue_position"`

	Status string `gorm:"size:20" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	DoctorName           string `gorm:"size:100" json:"doctor_name"`
	DoctorSpecialization string `gorm:"size:100" json:"doctor_specialization"`
	WorkplaceName        string `gorm:"size:100" json:"workplace_name"`
	WorkplaceType        string `gorm:"size:30" json:"workplace_type"`
	WorkplaceAddress     string `gorm:"size:255" json:"workplace_address"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	BookedAt   time.Time `json:"booked_at"`
	ArchivedAt time.Time `json:"archived_at"`
}
