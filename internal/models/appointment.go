package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"index:idx_appointments_doctor_day" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	WorkplaceID uint      `json:"workplace_id"`
	Workplace   Workplace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	// nil → quem comparece é o próprio titular
	FamilyMemberID *uint         `json:"family_member_id"`
	FamilyMember   *FamilyMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"family_member,omitempty"`

	// Meia-noite local do dia da consulta
	AppointmentDate time.Time `gorm:"index:idx_appointments_doctor_day" json:"appointment_date"`

	// Rótulo do slot ("9:00AM - 9:30AM") — identidade do horário
	Slot string `gorm:"size:30" json:"slot"`

	// Instante absoluto de início, derivado de data + início do slot
	AppointmentTime time.Time `json:"appointment_time"`
	DurationMin     int       `json:"duration_min"`

	// Posição na fila do dia (por médico+consultório); buracos são
	// permitidos após cancelamentos
	QueuePosition int `json:"queue_position"`

	Status string `gorm:"size:20;default:'booked'" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	// Snapshot de exibição capturado na hora da marcação
	// (o histórico não muda se o perfil mudar depois)
	DoctorName           string `gorm:"size:100" json:"doctor_name"`
	DoctorSpecialization string `gorm:"size:100" json:"doctor_specialization"`
	WorkplaceName        string `gorm:"size:100" json:"workplace_name"`
	WorkplaceType        string `gorm:"size:30" json:"workplace_type"`
	WorkplaceAddress     string `gorm:"size:255" json:"workplace_address"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
