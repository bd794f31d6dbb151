package models

import "time"

// Dependente vinculado ao paciente titular. Um agendamento aponta
// para o titular OU para um dependente, nunca para os dois.
type FamilyMember struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Relation string `gorm:"size:30" json:"relation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
