package models

import "time"

// Indisponibilidade declarada pelo médico. Nunca é apagada:
// is_active = false é o soft delete e o bloqueio deixa de valer.
type BlockedSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"index" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// nil → vale para todos os consultórios do médico
	WorkplaceID *uint `json:"workplace_id"`

	BlockDate time.Time `gorm:"index" json:"block_date"`

	// HH:mm (24h); obrigatórios quando não é dia inteiro
	StartTime *string `gorm:"size:5" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`

	// true força StartTime/EndTime nulos
	IsFullDay bool `json:"is_full_day"`

	Reason   string `gorm:"size:255" json:"reason"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
