package models

import "time"

// Consultório / hospital onde o médico atende.
// Os horários das sessões (manhã/tarde) ficam embutidos aqui;
// qualquer um dos pares pode ficar vazio.
type Workplace struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Type     string `gorm:"size:30;default:'clinic'" json:"type"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// Sessões no formato HH:mm (24h)
	MorningStart string `gorm:"size:5" json:"morning_start"`
	MorningEnd   string `gorm:"size:5" json:"morning_end"`
	EveningStart string `gorm:"size:5" json:"evening_start"`
	EveningEnd   string `gorm:"size:5" json:"evening_end"`

	// 0 → usa o padrão de 30 minutos
	SlotDurationMin int `json:"slot_duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
