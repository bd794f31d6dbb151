package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Email          string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"size:255;not null" json:"-"`
	Phone          string `gorm:"size:20" json:"phone"`
	Specialization string `gorm:"size:100" json:"specialization"`
	LicenseNumber  string `gorm:"size:50" json:"license_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
