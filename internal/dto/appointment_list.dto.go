package dto

import "time"

type AppointmentListDTO struct {
	ID              uint      `json:"id"`
	Date            string    `json:"date"`
	Slot            string    `json:"slot"`
	AppointmentTime time.Time `json:"appointment_time"`
	DurationMin     int       `json:"duration_min"`
	QueuePosition   int       `json:"queue_position"`
	Status          string    `json:"status"`
	WorkplaceName   string    `json:"workplace_name"`
	PatientName     string    `json:"patient_name"`
	PatientPhone    string    `json:"patient_phone"`
	// preenchido quando quem comparece é um dependente
	FamilyMemberName string `json:"family_member_name,omitempty"`
	Notes            string `json:"notes,omitempty"`
}
