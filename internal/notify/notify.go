package notify

import "context"

// Tipos de evento enviados ao paciente
const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventSlotBlocked            = "SLOT_BLOCKED"
)

// Notification é um evento em lote: uma cascata de cancelamentos
// gera UM evento com todos os pacientes atingidos, não um por linha.
type Notification struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	PatientIDs []uint `json:"patient_ids"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// Sink é o colaborador externo de entrega (push/SMS/WhatsApp).
// O core só conhece esta interface.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// Notifier é o que os use cases enxergam; o Dispatcher implementa.
// Entrega é melhor-esforço: nunca desfaz a operação de negócio.
type Notifier interface {
	Dispatch(n Notification)
}
