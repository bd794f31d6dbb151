package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked      Status = "booked"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

// ===============================
// Validations
// ===============================

// CanCancel define se uma consulta pode ser cancelada
func CanCancel(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se uma consulta pode ser concluída
func CanComplete(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule define se uma consulta pode ser remarcada.
// "rescheduled" é terminal: a linha original nunca volta a ser booked.
func CanReschedule(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanPushToEnd define se uma consulta pode ir para o fim da fila
func CanPushToEnd(current Status) error {
	if current != StatusBooked {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
