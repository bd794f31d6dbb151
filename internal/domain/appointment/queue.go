package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Fila do dia
// ===============================
//
// Tudo aqui é função pura sobre o snapshot travado do dia do médico.
// Nenhum contador fica em memória: quem segura o lock recalcula.

// DayTail devolve o fim da última consulta e a maior posição de fila
// do snapshot. lastEnd considera só consultas vivas (canceladas
// liberam o horário); lastQueue considera todas as linhas para nunca
// reaproveitar posição.
func DayTail(apps []models.Appointment, dayStart time.Time) (lastEnd time.Time, lastQueue int) {
	lastEnd = dayStart

	for _, ap := range apps {
		if ap.QueuePosition > lastQueue {
			lastQueue = ap.QueuePosition
		}
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		end := ap.AppointmentTime.Add(time.Duration(ap.DurationMin) * time.Minute)
		if end.After(lastEnd) {
			lastEnd = end
		}
	}

	return lastEnd, lastQueue
}

// HasOverlap diz se [start, end) cruza alguma consulta viva do snapshot
func HasOverlap(apps []models.Appointment, start, end time.Time) bool {
	for _, ap := range apps {
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		apEnd := ap.AppointmentTime.Add(time.Duration(ap.DurationMin) * time.Minute)
		if start.Before(apEnd) && end.After(ap.AppointmentTime) {
			return true
		}
	}
	return false
}

// ForWorkplace filtra o snapshot para um consultório (a fila é por
// médico+consultório, mas o lock é por médico+dia)
func ForWorkplace(apps []models.Appointment, workplaceID uint) []models.Appointment {
	out := make([]models.Appointment, 0, len(apps))
	for _, ap := range apps {
		if ap.WorkplaceID == workplaceID {
			out = append(out, ap)
		}
	}
	return out
}
