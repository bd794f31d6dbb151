package notify

import (
	"context"
	"log"
)

// LogSink é o sink padrão quando nenhum provedor de push está
// configurado: só registra o evento.
type LogSink struct{}

func (LogSink) Send(_ context.Context, n Notification) error {
	log.Printf(
		"notify [%s] %s → %d paciente(s): %s",
		n.EventType, n.EventID, len(n.PatientIDs), n.Title,
	)
	return nil
}

var _ Sink = LogSink{}
