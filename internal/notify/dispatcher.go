package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type Dispatcher struct {
	sink  Sink
	queue chan Notification
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Notification, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.sink.Send(ctx, n); err != nil {
			log.Printf("notify error (%s, %d pacientes): %v", n.EventType, len(n.PatientIDs), err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(n Notification) {
	if len(n.PatientIDs) == 0 {
		return
	}
	if n.EventID == "" {
		n.EventID = uuid.NewString()
	}

	select {
	case d.queue <- n:
		// enviado
	default:
		// fila cheia → descartamos (entrega é melhor-esforço)
		log.Println("notify queue full, dropping event", n.EventType)
	}
}

var _ Notifier = (*Dispatcher)(nil)
