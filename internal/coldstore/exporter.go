package coldstore

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Exporter grava um snapshot de cada rodada de arquivamento em
// armazenamento frio. Falha de exportação não desfaz o arquivamento.
type Exporter interface {
	Export(ctx context.Context, runDate time.Time, rows []models.ArchivedAppointment) error
}

// Disabled é usado quando não há bucket configurado
type Disabled struct{}

func (Disabled) Export(context.Context, time.Time, []models.ArchivedAppointment) error {
	return nil
}

var _ Exporter = Disabled{}
