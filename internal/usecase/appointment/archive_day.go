package appointment

import (
	"context"
	"errors"
	"log"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/coldstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/redisclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const archiveJobName = "day-boundary-archival"

// tamanho do lote; a rodada repete lotes até esvaziar o passado
const archiveBatchSize = 500

type ArchiveDayOutput struct {
	Completed int64
	Moved     int
}

// ======================================================
// USE CASE
// ======================================================

// ArchiveDayBoundary fecha o dia anterior: conclui o que ficou
// pendente e move as linhas antigas para a tabela fria. Idempotente
// por construção, então rodar de novo no mesmo dia é inofensivo.
type ArchiveDayBoundary struct {
	repo     domain.ArchiveRepository
	jobs     redisclient.JobRunner
	exporter coldstore.Exporter
}

func NewArchiveDayBoundary(
	repo domain.ArchiveRepository,
	jobs redisclient.JobRunner,
	exporter coldstore.Exporter,
) *ArchiveDayBoundary {
	return &ArchiveDayBoundary{
		repo:     repo,
		jobs:     jobs,
		exporter: exporter,
	}
}

func (uc *ArchiveDayBoundary) Execute(ctx context.Context) (*ArchiveDayOutput, error) {
	out := &ArchiveDayOutput{}

	err := uc.jobs.WithJobLock(ctx, archiveJobName, func(ctx context.Context) error {
		return uc.run(ctx, out)
	})
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		// scheduler e disparo manual concorrendo: só um vence
		return nil, httperr.ErrBusiness("already_running")
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (uc *ArchiveDayBoundary) run(ctx context.Context, out *ArchiveDayOutput) error {
	now := timezone.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// --------------------------------------------------
	// 1️⃣ Conclui o que ficou pendente de dias passados
	// --------------------------------------------------
	completed, err := uc.repo.CompletePastPending(ctx, todayStart, now)
	if err != nil {
		return err
	}
	out.Completed = completed

	// --------------------------------------------------
	// 2️⃣ Move em lotes até esvaziar o passado
	// --------------------------------------------------
	var archived []models.ArchivedAppointment
	for {
		pastDue, err := uc.repo.ListPastDue(ctx, todayStart, archiveBatchSize)
		if err != nil {
			return err
		}
		if len(pastDue) == 0 {
			break
		}

		movedBatch := 0
		for i := range pastDue {
			row, err := uc.repo.MoveToArchive(ctx, &pastDue[i], now)
			if err != nil {
				// linha problemática fica para a próxima rodada
				log.Printf("arquivador: falha ao mover consulta %d: %v", pastDue[i].ID, err)
				continue
			}
			movedBatch++
			archived = append(archived, *row)
		}
		out.Moved += movedBatch

		// lote inteiro travado: parar em vez de relistar as mesmas linhas
		if movedBatch == 0 {
			break
		}
		if len(pastDue) < archiveBatchSize {
			break
		}
	}

	// --------------------------------------------------
	// 3️⃣ Snapshot frio da rodada (melhor esforço)
	// --------------------------------------------------
	if len(archived) > 0 {
		if err := uc.exporter.Export(ctx, now, archived); err != nil {
			log.Printf("arquivador: falha ao exportar snapshot: %v", err)
		}
	}

	log.Printf("arquivador: %d concluídas, %d movidas", out.Completed, out.Moved)
	return nil
}
