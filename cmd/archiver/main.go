package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/coldstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/redisclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Worker da virada de dia: roda uma vez na subida (recupera dias em
// que o processo ficou fora do ar) e depois a cada meia-noite local.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("archiver starting up")

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	jobs := redisclient.NewRedisJobRunner(rdb, cfg.ArchiveLockTTL)

	var exporter coldstore.Exporter = coldstore.Disabled{}
	if cfg.ColdStoreEnabled() {
		exporter = coldstore.NewS3Exporter(cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		log.Printf("cold storage enabled (bucket %s)", cfg.S3Bucket)
	}

	archiveRepo := infraRepo.NewArchiveGormRepository(db)
	uc := ucAppointment.NewArchiveDayBoundary(archiveRepo, jobs, exporter)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Recupera o atraso acumulado antes de esperar a próxima virada
	runOnce(rootCtx, uc)

	for {
		wait := untilNextMidnight()
		log.Printf("next archival run in %s", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-rootCtx.Done():
			timer.Stop()
			log.Println("shutdown signal received, stopping archiver")
			return
		case <-timer.C:
			runOnce(rootCtx, uc)
		}
	}
}

func runOnce(ctx context.Context, uc *ucAppointment.ArchiveDayBoundary) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	start := time.Now()
	out, err := uc.Execute(runCtx)
	if err != nil {
		if httperr.IsBusiness(err, "already_running") {
			log.Println("archival already running elsewhere, skipping")
			return
		}
		log.Printf("archival run error: %v", err)
		return
	}

	log.Printf(
		"archival run complete in %s (%d completed, %d moved)",
		time.Since(start), out.Completed, out.Moved,
	)
}

// untilNextMidnight calcula a espera até a próxima meia-noite no fuso
// padrão do sistema de agendas
func untilNextMidnight() time.Duration {
	now := timezone.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	return next.Sub(now)
}
