package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/coldstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/redisclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	jobs := redisclient.NewRedisJobRunner(rdb, cfg.ArchiveLockTTL)

	var exporter coldstore.Exporter = coldstore.Disabled{}
	if cfg.ColdStoreEnabled() {
		exporter = coldstore.NewS3Exporter(cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		log.Printf("cold storage enabled (bucket %s)", cfg.S3Bucket)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, jobs, exporter)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
