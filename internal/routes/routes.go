package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/coldstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/redisclient"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	jobs redisclient.JobRunner,
	exporter coldstore.Exporter,
) {

	// CORS é aplicado pelo main, antes do /health

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	archiveRepo := infraRepo.NewArchiveGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyDispatcher := notify.NewDispatcher(notify.LogSink{})

	// ======================================================
	// 🧠 USE CASES — ARQUIVADOR
	// ======================================================
	archiveUC := ucAppointment.NewArchiveDayBoundary(
		archiveRepo,
		jobs,
		exporter,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	workplaceHandler := handlers.NewWorkplaceHandler(db)
	patientHandler := handlers.NewPatientHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	blockedSlotHandler := handlers.NewBlockedSlotHandler(
		appointmentRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	archivalHandler := handlers.NewArchivalHandler(archiveUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, auditDispatcher, notifyDispatcher)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (PACIENTE)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors", publicHandler.ListDoctors)
			publicAPI.GET("/doctors/:id/workplaces", publicHandler.ListWorkplaces)
			publicAPI.GET("/doctors/:id/availability", publicHandler.Availability)
			publicAPI.POST("/doctors/:id/appointments", publicHandler.Book)
			publicAPI.PATCH("/appointments/:id/cancel", publicHandler.Cancel)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA (MÉDICO)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/workplaces", workplaceHandler.List)
			secured.POST("/me/workplaces", workplaceHandler.Create)
			secured.GET("/me/workplaces/:id", workplaceHandler.Get)
			secured.PATCH("/me/workplaces/:id", workplaceHandler.Update)

			secured.GET("/me/patients", patientHandler.List)
			secured.GET("/me/patients/:id/family-members", patientHandler.ListFamilyMembers)
			secured.POST("/me/patients/:id/family-members", patientHandler.CreateFamilyMember)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/availability", appointmentHandler.Availability)
			secured.POST("/me/appointments", appointmentHandler.Book)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.POST("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/push-to-end", appointmentHandler.PushToEnd)
			secured.POST("/me/appointments/bulk-transition", appointmentHandler.BulkTransition)

			// ------------------------------
			// BLOCKED SLOTS
			// ------------------------------
			secured.GET("/me/blocked-slots", blockedSlotHandler.List)
			secured.POST("/me/blocked-slots", blockedSlotHandler.Create)
			secured.DELETE("/me/blocked-slots/:id", blockedSlotHandler.Deactivate)

			// ------------------------------
			// ARQUIVADOR (DISPARO MANUAL)
			// ------------------------------
			secured.POST("/me/archival/run", archivalHandler.Run)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
