package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// Superfície pública de marcação: o paciente não tem login, então as
// rotas identificam o médico pelo ID e o paciente pelo telefone.
type PublicHandler struct {
	db     *gorm.DB
	audit  audit.Recorder
	notify notify.Notifier
}

func NewPublicHandler(db *gorm.DB, rec audit.Recorder, ntf notify.Notifier) *PublicHandler {
	return &PublicHandler{
		db:     db,
		audit:  rec,
		notify: ntf,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookRequest struct {
	WorkplaceID  uint   `json:"workplace_id" binding:"required"`
	PatientName  string `json:"patient_name" binding:"required"`
	PatientPhone string `json:"patient_phone" binding:"required"`
	PatientEmail string `json:"patient_email"`

	FamilyMemberID *uint `json:"family_member_id"`

	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Slot          string `json:"slot"`
	PreferredTime string `json:"preferred_time"` // HH:mm
	Notes         string `json:"notes"`
}

type PublicCancelRequest struct {
	PatientPhone string `json:"patient_phone" binding:"required"`
	Reason       string `json:"reason"`
}

////////////////////////////////////////////////////////
// DOCTORS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))
	specialization := strings.TrimSpace(strings.ToLower(c.Query("specialization")))

	q := h.db.Model(&models.Doctor{})

	if specialization != "" {
		q = q.Where("LOWER(specialization) = ?", specialization)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(specialization) LIKE ?", like, like)
	}

	var doctors []models.Doctor
	if err := q.Order("name ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Erro ao listar médicos.")
		return
	}

	out := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, gin.H{
			"id":             d.ID,
			"name":           d.Name,
			"specialization": d.Specialization,
			"license_number": d.LicenseNumber,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *PublicHandler) ListWorkplaces(c *gin.Context) {
	doctorID := c.Param("id")

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
		return
	}

	var workplaces []models.Workplace
	if err := h.db.
		Where("doctor_id = ?", doctor.ID).
		Order("id ASC").
		Find(&workplaces).Error; err != nil {

		httperr.Internal(c, "failed_to_list_workplaces", "Erro ao listar consultórios.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor": gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"specialization": doctor.Specialization,
		},
		"workplaces": workplaces,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor", "Médico inválido.")
		return
	}

	wpID, err := strconv.ParseUint(c.Query("workplace_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_workplace", "Consultório inválido.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	var wp models.Workplace
	if err := h.db.
		Where("id = ? AND doctor_id = ?", wpID, doctorID).
		First(&wp).Error; err != nil {

		httperr.NotFound(c, "workplace_not_found", "Consultório não encontrado.")
		return
	}

	date, err := parseDateInWorkplace(&wp, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	uc := appointment.NewGetAvailability(repo)

	out, err := uc.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID:    uint(doctorID),
		WorkplaceID: uint(wpID),
		Date:        date,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// BOOK (PUBLIC → REUSA O MESMO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Book(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor", "Médico inválido.")
		return
	}

	var req PublicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	uc := appointment.NewBookAppointment(repo, h.audit, h.notify)

	ap, err := uc.Execute(c.Request.Context(), appointment.BookAppointmentInput{
		DoctorID:       uint(doctorID),
		WorkplaceID:    req.WorkplaceID,
		PatientName:    req.PatientName,
		PatientPhone:   req.PatientPhone,
		PatientEmail:   req.PatientEmail,
		FamilyMemberID: req.FamilyMemberID,
		Date:           req.Date,
		Slot:           req.Slot,
		PreferredTime:  req.PreferredTime,
		Notes:          req.Notes,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_book", "Erro ao marcar consulta.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

////////////////////////////////////////////////////////
// CANCEL (PACIENTE, VERIFICADO PELO TELEFONE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var patient models.Patient
	if err := h.db.
		Where("phone = ?", req.PatientPhone).
		First(&patient).Error; err != nil {

		httperr.NotFound(c, "patient_not_found", "Paciente não encontrado.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	uc := appointment.NewCancelAppointment(repo, h.audit, h.notify)

	ap, err := uc.Execute(c.Request.Context(), appointment.CancelAppointmentInput{
		AppointmentID: uint(id),
		ByPatientID:   &patient.ID,
		Reason:        req.Reason,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel", "Erro ao cancelar consulta.")
		return
	}

	c.JSON(http.StatusOK, ap)
}
