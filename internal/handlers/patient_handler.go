package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

// ======================================================
// LIST PATIENTS (MÉDICO)
// ======================================================
func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Patient{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order("created_at DESC").
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_patients", "Erro ao listar pacientes.")
		return
	}

	httpresp.List(c, patients)
}

// ======================================================
// FAMILY MEMBERS
// ======================================================

type FamilyMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation"`
}

func (h *PatientHandler) ListFamilyMembers(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.db.First(&patient, patientID).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Paciente não encontrado.")
		return
	}

	var members []models.FamilyMember
	if err := h.db.
		Where("patient_id = ?", patient.ID).
		Order("id ASC").
		Find(&members).Error; err != nil {

		httperr.Internal(c, "failed_to_list_family", "Erro ao listar dependentes.")
		return
	}

	httpresp.List(c, members)
}

func (h *PatientHandler) CreateFamilyMember(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.db.First(&patient, patientID).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Paciente não encontrado.")
		return
	}

	var req FamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	member := models.FamilyMember{
		PatientID: patient.ID,
		Name:      req.Name,
		Relation:  req.Relation,
	}

	if err := h.db.Create(&member).Error; err != nil {
		httperr.Internal(c, "failed_to_create_family_member", "Erro ao criar dependente.")
		return
	}

	c.JSON(http.StatusCreated, member)
}
