package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type WorkplaceHandler struct {
	db *gorm.DB
}

func NewWorkplaceHandler(db *gorm.DB) *WorkplaceHandler {
	return &WorkplaceHandler{db: db}
}

type WorkplaceRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`

	MorningStart string `json:"morning_start"`
	MorningEnd   string `json:"morning_end"`
	EveningStart string `json:"evening_start"`
	EveningEnd   string `json:"evening_end"`

	SlotDurationMin int `json:"slot_duration_min"`
}

func (h *WorkplaceHandler) List(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var workplaces []models.Workplace
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("id ASC").
		Find(&workplaces).Error; err != nil {

		httperr.Internal(c, "failed_to_list_workplaces", "Erro ao listar consultórios.")
		return
	}

	c.JSON(http.StatusOK, workplaces)
}

func (h *WorkplaceHandler) Create(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req WorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
		return
	}

	wpType := req.Type
	if wpType == "" {
		wpType = "clinic"
	}

	wp := models.Workplace{
		DoctorID:        doctorID,
		Name:            req.Name,
		Type:            wpType,
		Address:         req.Address,
		Timezone:        req.Timezone,
		MorningStart:    req.MorningStart,
		MorningEnd:      req.MorningEnd,
		EveningStart:    req.EveningStart,
		EveningEnd:      req.EveningEnd,
		SlotDurationMin: req.SlotDurationMin,
	}

	if err := h.db.Create(&wp).Error; err != nil {
		httperr.Internal(c, "failed_to_create_workplace", "Erro ao criar consultório.")
		return
	}

	c.JSON(http.StatusCreated, wp)
}

func (h *WorkplaceHandler) Get(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)
	id := c.Param("id")

	var wp models.Workplace
	if err := h.db.
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&wp).Error; err != nil {

		httperr.NotFound(c, "workplace_not_found", "Consultório não encontrado.")
		return
	}

	c.JSON(http.StatusOK, wp)
}

// Update troca o cadastro e as janelas de sessão. A grade nova só
// vale para marcações futuras: consultas existentes guardam snapshot.
func (h *WorkplaceHandler) Update(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)
	id := c.Param("id")

	var wp models.Workplace
	if err := h.db.
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&wp).Error; err != nil {

		httperr.NotFound(c, "workplace_not_found", "Consultório não encontrado.")
		return
	}

	var req WorkplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
		return
	}

	wp.Name = req.Name
	if req.Type != "" {
		wp.Type = req.Type
	}
	wp.Address = req.Address
	if req.Timezone != "" {
		wp.Timezone = req.Timezone
	}
	wp.MorningStart = req.MorningStart
	wp.MorningEnd = req.MorningEnd
	wp.EveningStart = req.EveningStart
	wp.EveningEnd = req.EveningEnd
	wp.SlotDurationMin = req.SlotDurationMin

	if err := h.db.Save(&wp).Error; err != nil {
		httperr.Internal(c, "failed_to_update_workplace", "Erro ao salvar consultório.")
		return
	}

	c.JSON(http.StatusOK, wp)
}
