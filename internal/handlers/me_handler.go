package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	doctorIDVal, exists := c.Get(middleware.ContextDoctorID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "doctor_not_in_context"})
		return
	}

	doctorID, ok := doctorIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_doctor_id_type"})
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "doctor_not_found"})
		return
	}

	var workplaces []models.Workplace
	h.db.Where("doctor_id = ?", doctorID).Order("id ASC").Find(&workplaces)

	c.JSON(http.StatusOK, gin.H{
		"doctor": gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"email":          doctor.Email,
			"phone":          doctor.Phone,
			"specialization": doctor.Specialization,
			"license_number": doctor.LicenseNumber,
		},
		"workplaces": workplaces,
	})
}
