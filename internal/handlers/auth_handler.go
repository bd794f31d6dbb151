package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`

	// Primeiro consultório, criado junto com a conta
	WorkplaceName    string `json:"workplace_name" binding:"required"`
	WorkplaceType    string `json:"workplace_type"`
	WorkplaceAddress string `json:"workplace_address"`
	Timezone         string `json:"timezone"`

	MorningStart string `json:"morning_start"`
	MorningEnd   string `json:"morning_end"`
	EveningStart string `json:"evening_start"`
	EveningEnd   string `json:"evening_end"`

	SlotDurationMin int `json:"slot_duration_min"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	var count int64
	h.db.Model(&models.Doctor{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	doctor := models.Doctor{
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hashed),
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_doctor"})
		return
	}

	wpType := req.WorkplaceType
	if wpType == "" {
		wpType = "clinic"
	}

	workplace := models.Workplace{
		DoctorID:        doctor.ID,
		Name:            req.WorkplaceName,
		Type:            wpType,
		Address:         req.WorkplaceAddress,
		Timezone:        req.Timezone,
		MorningStart:    req.MorningStart,
		MorningEnd:      req.MorningEnd,
		EveningStart:    req.EveningStart,
		EveningEnd:      req.EveningEnd,
		SlotDurationMin: req.SlotDurationMin,
	}

	if err := h.db.Create(&workplace).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_workplace"})
		return
	}

	token, err := h.generateToken(&doctor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"doctor": gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"email":          doctor.Email,
			"phone":          doctor.Phone,
			"specialization": doctor.Specialization,
			"license_number": doctor.LicenseNumber,
		},
		"workplace": gin.H{
			"id":      workplace.ID,
			"name":    workplace.Name,
			"type":    workplace.Type,
			"address": workplace.Address,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var doctor models.Doctor
	if err := h.db.
		Where("email = ?", email).
		First(&doctor).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&doctor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor": gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"email":          doctor.Email,
			"phone":          doctor.Phone,
			"specialization": doctor.Specialization,
			"license_number": doctor.LicenseNumber,
		},
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(doctor *models.Doctor) (string, error) {
	claims := jwt.MapClaims{
		"sub":  doctor.ID,
		"role": "doctor",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
