package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	usecase "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book         *usecase.BookAppointment
	cancel       *usecase.CancelAppointment
	complete     *usecase.CompleteAppointment
	reschedule   *usecase.RescheduleAppointment
	pushToEnd    *usecase.PushToEnd
	bulk         *usecase.BulkTransition
	availability *usecase.GetAvailability
	listByDate   *usecase.ListAppointmentsByDate
	listByMonth  *usecase.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *AppointmentHandler {

	reschedule := usecase.NewRescheduleAppointment(repo, rec, ntf)

	return &AppointmentHandler{
		book:         usecase.NewBookAppointment(repo, rec, ntf),
		cancel:       usecase.NewCancelAppointment(repo, rec, ntf),
		complete:     usecase.NewCompleteAppointment(repo, rec),
		reschedule:   reschedule,
		pushToEnd:    usecase.NewPushToEnd(repo, rec),
		bulk:         usecase.NewBulkTransition(repo, rec, ntf, reschedule),
		availability: usecase.NewGetAvailability(repo),
		listByDate:   usecase.NewListAppointmentsByDate(repo),
		listByMonth:  usecase.NewListAppointmentsByMonth(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	WorkplaceID uint `json:"workplace_id" binding:"required"`

	PatientID    uint   `json:"patient_id"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	PatientEmail string `json:"patient_email"`

	FamilyMemberID *uint `json:"family_member_id"`

	Date          string `json:"date" binding:"required"`
	Slot          string `json:"slot"`
	PreferredTime string `json:"preferred_time"`
	Notes         string `json:"notes"`
}

type RescheduleRequest struct {
	NewDate string `json:"new_date" binding:"required"`
	NewSlot string `json:"new_slot"`
	Reason  string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type BulkTransitionRequest struct {
	WorkplaceID    *uint  `json:"workplace_id"`
	Date           string `json:"date" binding:"required"`
	Target         string `json:"target" binding:"required"`
	PatientIDs     []uint `json:"patient_ids"`
	RescheduleDate string `json:"reschedule_date"`
	Reason         string `json:"reason"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), usecase.BookAppointmentInput{
		DoctorID:       doctorID,
		WorkplaceID:    req.WorkplaceID,
		PatientID:      req.PatientID,
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

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), usecase.CancelAppointmentInput{
		AppointmentID: uint(id),
		ByDoctorID:    &doctorID,
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

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), doctorID, uint(id))
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_complete", "Erro ao concluir consulta.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		AppointmentID: uint(id),
		DoctorID:      doctorID,
		NewDate:       req.NewDate,
		NewSlot:       req.NewSlot,
		Reason:        req.Reason,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_reschedule", "Erro ao remarcar consulta.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// PUSH TO END
// ======================================================

func (h *AppointmentHandler) PushToEnd(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.pushToEnd.Execute(c.Request.Context(), usecase.PushToEndInput{
		AppointmentID: uint(id),
		DoctorID:      doctorID,
		Reason:        req.Reason,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_push", "Erro ao mover consulta.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// BULK TRANSITION
// ======================================================

func (h *AppointmentHandler) BulkTransition(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	count, err := h.bulk.Execute(c.Request.Context(), usecase.BulkTransitionInput{
		DoctorID:       doctorID,
		WorkplaceID:    req.WorkplaceID,
		Date:           req.Date,
		Target:         req.Target,
		PatientIDs:     req.PatientIDs,
		RescheduleDate: req.RescheduleDate,
		Reason:         req.Reason,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_bulk_transition", "Erro na transição em lote.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target":     req.Target,
		"transition": count,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

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

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID:    doctorID,
		WorkplaceID: uint(wpID),
		Date:        day,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_availability", "Erro ao montar a grade do dia.")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

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

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), doctorID, uint(wpID), day)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_list", "Erro ao listar consultas.")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	wpID, err := strconv.ParseUint(c.Query("workplace_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_workplace", "Consultório inválido.")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), doctorID, uint(wpID), year, month)
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_list", "Erro ao listar consultas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}
