package handlers

import (
	"net/http"
	"strconv"

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

type BlockedSlotHandler struct {
	repo       domain.Repository
	create     *usecase.CreateBlockedSlot
	deactivate *usecase.DeactivateBlockedSlot
}

func NewBlockedSlotHandler(
	repo domain.Repository,
	rec audit.Recorder,
	ntf notify.Notifier,
) *BlockedSlotHandler {
	return &BlockedSlotHandler{
		repo:       repo,
		create:     usecase.NewCreateBlockedSlot(repo, rec, ntf),
		deactivate: usecase.NewDeactivateBlockedSlot(repo, rec),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBlockedSlotRequest struct {
	WorkplaceID *uint  `json:"workplace_id"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsFullDay   bool   `json:"is_full_day"`
	Reason      string `json:"reason"`

	CancelExisting bool `json:"cancel_existing"`
}

// ======================================================
// CREATE (+ CASCATA)
// ======================================================

func (h *BlockedSlotHandler) Create(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req CreateBlockedSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	out, err := h.create.Execute(c.Request.Context(), usecase.CreateBlockedSlotInput{
		DoctorID:       doctorID,
		WorkplaceID:    req.WorkplaceID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsFullDay:      req.IsFullDay,
		Reason:         req.Reason,
		CancelExisting: req.CancelExisting,
	})
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_block", "Erro ao bloquear agenda.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"blocked_slot": out.Block,
		"cancelled":    out.CancelledCount,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *BlockedSlotHandler) List(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	blocks, err := h.repo.ListBlockedSlotsForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_blocks", "Erro ao listar bloqueios.")
		return
	}

	httpresp.List(c, blocks)
}

// ======================================================
// DEACTIVATE (SOFT DELETE)
// ======================================================

func (h *BlockedSlotHandler) Deactivate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	block, err := h.deactivate.Execute(c.Request.Context(), doctorID, uint(id))
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_deactivate_block", "Erro ao remover bloqueio.")
		return
	}

	c.JSON(http.StatusOK, block)
}
