package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	usecase "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Disparo manual da virada de dia. O lock distribuído garante que o
// scheduler e este endpoint nunca rodem ao mesmo tempo.
type ArchivalHandler struct {
	archive *usecase.ArchiveDayBoundary
}

func NewArchivalHandler(archive *usecase.ArchiveDayBoundary) *ArchivalHandler {
	return &ArchivalHandler{archive: archive}
}

func (h *ArchivalHandler) Run(c *gin.Context) {
	out, err := h.archive.Execute(c.Request.Context())
	if err != nil {
		if respondBusiness(c, err) {
			return
		}
		httperr.Internal(c, "archival_failed", "Erro na virada de dia.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed": out.Completed,
		"moved":     out.Moved,
	})
}
