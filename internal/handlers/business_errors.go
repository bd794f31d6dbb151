package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// Tradução única dos erros de negócio dos usecases para HTTP.
// Retorna false quando o erro não é de negócio (aí é 500 do chamador).
func respondBusiness(c *gin.Context, err error) bool {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		return false
	}

	switch be.Code {
	case "doctor_not_found":
		httperr.NotFound(c, be.Code, "Médico não encontrado.")
	case "workplace_not_found":
		httperr.NotFound(c, be.Code, "Consultório não encontrado.")
	case "patient_not_found":
		httperr.NotFound(c, be.Code, "Paciente não encontrado.")
	case "family_member_not_found":
		httperr.NotFound(c, be.Code, "Dependente não encontrado.")
	case "appointment_not_found":
		httperr.NotFound(c, be.Code, "Consulta não encontrada.")
	case "blocked_slot_not_found":
		httperr.NotFound(c, be.Code, "Bloqueio não encontrado.")

	case "slot_taken":
		httperr.Conflict(c, be.Code, "Horário já ocupado.")
	case "day_full":
		httperr.Conflict(c, be.Code, "Agenda do dia lotada.")
	case "already_running":
		httperr.Conflict(c, be.Code, "Arquivamento já em andamento.")
	case "invalid_state":
		httperr.Conflict(c, be.Code, "Transição de estado não permitida.")

	case "not_allowed":
		httperr.Forbidden(c, be.Code, "Operação não permitida para este ator.")

	case "invalid_date":
		httperr.BadRequest(c, be.Code, "Data inválida ou no passado.")
	case "invalid_slot":
		httperr.BadRequest(c, be.Code, "Horário inexistente na grade do dia.")
	case "slot_in_past":
		httperr.BadRequest(c, be.Code, "Horário já começou.")
	case "invalid_time":
		httperr.BadRequest(c, be.Code, "Hora inválida.")
	case "invalid_time_range":
		httperr.BadRequest(c, be.Code, "Janela de bloqueio inválida.")
	case "invalid_target_status":
		httperr.BadRequest(c, be.Code, "Status de destino inválido.")
	case "patient_required":
		httperr.BadRequest(c, be.Code, "Dados do paciente obrigatórios.")

	default:
		httperr.BadRequest(c, be.Code, "Requisição inválida.")
	}

	return true
}
