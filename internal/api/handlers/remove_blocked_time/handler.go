package remove_blocked_time

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidBusinessID    = "некорректный идентификатор бизнеса"
	msgInvalidBlockedTimeID = "некорректный идентификатор блокировки"
	msgNotFound             = "блокировка не найдена"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/blocked-times/{blockedTimeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-times/{btId} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	blockedTimeID, err := strconv.ParseInt(vars["blockedTimeId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/blocked-times/{btId} - Invalid blocked time ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockedTimeID)
		return
	}

	if err := h.service.RemoveBlockedTime(r.Context(), businessID, blockedTimeID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockedTimeNotFound):
			h.logger.Warn("DELETE /businesses/{id}/blocked-times/{btId} - Not found: business_id=%d, blocked_time_id=%d",
				businessID, blockedTimeID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /businesses/{id}/blocked-times/{btId} - Failed: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/blocked-times/{btId} - Removed: business_id=%d, blocked_time_id=%d",
		businessID, blockedTimeID)
	w.WriteHeader(http.StatusNoContent)
}
