package add_blocked_time

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "некорректный идентификатор бизнеса"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidPeriod     = "некорректный период блокировки"
	msgBusinessNotFound  = "бизнес не найден"
	msgStaffNotFound     = "сотрудник не найден"
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

// Handle POST /api/v1/businesses/{businessId}/blocked-times
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-times - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req AddBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/blocked-times - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.AddBlockedTime(r.Context(), req.ToServiceRequest(businessID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/blocked-times - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("POST /businesses/{id}/blocked-times - Staff not found: business_id=%d, staff_id=%v",
				businessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/blocked-times - Invalid period: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("POST /businesses/{id}/blocked-times - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/blocked-times - Blocked time created: id=%d, business_id=%d",
		result.ID, businessID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
