package update_schedule

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
	msgInvalidRules      = "некорректные правила расписания"
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

// Handle PUT /api/v1/businesses/{businessId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.ReplaceSchedule(r.Context(), req.ToServiceRequest(businessID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/schedule - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("PUT /businesses/{id}/schedule - Staff not found: business_id=%d, staff_id=%v", businessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule - Invalid rules: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule - Schedule replaced: business_id=%d, rules=%d",
		businessID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
