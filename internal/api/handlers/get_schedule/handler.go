package get_schedule

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
	msgInvalidStaffID    = "некорректный идентификатор сотрудника"
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

// Handle GET /api/v1/businesses/{businessId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var staffID *int64
	if raw := r.URL.Query().Get("staffId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/schedule - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		staffID = &parsed
	}

	result, err := h.service.GetSchedule(r.Context(), businessID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/schedule - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("GET /businesses/{id}/schedule - Staff not found: business_id=%d, staff_id=%v", businessID, staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/schedule - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/schedule - Retrieved %d rules: business_id=%d", len(result.Rules), businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
