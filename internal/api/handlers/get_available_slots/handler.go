package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID  = "некорректный идентификатор бизнеса"
	msgInvalidQuery       = "некорректные параметры запроса, ожидаются serviceId, dateFrom и dateTo"
	msgInvalidDateRange   = "некорректный диапазон дат"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга отключена"
	msgStaffNotFound      = "сотрудник не найден"
	msgStaffNoService     = "сотрудник не предоставляет эту услугу"
	msgInvalidRequestData = "некорректные данные запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	req, err := parseQuery(businessID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /available-slots - Staff not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffCannotProvideService):
			h.logger.Warn("GET /available-slots - Staff does not provide service: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgStaffNoService)

		case errors.Is(err, getAvailableSlots.ErrInvalidDateRange):
			h.logger.Warn("GET /available-slots - Invalid date range: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestData)

		default:
			h.logger.Error("GET /available-slots - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Resolved %d days: business_id=%d", len(result.Days), businessID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
