package resolve_action_token

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingModels "github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tokens"
)

const (
	msgTokenNotFound = "бронирование по этой ссылке не найдено"
)

type Handler struct {
	service TokenService
	logger  Logger
}

func NewHandler(service TokenService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/self-service/bookings/{actionToken}
//
// Токен сам по себе является авторизацией: ссылка из письма подтверждения
// дает клиенту доступ к его бронированию без учетной записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := domain.ActionToken(vars["actionToken"])

	booking, err := h.service.ResolveActionToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenNotFound):
			h.logger.Warn("GET /self-service/bookings/{token} - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		default:
			h.logger.Error("GET /self-service/bookings/{token} - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /self-service/bookings/{token} - Resolved: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, bookingModels.FromDomainBooking(booking))
}
