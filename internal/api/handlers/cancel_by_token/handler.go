package cancel_by_token

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/tokens"
)

const (
	msgTokenNotFound = "бронирование по этой ссылке не найдено"
	msgInvalidBody   = "некорректное тело запроса"
)

type Handler struct {
	tokenService   TokenService
	bookingService BookingService
	logger         Logger
}

func NewHandler(tokenService TokenService, bookingService BookingService, logger Logger) *Handler {
	return &Handler{
		tokenService:   tokenService,
		bookingService: bookingService,
		logger:         logger,
	}
}

// Handle POST /api/v1/self-service/bookings/{actionToken}/cancel
//
// Повторная отмена по той же ссылке идемпотентна: возвращается 200
// с alreadyCancelled=true, причина первой отмены не перезаписывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := domain.ActionToken(vars["actionToken"])

	var req CancelByTokenRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /self-service/bookings/{token}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBody)
			return
		}
	}

	booking, err := h.tokenService.ResolveActionToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenNotFound):
			h.logger.Warn("POST /self-service/bookings/{token}/cancel - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		default:
			h.logger.Error("POST /self-service/bookings/{token}/cancel - Resolve failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	result, err := h.bookingService.Cancel(r.Context(), booking.ID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /self-service/bookings/{token}/cancel - Booking not found: booking_id=%d", booking.ID)
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /self-service/bookings/{token}/cancel - Invalid input: booking_id=%d, error=%v", booking.ID, err)
			handlers.RespondBadRequest(w, msgInvalidBody)

		default:
			h.logger.Error("POST /self-service/bookings/{token}/cancel - Failed: booking_id=%d, error=%v", booking.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /self-service/bookings/{token}/cancel - Cancelled: booking_id=%d, already_cancelled=%t",
		booking.ID, result.AlreadyCancelled)
	handlers.RespondJSON(w, http.StatusOK, CancelByTokenResponse{
		Cancelled:        true,
		AlreadyCancelled: result.AlreadyCancelled,
	})
}
