package confirm_modification

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	confirmModification "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_modification"
)

const (
	msgTokenNotFound       = "ссылка подтверждения недействительна"
	msgTokenExpired        = "срок действия ссылки истёк, бронирование осталось на исходном времени"
	msgTokenAlreadyUsed    = "ссылка подтверждения уже была использована"
	msgNoProposal          = "у бронирования нет активного предложения переноса"
	msgSlotConflict        = "предложенное время больше недоступно"
	msgOutsideAvailability = "предложенное время вне рабочих часов"
)

type Handler struct {
	usecase ConfirmModificationUseCase
	logger  Logger
}

func NewHandler(usecase ConfirmModificationUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle POST /api/v1/self-service/modifications/{modificationToken}/confirm
//
// Просроченный или погашенный токен отвечает 410 Gone: повторный запрос
// по той же ссылке уже никогда не станет успешным
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	req := &confirmModification.Request{
		Token: vars["modificationToken"],
	}

	result, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, confirmModification.ErrTokenNotFound):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, confirmModification.ErrTokenExpired):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Token expired")
			handlers.RespondGone(w, msgTokenExpired)

		case errors.Is(err, confirmModification.ErrTokenAlreadyUsed):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Token already used")
			handlers.RespondGone(w, msgTokenAlreadyUsed)

		case errors.Is(err, confirmModification.ErrNoProposal):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - No pending proposal")
			handlers.RespondError(w, http.StatusConflict, msgNoProposal)

		case errors.Is(err, confirmModification.ErrOutsideAvailability):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Slot outside availability")
			handlers.RespondError(w, http.StatusConflict, msgOutsideAvailability)

		case errors.Is(err, confirmModification.ErrBlocked),
			errors.Is(err, confirmModification.ErrSlotFull):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Slot conflict: error=%v", err)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, confirmModification.ErrInvalidInput):
			h.logger.Warn("POST /self-service/modifications/{token}/confirm - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgTokenNotFound)

		default:
			h.logger.Error("POST /self-service/modifications/{token}/confirm - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /self-service/modifications/{token}/confirm - Modification applied: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
