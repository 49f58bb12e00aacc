package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидаются YYYY-MM-DD и HH:MM"
	msgBusinessNotFound    = "бизнес не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceInactive     = "услуга отключена"
	msgStaffNotFound       = "сотрудник не найден"
	msgStaffNoService      = "сотрудник не предоставляет эту услугу"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgOutsideAvailability = "выбранное время вне рабочих часов"
	msgBlocked             = "выбранное время попадает в заблокированный период"
	msgSlotFull            = "все места выбранного слота заняты"
	msgInvalidRequestData  = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /bookings - Outside availability: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrBlocked):
			h.logger.Warn("POST /bookings - Blocked period: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgBlocked)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrStaffCannotProvideService):
			h.logger.Warn("POST /bookings - Staff does not provide service: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgStaffNoService)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestData)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: business_id=%d, error=%v", req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, business_id=%d, status=%s",
		result.ID, req.BusinessID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
